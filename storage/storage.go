package storage

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"sparkmatch/models"

	"github.com/SherClockHolmes/webpush-go"
)

var ErrUserNotFound = errors.New("user not found")

// DiscoveryFilters narrows the candidate list for the swipe deck.
type DiscoveryFilters struct {
	MaxDistance float64 // kilometers, 0 disables the distance check
	MinAge      int
	MaxAge      int
	Interests   []string
}

// ProfileUpdate carries the fields a profile edit may change. Nil pointers
// leave the stored value untouched.
type ProfileUpdate struct {
	Username        *string
	DisplayName     *string
	Age             *int
	Bio             *string
	Location        *string
	Occupation      *string
	Education       *string
	Interests       *[]string
	Photos          *[]string
	Latitude        *float64
	Longitude       *float64
	ProfileComplete *bool
}

type Storage interface {
	// User operations
	GetUser(id int) (models.User, bool)
	GetUserByAuthUID(authUID string) (models.User, bool)
	GetUserByEmail(email string) (models.User, bool)
	GetUserByStripeSubscriptionID(subscriptionID string) (models.User, bool)
	CreateUser(user models.User) models.User
	UpdateUser(authUID string, update ProfileUpdate) (models.User, error)
	UpdateUserStripeInfo(userID int, customerID, subscriptionID string) (models.User, error)
	UpdateUserPremiumStatus(userID int, isPremium bool) (models.User, error)

	// Discovery operations
	GetPotentialMatches(authUID string, filters DiscoveryFilters) []models.User

	// Like/match operations
	CreateLike(like models.Like) models.Like
	CheckForMatch(userID1, userID2 int) bool
	CreateMatch(userID1, userID2 int) models.Match
	LikeAndMatch(fromUserID, toUserID int, isLike, isSuperLike bool) (models.Like, *models.Match, bool)
	GetUserMatches(userID int) []models.Match

	// Conversation operations
	CreateConversation(matchID int) models.Conversation
	GetConversation(id int) (models.Conversation, bool)
	GetUserConversations(userID int) []models.ConversationSummary
	GetConversationMessages(conversationID int) []models.Message

	// Message operations
	CreateMessage(message models.Message) models.Message
	MarkMessagesRead(conversationID, readerID int) int

	// Stats operations
	GetUserStats(userID int) models.UserStats

	// Push subscription operations
	UpsertPushSubscription(userID int, sub webpush.Subscription) models.PushSubscription
	GetPushSubscription(userID int) (models.PushSubscription, bool)
	DeletePushSubscription(userID int)
}

// MemStorage keeps everything in process memory. IDs are per-kind counters
// starting at 1 and are never reused. A single mutex guards every operation,
// so multi-step sequences like LikeAndMatch stay atomic under concurrent
// requests.
type MemStorage struct {
	mu sync.Mutex

	users         map[int]models.User
	likes         map[int]models.Like
	matches       map[int]models.Match
	conversations map[int]models.Conversation
	messages      map[int]models.Message
	pushSubs      map[int]models.PushSubscription // keyed by user ID

	currentUserID         int
	currentLikeID         int
	currentMatchID        int
	currentConversationID int
	currentMessageID      int
	currentPushSubID      int
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		users:                 make(map[int]models.User),
		likes:                 make(map[int]models.Like),
		matches:               make(map[int]models.Match),
		conversations:         make(map[int]models.Conversation),
		messages:              make(map[int]models.Message),
		pushSubs:              make(map[int]models.PushSubscription),
		currentUserID:         1,
		currentLikeID:         1,
		currentMatchID:        1,
		currentConversationID: 1,
		currentMessageID:      1,
		currentPushSubID:      1,
	}
}

func now() int64 {
	return time.Now().UnixMilli()
}

// ===== User operations =====

func (s *MemStorage) GetUser(id int) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	return user, ok
}

func (s *MemStorage) GetUserByAuthUID(authUID string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUserByAuthUID(authUID)
}

// findUserByAuthUID expects the caller to hold s.mu.
func (s *MemStorage) findUserByAuthUID(authUID string) (models.User, bool) {
	for _, id := range s.userIDsInOrder() {
		if s.users[id].AuthUID == authUID {
			return s.users[id], true
		}
	}
	return models.User{}, false
}

func (s *MemStorage) GetUserByEmail(email string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.userIDsInOrder() {
		if s.users[id].Email == email {
			return s.users[id], true
		}
	}
	return models.User{}, false
}

func (s *MemStorage) GetUserByStripeSubscriptionID(subscriptionID string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.userIDsInOrder() {
		if s.users[id].StripeSubscriptionID == subscriptionID && subscriptionID != "" {
			return s.users[id], true
		}
	}
	return models.User{}, false
}

func (s *MemStorage) CreateUser(user models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.currentUserID
	s.currentUserID++
	user.CreatedAt = now()
	user.LastActive = user.CreatedAt
	s.users[user.ID] = user
	return user
}

func (s *MemStorage) UpdateUser(authUID string, update ProfileUpdate) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.findUserByAuthUID(authUID)
	if !ok {
		return models.User{}, ErrUserNotFound
	}

	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.DisplayName != nil {
		user.DisplayName = *update.DisplayName
	}
	if update.Age != nil {
		user.Age = *update.Age
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Location != nil {
		user.Location = *update.Location
	}
	if update.Occupation != nil {
		user.Occupation = *update.Occupation
	}
	if update.Education != nil {
		user.Education = *update.Education
	}
	if update.Interests != nil {
		user.Interests = *update.Interests
	}
	if update.Photos != nil {
		user.Photos = *update.Photos
	}
	if update.Latitude != nil {
		user.Latitude = update.Latitude
	}
	if update.Longitude != nil {
		user.Longitude = update.Longitude
	}
	if update.ProfileComplete != nil {
		user.ProfileComplete = *update.ProfileComplete
	}
	user.LastActive = now()

	s.users[user.ID] = user
	return user, nil
}

func (s *MemStorage) UpdateUserStripeInfo(userID int, customerID, subscriptionID string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	user.StripeCustomerID = customerID
	user.StripeSubscriptionID = subscriptionID
	s.users[userID] = user
	return user, nil
}

func (s *MemStorage) UpdateUserPremiumStatus(userID int, isPremium bool) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	user.IsPremium = isPremium
	s.users[userID] = user
	return user, nil
}

// ===== Discovery operations =====

// GetPotentialMatches returns up to 10 candidates in insertion order,
// excluding the caller and anyone the caller has already swiped on.
func (s *MemStorage) GetPotentialMatches(authUID string, filters DiscoveryFilters) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	currentUser, ok := s.findUserByAuthUID(authUID)
	if !ok {
		return []models.User{}
	}

	// Users the caller has already liked or passed on
	swipedIDs := make(map[int]bool)
	for _, like := range s.likes {
		if like.FromUserID == currentUser.ID {
			swipedIDs[like.ToUserID] = true
		}
	}

	candidates := []models.User{}
	for _, id := range s.userIDsInOrder() {
		user := s.users[id]

		if user.ID == currentUser.ID {
			continue
		}
		if swipedIDs[user.ID] {
			continue
		}
		if user.Age < filters.MinAge || user.Age > filters.MaxAge {
			continue
		}
		if len(filters.Interests) > 0 && !hasCommonInterest(user.Interests, filters.Interests) {
			continue
		}
		if filters.MaxDistance > 0 && !withinDistance(currentUser, user, filters.MaxDistance) {
			continue
		}

		candidates = append(candidates, user)
		if len(candidates) >= 10 {
			break
		}
	}

	return candidates
}

func hasCommonInterest(userInterests, wanted []string) bool {
	for _, interest := range userInterests {
		for _, w := range wanted {
			if interest == w {
				return true
			}
		}
	}
	return false
}

// withinDistance applies the distance filter only when both profiles carry
// coordinates; profiles without a location are never filtered out by it.
func withinDistance(a, b models.User, maxKm float64) bool {
	if a.Latitude == nil || a.Longitude == nil || b.Latitude == nil || b.Longitude == nil {
		return true
	}
	return haversineKm(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude) <= maxKm
}

// haversineKm returns the great-circle distance in kilometers.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371 // Earth's radius in kilometers

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}

// ===== Like/match operations =====

func (s *MemStorage) CreateLike(like models.Like) models.Like {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLike(like)
}

func (s *MemStorage) createLike(like models.Like) models.Like {
	like.ID = s.currentLikeID
	s.currentLikeID++
	like.CreatedAt = now()
	s.likes[like.ID] = like
	return like
}

func (s *MemStorage) CheckForMatch(userID1, userID2 int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMutualLike(userID1, userID2)
}

// hasMutualLike reports whether userID2 has already liked userID1.
func (s *MemStorage) hasMutualLike(userID1, userID2 int) bool {
	for _, like := range s.likes {
		if like.FromUserID == userID2 && like.ToUserID == userID1 && like.IsLike {
			return true
		}
	}
	return false
}

func (s *MemStorage) CreateMatch(userID1, userID2 int) models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createMatch(userID1, userID2)
}

func (s *MemStorage) createMatch(userID1, userID2 int) models.Match {
	match := models.Match{
		ID:        s.currentMatchID,
		UserID1:   userID1,
		UserID2:   userID2,
		IsMatch:   true,
		CreatedAt: now(),
	}
	s.currentMatchID++
	s.matches[match.ID] = match
	return match
}

// findMatchBetween looks for an existing match in either order.
func (s *MemStorage) findMatchBetween(userID1, userID2 int) (models.Match, bool) {
	for _, id := range s.matchIDsInOrder() {
		match := s.matches[id]
		if (match.UserID1 == userID1 && match.UserID2 == userID2) ||
			(match.UserID1 == userID2 && match.UserID2 == userID1) {
			return match, true
		}
	}
	return models.Match{}, false
}

// LikeAndMatch records the swipe and, on a mutual like, creates the match and
// its conversation in the same critical section. Repeated mutual likes return
// the existing match instead of stacking duplicates.
func (s *MemStorage) LikeAndMatch(fromUserID, toUserID int, isLike, isSuperLike bool) (models.Like, *models.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	like := s.createLike(models.Like{
		FromUserID:  fromUserID,
		ToUserID:    toUserID,
		IsLike:      isLike,
		IsSuperLike: isSuperLike,
	})

	if !isLike || !s.hasMutualLike(fromUserID, toUserID) {
		return like, nil, false
	}

	if existing, ok := s.findMatchBetween(fromUserID, toUserID); ok {
		return like, &existing, true
	}

	match := s.createMatch(fromUserID, toUserID)
	s.createConversation(match.ID)
	return like, &match, true
}

func (s *MemStorage) GetUserMatches(userID int) []models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userMatches(userID)
}

func (s *MemStorage) userMatches(userID int) []models.Match {
	matches := []models.Match{}
	for _, id := range s.matchIDsInOrder() {
		match := s.matches[id]
		if match.UserID1 == userID || match.UserID2 == userID {
			matches = append(matches, match)
		}
	}
	return matches
}

// ===== Conversation operations =====

func (s *MemStorage) CreateConversation(matchID int) models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createConversation(matchID)
}

func (s *MemStorage) createConversation(matchID int) models.Conversation {
	conversation := models.Conversation{
		ID:            s.currentConversationID,
		MatchID:       matchID,
		LastMessageAt: now(),
		CreatedAt:     now(),
	}
	s.currentConversationID++
	s.conversations[conversation.ID] = conversation
	return conversation
}

func (s *MemStorage) GetConversation(id int) (models.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conversation, ok := s.conversations[id]
	return conversation, ok
}

func (s *MemStorage) GetUserConversations(userID int) []models.ConversationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := s.userMatches(userID)
	matchByID := make(map[int]models.Match, len(matches))
	for _, match := range matches {
		matchByID[match.ID] = match
	}

	summaries := []models.ConversationSummary{}
	for _, id := range s.conversationIDsInOrder() {
		conversation := s.conversations[id]
		match, ok := matchByID[conversation.MatchID]
		if !ok {
			continue
		}

		otherUserID := match.UserID1
		if match.UserID1 == userID {
			otherUserID = match.UserID2
		}

		summary := models.ConversationSummary{Conversation: conversation}
		if otherUser, ok := s.users[otherUserID]; ok {
			summary.OtherUser = &otherUser
		}

		msgs := s.conversationMessages(conversation.ID)
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			summary.LastMessage = &last
		}
		for _, msg := range msgs {
			if msg.SenderID != userID && !msg.IsRead {
				summary.UnreadCount++
			}
		}

		summaries = append(summaries, summary)
	}

	return summaries
}

func (s *MemStorage) GetConversationMessages(conversationID int) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationMessages(conversationID)
}

// conversationMessages returns messages sorted by creation time ascending,
// ties broken by ID so ordering is stable.
func (s *MemStorage) conversationMessages(conversationID int) []models.Message {
	msgs := []models.Message{}
	for _, msg := range s.messages {
		if msg.ConversationID == conversationID {
			msgs = append(msgs, msg)
		}
	}
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt != msgs[j].CreatedAt {
			return msgs[i].CreatedAt < msgs[j].CreatedAt
		}
		return msgs[i].ID < msgs[j].ID
	})
	return msgs
}

// ===== Message operations =====

func (s *MemStorage) CreateMessage(message models.Message) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	message.ID = s.currentMessageID
	s.currentMessageID++
	message.CreatedAt = now()
	if message.Type == "" {
		message.Type = "text"
	}
	s.messages[message.ID] = message

	// Bump the parent conversation's last activity. A missing conversation
	// just skips the bump, the message itself is already stored.
	if conversation, ok := s.conversations[message.ConversationID]; ok {
		conversation.LastMessageAt = message.CreatedAt
		s.conversations[conversation.ID] = conversation
	}

	return message
}

func (s *MemStorage) MarkMessagesRead(conversationID, readerID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for id, msg := range s.messages {
		if msg.ConversationID == conversationID && msg.SenderID != readerID && !msg.IsRead {
			msg.IsRead = true
			s.messages[id] = msg
			updated++
		}
	}
	return updated
}

// ===== Stats operations =====

func (s *MemStorage) GetUserStats(userID int) models.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.UserStats{
		TotalMatches: len(s.userMatches(userID)),
		ProfileViews: rand.Intn(100), // mock until view tracking lands
	}
	for _, like := range s.likes {
		if like.FromUserID != userID {
			continue
		}
		if like.IsLike {
			stats.TotalLikes++
		}
		if like.IsSuperLike {
			stats.TotalSuperLikes++
		}
	}
	return stats
}

// ===== Push subscription operations =====

func (s *MemStorage) UpsertPushSubscription(userID int, sub webpush.Subscription) models.PushSubscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.pushSubs[userID]
	if ok {
		existing.Sub = sub
		s.pushSubs[userID] = existing
		return existing
	}

	pushSub := models.PushSubscription{
		ID:     s.currentPushSubID,
		UserID: userID,
		Sub:    sub,
	}
	s.currentPushSubID++
	s.pushSubs[userID] = pushSub
	return pushSub
}

func (s *MemStorage) GetPushSubscription(userID int) (models.PushSubscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.pushSubs[userID]
	return sub, ok
}

func (s *MemStorage) DeletePushSubscription(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pushSubs, userID)
}

// ===== Iteration helpers =====
// Go maps do not iterate in insertion order, but IDs are handed out
// sequentially, so walking the ID range recovers it.

func (s *MemStorage) userIDsInOrder() []int {
	return idRange(s.users, s.currentUserID)
}

func (s *MemStorage) matchIDsInOrder() []int {
	return idRange(s.matches, s.currentMatchID)
}

func (s *MemStorage) conversationIDsInOrder() []int {
	return idRange(s.conversations, s.currentConversationID)
}

func idRange[T any](m map[int]T, next int) []int {
	ids := make([]int, 0, len(m))
	for id := 1; id < next; id++ {
		if _, ok := m[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
