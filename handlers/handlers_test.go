package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sparkmatch/middleware"
	"sparkmatch/models"
	"sparkmatch/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires a fresh in-memory store into the handlers and builds a
// router with the same route shape main uses.
func newTestRouter(t *testing.T) (*storage.MemStorage, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testStore := storage.NewMemStorage()
	SetStorage(testStore)

	router := gin.New()
	router.POST("/api/signup", Signup)
	router.POST("/api/login", Login)
	router.POST("/api/webhooks/stripe", StripeWebhook)

	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())
	protected.GET("/user/profile", GetMyProfile)
	protected.PUT("/user/profile", UpdateMyProfile)
	protected.GET("/user/stats", GetMyStats)
	protected.GET("/discover", Discover)
	protected.POST("/like", LikeUser)
	protected.GET("/matches", GetMatches)
	protected.GET("/conversations", GetConversations)
	protected.GET("/conversations/:id/messages", GetConversationMessages)
	protected.POST("/conversations/:id/read", MarkConversationRead)
	protected.POST("/messages", SendMessage)
	protected.POST("/get-or-create-subscription", GetOrCreateSubscription)

	return testStore, router
}

func seedUser(t *testing.T, s *storage.MemStorage, name string, age int, interests ...string) models.User {
	t.Helper()
	return s.CreateUser(models.User{
		AuthUID:     "uid-" + name,
		Email:       name + "@example.com",
		Username:    name,
		DisplayName: name,
		Age:         age,
		Interests:   interests,
		Photos:      []string{},
	})
}

func authedRequest(t *testing.T, method, path string, body interface{}, user models.User) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	token, err := middleware.SignToken(user.AuthUID)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestSignupAndLogin(t *testing.T) {
	_, router := newTestRouter(t)

	body, _ := json.Marshal(gin.H{"email": "alice@example.com", "password": "secret123"})
	req := httptest.NewRequest(http.MethodPost, "/api/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var signupResp struct {
		Token  string `json:"token"`
		UserID int    `json:"userId"`
	}
	decodeBody(t, w, &signupResp)
	assert.NotEmpty(t, signupResp.Token)
	assert.Equal(t, 1, signupResp.UserID)

	// Duplicate email is rejected.
	req = httptest.NewRequest(http.MethodPost, "/api/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Login with the right password.
	req = httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// And with a wrong one.
	wrong, _ := json.Marshal(gin.H{"email": "alice@example.com", "password": "wrong-pass"})
	req = httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(wrong))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileRequiresAuth(t *testing.T) {
	_, router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileUnknownUserIs404(t *testing.T) {
	_, router := newTestRouter(t)

	ghost := models.User{AuthUID: "uid-ghost"}
	req := authedRequest(t, http.MethodGet, "/api/user/profile", nil, ghost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAndUpdateProfile(t *testing.T) {
	testStore, router := newTestRouter(t)
	alice := seedUser(t, testStore, "alice", 25, "music")

	req := authedRequest(t, http.MethodGet, "/api/user/profile", nil, alice)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched models.User
	decodeBody(t, w, &fetched)
	assert.Equal(t, alice.ID, fetched.ID)
	assert.Equal(t, "alice", fetched.Username)

	req = authedRequest(t, http.MethodPut, "/api/user/profile", gin.H{"bio": "hello there", "age": 26}, alice)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	decodeBody(t, w, &updated)
	assert.Equal(t, "hello there", updated.Bio)
	assert.Equal(t, 26, updated.Age)
	// Untouched fields survive the partial update.
	assert.Equal(t, []string{"music"}, updated.Interests)
}

func TestStatsEndpoint(t *testing.T) {
	testStore, router := newTestRouter(t)
	alice := seedUser(t, testStore, "alice", 25)
	bob := seedUser(t, testStore, "bob", 27)

	testStore.CreateLike(models.Like{FromUserID: alice.ID, ToUserID: bob.ID, IsLike: true, IsSuperLike: true})

	req := authedRequest(t, http.MethodGet, "/api/user/stats", nil, alice)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.UserStats
	decodeBody(t, w, &stats)
	assert.Equal(t, 1, stats.TotalLikes)
	assert.Equal(t, 1, stats.TotalSuperLikes)
	assert.Equal(t, 0, stats.TotalMatches)
}

func TestSubscriptionUnavailableWithoutStripe(t *testing.T) {
	testStore, router := newTestRouter(t)
	alice := seedUser(t, testStore, "alice", 25)

	req := authedRequest(t, http.MethodPost, "/api/get-or-create-subscription", gin.H{"plan": "premium"}, alice)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
