package models

type Conversation struct {
	ID            int   `json:"id"`
	MatchID       int   `json:"matchId"`
	LastMessageAt int64 `json:"lastMessageAt"`
	CreatedAt     int64 `json:"createdAt"`
}

// ConversationSummary is what the chat list screen renders: the conversation
// plus the other participant, the newest message and how many are unread.
type ConversationSummary struct {
	Conversation
	OtherUser   *User    `json:"otherUser"`
	LastMessage *Message `json:"lastMessage,omitempty"`
	UnreadCount int      `json:"unreadCount"`
}
