package models

type Message struct {
	ID             int    `json:"id"`
	ConversationID int    `json:"conversationId"`
	SenderID       int    `json:"senderId"`
	Content        string `json:"content"`
	Type           string `json:"type"` // text, image, emoji
	IsRead         bool   `json:"isRead"`
	CreatedAt      int64  `json:"createdAt"`
}
