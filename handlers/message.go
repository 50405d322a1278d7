package handlers

import (
	"net/http"
	"strings"

	"sparkmatch/models"

	"github.com/gin-gonic/gin"
)

type SendMessageRequest struct {
	ConversationID int    `json:"conversationId" binding:"required"`
	Content        string `json:"content" binding:"required"`
	Type           string `json:"type,omitempty"`
}

// SendMessage stores a chat message and notifies the other participant.
func SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content cannot be empty"})
		return
	}

	sender, ok := resolveCurrentUser(c)
	if !ok {
		return
	}

	message := store.CreateMessage(models.Message{
		ConversationID: req.ConversationID,
		SenderID:       sender.ID,
		Content:        req.Content,
		Type:           req.Type,
	})

	// Push to the other participant, resolved through the conversation's match.
	if conversation, ok := store.GetConversation(req.ConversationID); ok {
		for _, match := range store.GetUserMatches(sender.ID) {
			if match.ID != conversation.MatchID {
				continue
			}
			otherUserID := match.UserID1
			if match.UserID1 == sender.ID {
				otherUserID = match.UserID2
			}
			SendMessagePush(otherUserID, req.Content, sender.DisplayName)
			break
		}
	}

	c.JSON(http.StatusCreated, message)
}
