package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetConversations returns the caller's chat list with the other participant,
// last message and unread count resolved.
func GetConversations(c *gin.Context) {
	user, ok := resolveCurrentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.GetUserConversations(user.ID))
}

// GetConversationMessages returns the full message history, oldest first.
func GetConversationMessages(c *gin.Context) {
	conversationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}

	c.JSON(http.StatusOK, store.GetConversationMessages(conversationID))
}

// MarkConversationRead flips the read flag on every message in the
// conversation the caller did not send.
func MarkConversationRead(c *gin.Context) {
	conversationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}

	user, ok := resolveCurrentUser(c)
	if !ok {
		return
	}

	updated := store.MarkMessagesRead(conversationID, user.ID)
	c.JSON(http.StatusOK, gin.H{
		"message":      "Marked as read",
		"updatedCount": updated,
	})
}
