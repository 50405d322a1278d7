package handlers

import (
	"net/http"

	"sparkmatch/models"
	"sparkmatch/storage"

	"github.com/gin-gonic/gin"
)

// Shared state for all handler files. main wires these up at boot; tests
// swap in a fresh MemStorage per test.
var store storage.Storage

var vapidPrivateKey string

// SetStorage sets the storage backend used by every handler.
func SetStorage(s storage.Storage) {
	store = s
}

// SetVAPIDPrivateKey sets the VAPID private key for web push.
func SetVAPIDPrivateKey(key string) {
	vapidPrivateKey = key
}

// resolveCurrentUser looks up the caller's profile from the auth UID the
// middleware put into the context. Writes the error response itself and
// returns ok=false when the caller cannot be resolved.
func resolveCurrentUser(c *gin.Context) (models.User, bool) {
	authUID := c.GetString("authUid")
	if authUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return models.User{}, false
	}

	user, ok := store.GetUserByAuthUID(authUID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return models.User{}, false
	}

	return user, true
}
