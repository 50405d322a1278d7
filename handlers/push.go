package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
)

func init() {
	// Initialize VAPID keys if not set in environment
	if os.Getenv("VAPID_PUBLIC_KEY") == "" || os.Getenv("VAPID_PRIVATE_KEY") == "" {
		publicKey, privateKey, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			log.Printf("Failed to generate VAPID keys: %v", err)
			return
		}

		// In-memory only; production should set these as env variables.
		os.Setenv("VAPID_PUBLIC_KEY", publicKey)
		os.Setenv("VAPID_PRIVATE_KEY", privateKey)

		log.Println("⚠️  Generated new VAPID keys - for production, set these as environment variables:")
		log.Printf("   VAPID_PUBLIC_KEY: %s", publicKey)
		log.Printf("   VAPID_PRIVATE_KEY: %s", privateKey)
	}

	vapidPrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
}

func GetVapidPublicKey(c *gin.Context) {
	publicKey := os.Getenv("VAPID_PUBLIC_KEY")
	if publicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "VAPID public key not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"publicKey": publicKey})
}

// SubscribePush saves (or replaces) the caller's browser push subscription.
func SubscribePush(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := resolveCurrentUser(c)
	if !ok {
		return
	}

	store.UpsertPushSubscription(user.ID, webpush.Subscription{
		Endpoint: req.Endpoint,
		Keys: webpush.Keys{
			P256dh: req.Keys.P256dh,
			Auth:   req.Keys.Auth,
		},
	})

	log.Printf("Push subscription saved for user: %d", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Push subscription saved successfully",
		"userId":  user.ID,
	})
}

// SendPushNotification delivers a web push to one user, asynchronously.
func SendPushNotification(userID int, title, body, icon string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic in push notification: %v", r)
			}
		}()

		sub, ok := store.GetPushSubscription(userID)
		if !ok {
			return // No subscription
		}

		payload := map[string]interface{}{
			"title": title,
			"body":  body,
			"icon":  icon,
			"data": map[string]interface{}{
				"timestamp": time.Now().Unix(),
			},
		}

		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			log.Printf("Failed to marshal push payload: %v", err)
			return
		}

		resp, err := webpush.SendNotification(payloadBytes, &sub.Sub, &webpush.Options{
			Subscriber:      "mailto:admin@sparkmatch.app",
			VAPIDPrivateKey: vapidPrivateKey,
			TTL:             30,
		})
		if err != nil {
			log.Printf("Failed to send push notification to user %d: %v", userID, err)

			// Expired subscriptions are purged.
			if resp != nil && resp.StatusCode == http.StatusGone {
				store.DeletePushSubscription(userID)
			}
			return
		}

		resp.Body.Close()
	}()
}

// SendMessagePush notifies a user about a new chat message.
func SendMessagePush(receiverID int, messageContent, senderName string) {
	if senderName == "" {
		senderName = "Someone"
	}

	body := messageContent
	if len(body) > 100 {
		body = body[:100] + "..."
	}

	SendPushNotification(receiverID, senderName+" sent a message", body, "")
}

// SendMatchPush notifies a user about a new match.
func SendMatchPush(userID int, matchedUserName string) {
	if matchedUserName == "" {
		matchedUserName = "Someone"
	}
	SendPushNotification(userID, "New match! 🎉", "You matched with "+matchedUserName, "")
}
