package routes

import (
	"time"

	"sparkmatch/handlers"
	"sparkmatch/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Sparkmatch API is running",
			"time":    time.Now().Unix(),
		})
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080", "http://127.0.0.1:8080", "http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.RateLimitMiddleware())

	// Public routes (no auth required)
	router.POST("/api/signup", handlers.Signup)
	router.POST("/api/login", handlers.Login)
	router.GET("/api/vapid-public-key", handlers.GetVapidPublicKey)

	// Stripe calls this, not the client
	router.POST("/api/webhooks/stripe", handlers.StripeWebhook)

	// Protected routes group
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	// Profile
	protected.GET("/user/profile", handlers.GetMyProfile)
	protected.PUT("/user/profile", handlers.UpdateMyProfile)
	protected.GET("/user/stats", handlers.GetMyStats)
	protected.POST("/upload-photo", handlers.UploadPhoto)

	// Discovery + swipes
	protected.GET("/discover", handlers.Discover)
	protected.POST("/like", handlers.LikeUser)
	protected.GET("/matches", handlers.GetMatches)

	// Conversations + messages
	protected.GET("/conversations", handlers.GetConversations)
	protected.GET("/conversations/:id/messages", handlers.GetConversationMessages)
	protected.POST("/conversations/:id/read", handlers.MarkConversationRead)
	protected.POST("/messages", handlers.SendMessage)

	// Premium subscription
	protected.POST("/get-or-create-subscription", handlers.GetOrCreateSubscription)

	// Push subscriptions
	protected.POST("/subscribe", handlers.SubscribePush)

	// Add a catch-all for undefined API routes
	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
