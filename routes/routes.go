package routes

import (
	"time"

	"spot/handlers"
	"spot/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:8080", "http://127.0.0.1:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Auth endpoints are rate limited per IP; credential stuffing is the
	// concern, not throughput.
	authLimit := middleware.RateLimit(10, time.Minute)

	router.POST("/api/signup", authLimit, handlers.Signup)
	router.POST("/api/login", authLimit, handlers.Login)
	router.GET("/api/vapid-public-key", handlers.GetVapidPublicKey)

	router.GET("/api/google/auth-url", handlers.GetGoogleAuthURL)
	router.GET("/api/google/callback", handlers.GoogleOAuthCallback)
	router.POST("/api/google-auth", authLimit, handlers.GoogleAuthWithCredential)

	router.GET("/api/kakao/auth-url", handlers.GetKakaoAuthURL)
	router.GET("/api/kakao/callback", handlers.KakaoOAuthCallback)

	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	// Profile
	protected.GET("/me", handlers.GetMyProfile)
	protected.PUT("/me", handlers.UpdateMyProfile)
	protected.GET("/users/:id", handlers.GetUser)
	protected.POST("/me/profile-image", handlers.UploadProfileImage)

	// Each location update may call the external geocoder
	protected.PUT("/me/location", middleware.RateLimit(30, time.Minute), handlers.UpdateMyLocation)

	// Posts
	protected.POST("/posts", handlers.CreatePost)
	protected.GET("/posts", handlers.GetActivePosts)
	protected.GET("/posts/nearby", handlers.GetNearbyPosts)
	protected.GET("/posts/:id", handlers.GetPost)
	protected.PUT("/posts/:id", handlers.UpdatePost)
	protected.DELETE("/posts/:id", handlers.DeletePost)
	protected.POST("/posts/:id/interest", handlers.ToggleInterest)
	protected.GET("/posts/:id/interested-users", handlers.GetInterestedUsers)
	protected.GET("/my/posts", handlers.GetMyPosts)
	protected.GET("/my/interested-posts", handlers.GetMyInterestedPosts)
	protected.GET("/users/:id/posts", handlers.GetUserPosts)

	// Chat rooms
	protected.POST("/chat-rooms", handlers.CreateChatRoom)
	protected.GET("/chat-rooms", handlers.GetMyChatRooms)
	protected.GET("/chat-rooms/:id", handlers.GetChatRoom)
	protected.POST("/chat-rooms/:id/leave", handlers.LeaveChatRoom)
	protected.POST("/chat-rooms/:id/messages", handlers.SendMessage)
	protected.GET("/chat-rooms/:id/messages", handlers.GetMessages)

	// Notifications
	protected.GET("/notifications", handlers.GetMyNotifications)
	protected.GET("/notifications/stats", handlers.GetNotificationStats)
	protected.POST("/notifications/read-all", handlers.MarkAllNotificationsRead)
	protected.POST("/notifications/:id/read", handlers.MarkNotificationRead)
	protected.DELETE("/notifications/:id", handlers.DeleteNotification)

	// Push subscriptions
	protected.POST("/subscribe", handlers.SubscribePush)
	protected.DELETE("/subscribe", handlers.UnsubscribePush)

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
