package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spot/config"
	"spot/database"
	"spot/geocode"
	"spot/handlers"
	"spot/routes"
	"spot/websocket"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Spot API server...")

	cfg := config.Load()

	if cfg.JWTSecret == "" || cfg.MongoURI == "" {
		log.Fatal("JWT_SECRET and MONGODB_URI must be set")
	}

	var dbErr error
	for i := 1; i <= 3; i++ {
		if err := database.ConnectMongo(); err != nil {
			dbErr = err
			log.Printf("MongoDB connection attempt %d failed: %v", i, err)
			time.Sleep(2 * time.Second)
			continue
		}
		dbErr = nil
		break
	}
	if dbErr != nil {
		log.Fatal("Failed to connect to MongoDB: ", dbErr)
	}
	defer database.DisconnectMongo()

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Ephemeral keys are fine for development; production sets both via env
	// so subscriptions survive restarts.
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			log.Printf("Failed to generate VAPID keys, push disabled: %v", err)
		} else {
			cfg.VAPIDPublicKey = publicKey
			cfg.VAPIDPrivateKey = privateKey
			os.Setenv("VAPID_PUBLIC_KEY", publicKey)
			os.Setenv("VAPID_PRIVATE_KEY", privateKey)
			log.Println("Generated ephemeral VAPID keys - set VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY for production")
		}
	}
	handlers.SetVAPIDPrivateKey(cfg.VAPIDPrivateKey)

	handlers.SetGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret)
	handlers.SetKakaoOAuth(cfg.KakaoRESTAPIKey, cfg.KakaoClientSecret, cfg.KakaoRedirectURL)

	if cfg.KakaoRESTAPIKey != "" {
		handlers.SetGeocoder(geocode.NewClient(cfg.KakaoRESTAPIKey))
	} else {
		log.Println("KAKAO_REST_API_KEY not set, reverse geocoding disabled")
	}

	router := routes.SetupRouter()

	wsManager := websocket.NewManager()
	go wsManager.Start()
	handlers.SetWebSocketManager(wsManager)

	router.GET("/ws", func(c *gin.Context) {
		websocket.Handler(wsManager)(c.Writer, c.Request)
	})

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	handlers.StartExpirySweeper(sweepCtx, time.Minute)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown: ", err)
	}

	log.Println("Server stopped")
}
