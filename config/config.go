package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server settings
	Port    string
	GinMode string

	// Database
	MongoURI string

	// JWT
	JWTSecret string

	// OAuth providers
	GoogleClientID     string
	GoogleClientSecret string
	KakaoRESTAPIKey    string
	KakaoClientSecret  string
	KakaoRedirectURL   string

	// Web push
	VAPIDPublicKey  string
	VAPIDPrivateKey string

	// Image storage
	CloudinaryURL string
}

// Load reads configuration from a .env file (if present) and the process
// environment. JWT_SECRET and MONGODB_URI are mandatory; everything else
// degrades to a disabled feature.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		MongoURI:           os.Getenv("MONGODB_URI"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		KakaoRESTAPIKey:    os.Getenv("KAKAO_REST_API_KEY"),
		KakaoClientSecret:  os.Getenv("KAKAO_CLIENT_SECRET"),
		KakaoRedirectURL:   getEnv("KAKAO_REDIRECT_URL", "http://localhost:8080/api/auth/kakao/callback"),
		VAPIDPublicKey:     os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey:    os.Getenv("VAPID_PRIVATE_KEY"),
		CloudinaryURL:      os.Getenv("CLOUDINARY_URL"),
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
