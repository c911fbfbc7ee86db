package handlers

import (
	"net/http"
	"time"

	"spot/geocode"
	"spot/middleware"
	"spot/websocket"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shared state wired up in main at startup.
var (
	wsManager       *websocket.Manager
	geocoder        *geocode.Client
	vapidPrivateKey string
)

const fallbackAvatar = "https://upload.wikimedia.org/wikipedia/commons/8/89/Portrait_Placeholder.png"

// PushSubscription stores a browser push endpoint for one user.
type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty"`
	UserID primitive.ObjectID   `bson:"userId"`
	Sub    webpush.Subscription `bson:"sub"`
}

func SetWebSocketManager(manager *websocket.Manager) {
	wsManager = manager
}

func SetGeocoder(client *geocode.Client) {
	geocoder = client
}

func SetVAPIDPrivateKey(key string) {
	vapidPrivateKey = key
}

// currentUserID reads the authenticated user id the JWT middleware stored in
// the context. Writes the error response itself when the id is unusable.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return userID, true
}

// issueToken creates a 24h session token for the user.
func issueToken(userID primitive.ObjectID) (string, int64, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &middleware.Claims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(middleware.JWTSecret())
	if err != nil {
		return "", 0, err
	}
	return signed, expirationTime.Unix(), nil
}
