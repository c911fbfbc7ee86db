package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"spot/database"
	"spot/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var googleOAuthConfig *oauth2.Config

// SetGoogleOAuth wires the Google OAuth client from loaded configuration.
// Called from main after config.Load so .env credentials are picked up; the
// Google endpoints answer 503 until configured.
func SetGoogleOAuth(clientID, clientSecret string) {
	if clientID == "" || clientSecret == "" {
		log.Println("Google OAuth not configured - set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")
		return
	}

	googleOAuthConfig = &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  "http://localhost:8080/api/google/callback",
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

type GoogleAuthRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// nicknameFromEmail derives a default nickname from the local part of the
// email, suffixed for uniqueness.
func nicknameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return "user_" + primitive.NewObjectID().Hex()[:8]
	}
	return strings.ReplaceAll(local, ".", "") + "_" + primitive.NewObjectID().Hex()[:4]
}

// GetGoogleAuthURL returns the consent screen URL for the redirect flow.
func GetGoogleAuthURL(c *gin.Context) {
	if googleOAuthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}

	state := primitive.NewObjectID().Hex()
	url := googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GoogleOAuthCallback exchanges the authorization code and signs the user in.
func GoogleOAuthCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code missing"})
		return
	}

	if googleOAuthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}

	ctx := context.Background()
	token, err := googleOAuthConfig.Exchange(ctx, code)
	if err != nil {
		log.Printf("Google OAuth token exchange failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exchange authorization code"})
		return
	}

	client := googleOAuthConfig.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user information"})
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read user information"})
		return
	}

	var googleUser GoogleUserInfo
	if err := json.Unmarshal(data, &googleUser); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse user information"})
		return
	}

	handleGoogleUser(c, googleUser)
}

// GoogleAuthWithCredential signs the user in from a Google Identity Services
// credential (the one-tap / button flow).
func GoogleAuthWithCredential(c *gin.Context) {
	var req GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// TODO: verify the credential signature against Google's JWKS instead of
	// trusting the parsed claims.
	token, _, err := new(jwt.Parser).ParseUnverified(req.Credential, jwt.MapClaims{})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Google credential"})
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Google credential"})
		return
	}

	googleUser := GoogleUserInfo{
		ID:      getStringClaim(claims, "sub"),
		Email:   getStringClaim(claims, "email"),
		Name:    getStringClaim(claims, "name"),
		Picture: getStringClaim(claims, "picture"),
	}
	if googleUser.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email not provided by Google"})
		return
	}

	handleGoogleUser(c, googleUser)
}

func getStringClaim(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// handleGoogleUser finds or creates the account for a verified Google
// identity and responds with a session token.
func handleGoogleUser(c *gin.Context, googleUser GoogleUserInfo) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": googleUser.Email}).Decode(&user)
	isNewUser := err == mongo.ErrNoDocuments

	switch {
	case isNewUser:
		user = createUserFromGoogle(googleUser)
		if _, err := database.Users.InsertOne(ctx, user); err != nil {
			log.Printf("Failed to insert Google user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user account"})
			return
		}

	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return

	default:
		set := bson.M{
			"lastLoginAt":  time.Now().Unix(),
			"authProvider": "google",
		}
		if user.GoogleID == nil && googleUser.ID != "" {
			set["googleId"] = googleUser.ID
		}
		// Fill in the Google picture when the profile has none
		if (user.ProfileImage == "" || user.ProfileImage == fallbackAvatar) && googleUser.Picture != "" {
			set["profileImage"] = googleUser.Picture
			user.ProfileImage = googleUser.Picture
		}
		if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": set}); err != nil {
			log.Printf("Failed to update Google user on login: %v", err)
		}
	}

	tokenString, expires, err := issueToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        tokenString,
		"userId":       user.ID.Hex(),
		"email":        user.Email,
		"nickname":     user.Nickname,
		"profileImage": user.ProfileImage,
		"isNewUser":    isNewUser,
		"expires":      expires,
	})
}

func createUserFromGoogle(googleUser GoogleUserInfo) models.User {
	nickname := googleUser.Name
	if nickname == "" {
		nickname = nicknameFromEmail(googleUser.Email)
	}

	profileImage := googleUser.Picture
	if profileImage == "" {
		profileImage = fallbackAvatar
	}

	now := time.Now().Unix()
	return models.User{
		ID:           primitive.NewObjectID(),
		Email:        googleUser.Email,
		PasswordHash: nil,
		AuthProvider: "google",
		GoogleID:     &googleUser.ID,
		Nickname:     nickname,
		ProfileImage: profileImage,
		Interests:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  now,
	}
}
