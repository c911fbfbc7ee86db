package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"spot/database"
	"spot/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"
)

var kakaoOAuthConfig *oauth2.Config

var kakaoEndpoint = oauth2.Endpoint{
	AuthURL:  "https://kauth.kakao.com/oauth/authorize",
	TokenURL: "https://kauth.kakao.com/oauth/token",
}

// SetKakaoOAuth wires the Kakao OAuth client from loaded configuration.
// Called from main after config.Load; the Kakao endpoints answer 503 until
// configured.
func SetKakaoOAuth(restAPIKey, clientSecret, redirectURL string) {
	if restAPIKey == "" {
		log.Println("Kakao OAuth not configured - set KAKAO_REST_API_KEY")
		return
	}

	if redirectURL == "" {
		redirectURL = "http://localhost:8080/api/kakao/callback"
	}

	kakaoOAuthConfig = &oauth2.Config{
		ClientID:     restAPIKey,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     kakaoEndpoint,
	}
}

// KakaoUserInfo mirrors the fields we read from /v2/user/me.
type KakaoUserInfo struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

func GetKakaoAuthURL(c *gin.Context) {
	if kakaoOAuthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Kakao OAuth not configured"})
		return
	}

	state := primitive.NewObjectID().Hex()
	url := kakaoOAuthConfig.AuthCodeURL(state)
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func KakaoOAuthCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code missing"})
		return
	}

	if kakaoOAuthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Kakao OAuth not configured"})
		return
	}

	ctx := context.Background()
	token, err := kakaoOAuthConfig.Exchange(ctx, code)
	if err != nil {
		log.Printf("Kakao OAuth token exchange failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exchange authorization code"})
		return
	}

	client := kakaoOAuthConfig.Client(ctx, token)
	resp, err := client.Get("https://kapi.kakao.com/v2/user/me")
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

	var kakaoUser KakaoUserInfo
	if err := json.Unmarshal(data, &kakaoUser); err != nil || kakaoUser.ID == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse user information"})
		return
	}

	handleKakaoUser(c, kakaoUser)
}

// handleKakaoUser finds or creates the account for a Kakao identity. Kakao
// accounts may not expose an email, so lookup keys on the Kakao id.
func handleKakaoUser(c *gin.Context, kakaoUser KakaoUserInfo) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kakaoID := strconv.FormatInt(kakaoUser.ID, 10)

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"kakaoId": kakaoID}).Decode(&user)
	isNewUser := err == mongo.ErrNoDocuments

	switch {
	case isNewUser:
		nickname := kakaoUser.KakaoAccount.Profile.Nickname
		if nickname == "" {
			nickname = "user_" + primitive.NewObjectID().Hex()[:8]
		}
		profileImage := kakaoUser.KakaoAccount.Profile.ProfileImageURL
		if profileImage == "" {
			profileImage = fallbackAvatar
		}

		now := time.Now().Unix()
		user = models.User{
			ID:           primitive.NewObjectID(),
			Email:        kakaoUser.KakaoAccount.Email,
			AuthProvider: "kakao",
			KakaoID:      &kakaoID,
			Nickname:     nickname,
			ProfileImage: profileImage,
			Interests:    []string{},
			CreatedAt:    now,
			UpdatedAt:    now,
			LastLoginAt:  now,
		}
		if _, err := database.Users.InsertOne(ctx, user); err != nil {
			log.Printf("Failed to insert Kakao user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user account"})
			return
		}

	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return

	default:
		set := bson.M{"lastLoginAt": time.Now().Unix()}
		if (user.ProfileImage == "" || user.ProfileImage == fallbackAvatar) && kakaoUser.KakaoAccount.Profile.ProfileImageURL != "" {
			set["profileImage"] = kakaoUser.KakaoAccount.Profile.ProfileImageURL
			user.ProfileImage = kakaoUser.KakaoAccount.Profile.ProfileImageURL
		}
		if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": set}); err != nil {
			log.Printf("Failed to update Kakao user on login: %v", err)
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
