package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"spot/database"
	"spot/geocode"
	"spot/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxProfileImageBytes = 5 << 20

func GetMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUser returns the public slice of another user's profile.
func GetUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	profileImage := user.ProfileImage
	if profileImage == "" {
		profileImage = fallbackAvatar
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":       user.ID.Hex(),
		"nickname":     user.Nickname,
		"profileImage": profileImage,
		"interests":    user.Interests,
		"age":          user.Age,
		"gender":       user.Gender,
	})
}

type UpdateProfileRequest struct {
	Nickname  *string  `json:"nickname" binding:"omitempty,min=2,max=20"`
	Interests []string `json:"interests"`
	Age       *int     `json:"age" binding:"omitempty,gte=14,lte=120"`
	Gender    *string  `json:"gender"`
}

func UpdateMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set := bson.M{"updatedAt": time.Now().Unix()}
	if req.Nickname != nil {
		set["nickname"] = *req.Nickname
	}
	if req.Interests != nil {
		set["interests"] = req.Interests
	}
	if req.Age != nil {
		set["age"] = *req.Age
	}
	if req.Gender != nil {
		set["gender"] = *req.Gender
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

// UpdateMyLocation stores the client-reported coordinates on the user and
// resolves a human-readable address. The cached address is reused when it is
// fresh and the user has not moved far; a geocoder failure degrades to an
// empty address instead of failing the update.
func UpdateMyLocation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coordinates out of range"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	address := ""
	if geocode.ShouldReuse(user.Location, req.Latitude, req.Longitude, now) {
		address = user.Location.Address
	} else if geocoder != nil {
		resolved, err := geocoder.ReverseGeocode(ctx, req.Latitude, req.Longitude)
		if err != nil {
			log.Printf("Reverse geocoding failed for user %s: %v", userID.Hex(), err)
		} else {
			address = resolved
		}
	}

	location := models.UserLocation{
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Address:    address,
		GeocodedAt: now.Unix(),
	}

	update := bson.M{"$set": bson.M{
		"location":  location,
		"updatedAt": now.Unix(),
	}}
	if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Location updated",
		"location": location,
	})
}

// UploadProfileImage stores the uploaded image on Cloudinary and points the
// profile at the hosted, downsized rendition.
func UploadProfileImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Request.ParseMultipartForm(maxProfileImageBytes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form data"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	defer file.Close()

	if header.Size > maxProfileImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds the 5MB limit"})
		return
	}
	if ct := header.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed"})
		return
	}

	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image storage configuration error"})
		return
	}

	uploadParams := uploader.UploadParams{
		Folder:         "spot/profiles",
		PublicID:       fmt.Sprintf("%s-%d", userID.Hex(), time.Now().Unix()),
		Transformation: "c_limit,w_400,q_80",
	}

	uploadResult, err := cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		log.Printf("Profile image upload failed for %s: %v", userID.Hex(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	update := bson.M{"$set": bson.M{
		"profileImage": uploadResult.SecureURL,
		"updatedAt":    time.Now().Unix(),
	}}
	if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Profile image updated",
		"profileImage": uploadResult.SecureURL,
	})
}
