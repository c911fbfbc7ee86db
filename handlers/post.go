package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"spot/database"
	"spot/geo"
	"spot/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultNearbyRadius = 1000.0 // meters
	defaultPostLimit    = 20
)

type CreatePostRequest struct {
	Title            string   `json:"title" binding:"required,max=50"`
	Content          string   `json:"content" binding:"required,max=500"`
	Tags             []string `json:"tags"`
	Latitude         float64  `json:"latitude" binding:"required"`
	Longitude        float64  `json:"longitude" binding:"required"`
	Address          string   `json:"address"`
	ParticipantCount string   `json:"participantCount"`
	MeetingTime      int64    `json:"meetingTime"`
}

func CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var author models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&author); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch author profile"})
		return
	}

	now := time.Now()
	post := models.Post{
		ID:                 primitive.NewObjectID(),
		AuthorID:           userID,
		AuthorNickname:     author.Nickname,
		AuthorProfileImage: author.ProfileImage,
		Title:              req.Title,
		Content:            req.Content,
		Tags:               req.Tags,
		Location: models.Location{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Address:   req.Address,
			Geohash:   geo.Encode(req.Latitude, req.Longitude, geo.DefaultPrecision),
		},
		ParticipantCount:  req.ParticipantCount,
		InterestedCount:   0,
		InterestedUserIDs: []primitive.ObjectID{},
		MeetingTime:       req.MeetingTime,
		Status:            models.PostStatusOpen,
		ExpiresAt:         now.Add(models.PostTTL).Unix(),
		IsActive:          true,
		CreatedAt:         now.Unix(),
		UpdatedAt:         now.Unix(),
	}

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		log.Printf("CreatePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"postId":  post.ID.Hex(),
	})
}

// loadPostWithExpiryCheck fetches a post and lazily persists the expired
// status when its lifetime has passed. The returned post carries the status
// the caller should see.
func loadPostWithExpiryCheck(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		return nil, err
	}

	now := time.Now()
	if post.Expired(now) && post.Status != models.PostStatusExpired {
		update := bson.M{"$set": bson.M{
			"status":    models.PostStatusExpired,
			"updatedAt": now.Unix(),
		}}
		if _, err := database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, update); err != nil {
			// Reads still see the computed status even when the write fails.
			log.Printf("Failed to persist expiry for post %s: %v", postID.Hex(), err)
		}
		post.Status = models.PostStatusExpired
		post.UpdatedAt = now.Unix()
	}

	return &post, nil
}

func GetPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	post, err := loadPostWithExpiryCheck(ctx, postID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

type UpdatePostRequest struct {
	Title            *string  `json:"title" binding:"omitempty,max=50"`
	Content          *string  `json:"content" binding:"omitempty,max=500"`
	Tags             []string `json:"tags"`
	ParticipantCount *string  `json:"participantCount"`
	MeetingTime      *int64   `json:"meetingTime"`
}

func UpdatePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set := bson.M{"updatedAt": time.Now().Unix()}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Content != nil {
		set["content"] = *req.Content
	}
	if req.Tags != nil {
		set["tags"] = req.Tags
	}
	if req.ParticipantCount != nil {
		set["participantCount"] = *req.ParticipantCount
	}
	if req.MeetingTime != nil {
		set["meetingTime"] = *req.MeetingTime
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Posts.UpdateOne(
		ctx,
		bson.M{"_id": postID, "authorId": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "Post not found or not the author"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated successfully"})
}

func DeletePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Posts.DeleteOne(ctx, bson.M{"_id": postID, "authorId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "Post not found or not the author"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

type ToggleInterestRequest struct {
	Interested *bool `json:"interested" binding:"required"`
}

// ToggleInterest adds or removes the caller from a post's interested set.
// The $addToSet keeps set membership idempotent; the paired counter is a
// plain increment, so it can drift from the set size under concurrent
// toggles. That mirrors the denormalized counter design and is asserted as
// such in the tests rather than papered over.
func ToggleInterest(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ToggleInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	if err := database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	now := time.Now().Unix()

	if *req.Interested {
		if post.Interested(userID) {
			c.JSON(http.StatusOK, gin.H{"message": "Already interested"})
			return
		}

		update := bson.M{
			"$addToSet": bson.M{"interestedUserIds": userID},
			"$inc":      bson.M{"interestedCount": 1},
			"$set":      bson.M{"updatedAt": now},
		}
		if _, err := database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, update); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add interest"})
			return
		}

		var user models.User
		if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err == nil {
			// Notification failure never rolls the toggle back.
			if err := notifyInterest(ctx, post.AuthorID, postID, post.Title, userID, user.Nickname); err != nil {
				log.Printf("Failed to create interest notification: %v", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Interest added"})
		return
	}

	if !post.Interested(userID) {
		c.JSON(http.StatusOK, gin.H{"message": "Not interested"})
		return
	}

	update := bson.M{
		"$pull": bson.M{"interestedUserIds": userID},
		"$inc":  bson.M{"interestedCount": -1},
		"$set":  bson.M{"updatedAt": now},
	}
	if _, err := database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove interest"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Interest removed"})
}

// filterNearby applies the exact-distance filter to the merged range-scan
// results, removes duplicates (a post can match several geohash ranges),
// sorts newest first and truncates to the cap.
func filterNearby(posts []models.Post, lat, lng, radiusMeters float64, limit int) []models.Post {
	seen := make(map[primitive.ObjectID]struct{}, len(posts))
	out := make([]models.Post, 0, len(posts))

	for _, post := range posts {
		if _, ok := seen[post.ID]; ok {
			continue
		}
		if !geo.WithinRadius(lat, lng, post.Location.Latitude, post.Location.Longitude, radiusMeters) {
			continue
		}
		seen[post.ID] = struct{}{}
		out = append(out, post)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// GetNearbyPosts returns active posts within a radius of the given center,
// newest first. One range query per geohash bound; the over-approximation
// of the cells is corrected by the exact haversine filter.
func GetNearbyPosts(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing lat"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing lng"})
		return
	}

	radius := defaultNearbyRadius
	if v, err := strconv.ParseFloat(c.Query("radius"), 64); err == nil && v > 0 {
		radius = v
	}
	limit := defaultPostLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var merged []models.Post
	for _, bound := range geo.QueryBounds(lat, lng, radius) {
		filter := bson.M{
			"isActive": true,
			"location.geohash": bson.M{
				"$gte": bound.Start,
				"$lte": bound.End,
			},
		}
		opts := options.Find().SetSort(bson.D{
			{Key: "location.geohash", Value: 1},
			{Key: "createdAt", Value: -1},
		})

		cursor, err := database.Posts.Find(ctx, filter, opts)
		if err != nil {
			log.Printf("GetNearbyPosts range query error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query nearby posts"})
			return
		}

		var batch []models.Post
		if err := cursor.All(ctx, &batch); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode nearby posts"})
			return
		}
		merged = append(merged, batch...)
	}

	c.JSON(http.StatusOK, filterNearby(merged, lat, lng, radius, limit))
}

func GetActivePosts(c *gin.Context) {
	limit := defaultPostLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := database.Posts.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

func GetMyPosts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listPostsByAuthor(c, userID)
}

func GetUserPosts(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	listPostsByAuthor(c, userID)
}

func listPostsByAuthor(c *gin.Context, authorID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Posts.Find(ctx, bson.M{"authorId": authorID}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetMyInterestedPosts lists the active posts the caller has expressed
// interest in.
func GetMyInterestedPosts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"interestedUserIds": userID,
		"isActive":          true,
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := database.Posts.Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetInterestedUsers resolves the profiles of everyone interested in a post
// so the author can pick chat members. Only the author may ask. A failed
// profile lookup degrades to placeholder data for that user instead of
// failing the list.
func GetInterestedUsers(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	if err := database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if post.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can view interested users"})
		return
	}

	users := make([]models.InterestedUser, 0, len(post.InterestedUserIDs))
	for _, uid := range post.InterestedUserIDs {
		var u models.User
		if err := database.Users.FindOne(ctx, bson.M{"_id": uid}).Decode(&u); err != nil {
			log.Printf("Failed to resolve interested user %s: %v", uid.Hex(), err)
			users = append(users, models.InterestedUser{
				UserID:       uid,
				Nickname:     "사용자",
				ProfileImage: fallbackAvatar,
				Interests:    []string{},
			})
			continue
		}
		profileImage := u.ProfileImage
		if profileImage == "" {
			profileImage = fallbackAvatar
		}
		users = append(users, models.InterestedUser{
			UserID:       uid,
			Nickname:     u.Nickname,
			ProfileImage: profileImage,
			Age:          u.Age,
			Gender:       u.Gender,
			Interests:    u.Interests,
		})
	}

	c.JSON(http.StatusOK, users)
}

// SweepExpiredPosts flips every overdue active post to expired in one batch.
// Runs alongside the lazy check-on-read; either one may win the race, both
// converge on the same terminal status.
func SweepExpiredPosts(ctx context.Context) (int64, error) {
	now := time.Now().Unix()

	filter := bson.M{
		"expiresAt": bson.M{"$lte": now},
		"status":    bson.M{"$ne": models.PostStatusExpired},
		"isActive":  true,
	}
	update := bson.M{"$set": bson.M{
		"status":    models.PostStatusExpired,
		"updatedAt": now,
	}}

	result, err := database.Posts.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// StartExpirySweeper runs SweepExpiredPosts on an interval until the context
// is canceled.
func StartExpirySweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
				n, err := SweepExpiredPosts(sweepCtx)
				cancel()
				if err != nil {
					log.Printf("Expiry sweep failed: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("Expiry sweep marked %d posts expired", n)
				}
			}
		}
	}()
}
