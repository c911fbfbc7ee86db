package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"spot/database"
	"spot/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 50
)

// createNotification persists one notification document and pushes it to
// the recipient's live websocket connections.
func createNotification(ctx context.Context, n models.Notification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now().Unix()

	if _, err := database.Notifications.InsertOne(ctx, n); err != nil {
		return err
	}

	if wsManager != nil {
		wsManager.SendToUser(n.UserID.Hex(), "notification", n)
	}
	return nil
}

// recipientsExcluding returns the member ids minus the excluded user,
// preserving order. Used to pick fan-out targets for chat and room events.
func recipientsExcluding(memberIDs []primitive.ObjectID, exclude primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}

// messagePreview shortens message content for notification bodies.
func messagePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= 30 {
		return content
	}
	return string(runes[:30]) + "..."
}

// notifyInterest tells a post author that someone is interested. Self-
// interest never notifies.
func notifyInterest(ctx context.Context, authorID primitive.ObjectID, postID primitive.ObjectID, postTitle string, fromID primitive.ObjectID, fromName string) error {
	if authorID == fromID {
		return nil
	}
	return createNotification(ctx, models.Notification{
		UserID:     authorID,
		Type:       models.NotificationTypeInterest,
		Title:      "새로운 관심 표시",
		Message:    fromName + "님이 회원님의 포스트에 관심을 표시했습니다.",
		PostID:     &postID,
		SenderID:   &fromID,
		SenderName: fromName,
		Metadata: map[string]interface{}{
			"postTitle": postTitle,
		},
	})
}

// notifyChatMessage fans a message notification out to every room member
// except the sender. Writes are independent: one failed recipient does not
// stop the rest, and nothing is rolled back.
func notifyChatMessage(ctx context.Context, memberIDs []primitive.ObjectID, roomID primitive.ObjectID, roomName string, senderID primitive.ObjectID, senderName, content string) {
	for _, userID := range recipientsExcluding(memberIDs, senderID) {
		err := createNotification(ctx, models.Notification{
			UserID:     userID,
			Type:       models.NotificationTypeChatMessage,
			Title:      roomName,
			Message:    senderName + ": " + messagePreview(content),
			ChatRoomID: &roomID,
			SenderID:   &senderID,
			SenderName: senderName,
			Metadata: map[string]interface{}{
				"chatRoomName": roomName,
			},
		})
		if err != nil {
			log.Printf("Failed to create chat message notification for %s: %v", userID.Hex(), err)
		}
	}
}

// notifyRoomCreated tells every invited member (except the creator) that a
// chat room now exists for the post they were interested in.
func notifyRoomCreated(ctx context.Context, memberIDs []primitive.ObjectID, roomID primitive.ObjectID, roomName string, creatorID primitive.ObjectID, creatorName string) {
	for _, userID := range recipientsExcluding(memberIDs, creatorID) {
		err := createNotification(ctx, models.Notification{
			UserID:     userID,
			Type:       models.NotificationTypeChatRoomCreated,
			Title:      "새로운 채팅방",
			Message:    creatorName + "님이 회원님을 채팅방에 초대했습니다.",
			ChatRoomID: &roomID,
			SenderID:   &creatorID,
			SenderName: creatorName,
			Metadata: map[string]interface{}{
				"chatRoomName": roomName,
			},
		})
		if err != nil {
			log.Printf("Failed to create room created notification for %s: %v", userID.Hex(), err)
		}
	}
}

// notifyPostClosed tells interested users who were not invited that the
// post has been closed.
func notifyPostClosed(ctx context.Context, userIDs []primitive.ObjectID, postID primitive.ObjectID, postTitle string) {
	for _, userID := range userIDs {
		err := createNotification(ctx, models.Notification{
			UserID:  userID,
			Type:    models.NotificationTypePostStatusChanged,
			Title:   "포스트 마감",
			Message: "'" + postTitle + "' 포스트가 마감되었습니다.",
			PostID:  &postID,
			Metadata: map[string]interface{}{
				"postTitle": postTitle,
				"status":    models.PostStatusClosed,
			},
		})
		if err != nil {
			log.Printf("Failed to create post closed notification for %s: %v", userID.Hex(), err)
		}
	}
}

func GetMyNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := defaultNotificationLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := database.Notifications.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		log.Printf("GetMyNotifications error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func MarkNotificationRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notifID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Notifications.UpdateOne(
		ctx,
		bson.M{"_id": notifID, "userId": userID},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification as read"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Notifications.UpdateMany(
		ctx,
		bson.M{"userId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "All notifications marked as read",
		"updatedCount": result.ModifiedCount,
	})
}

func DeleteNotification(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notifID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Notifications.DeleteOne(ctx, bson.M{"_id": notifID, "userId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

func GetNotificationStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := database.Notifications.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	unread, err := database.Notifications.CountDocuments(ctx, bson.M{"userId": userID, "isRead": false})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count unread notifications"})
		return
	}

	c.JSON(http.StatusOK, models.NotificationStats{Total: total, Unread: unread})
}
