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
	defaultMessageLimit = 50
	maxMessageLimit     = 100
)

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// SendMessage appends a message to a room the caller belongs to. The room's
// lastMessage fields are denormalized for the room list; failure to update
// them does not fail the send. Fan-out (notifications, push, websocket) is
// likewise best-effort.
func SendMessage(c *gin.Context) {
	roomID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat room ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var room models.ChatRoom
	if err := database.ChatRooms.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat room not found"})
		return
	}
	if !room.HasMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this chat room"})
		return
	}

	var sender models.User
	senderName := "사용자"
	senderImage := fallbackAvatar
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&sender); err == nil {
		senderName = sender.Nickname
		if sender.ProfileImage != "" {
			senderImage = sender.ProfileImage
		}
	}

	now := time.Now().Unix()
	msg := models.Message{
		ID:                 primitive.NewObjectID(),
		ChatRoomID:         roomID,
		SenderID:           userID,
		SenderNickname:     senderName,
		SenderProfileImage: senderImage,
		Content:            req.Content,
		Type:               models.MessageTypeText,
		CreatedAt:          now,
	}

	if _, err := database.Messages.InsertOne(ctx, msg); err != nil {
		log.Printf("SendMessage insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	roomUpdate := bson.M{"$set": bson.M{
		"lastMessage":   messagePreview(req.Content),
		"lastMessageAt": now,
		"updatedAt":     now,
	}}
	if _, err := database.ChatRooms.UpdateOne(ctx, bson.M{"_id": roomID}, roomUpdate); err != nil {
		log.Printf("Failed to update room preview for %s: %v", roomID.Hex(), err)
	}

	notifyChatMessage(ctx, room.MemberIDs, roomID, room.Name, userID, senderName, req.Content)

	recipients := recipientsExcluding(room.MemberIDs, userID)
	go sendPushToUsers(recipients, room.Name, senderName+": "+messagePreview(req.Content))

	if wsManager != nil {
		hexes := make([]string, 0, len(recipients))
		for _, id := range recipients {
			hexes = append(hexes, id.Hex())
		}
		wsManager.SendToUsers(hexes, "new_message", msg)
	}

	c.JSON(http.StatusCreated, msg)
}

// GetMessages returns a room's messages in ascending order. The query runs
// newest-first with a limit and the page is reversed, so the cap keeps the
// most recent messages rather than the oldest.
func GetMessages(c *gin.Context) {
	roomID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat room ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := defaultMessageLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var room models.ChatRoom
	if err := database.ChatRooms.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat room not found"})
		return
	}
	if !room.HasMember(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this chat room"})
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := database.Messages.Find(ctx, bson.M{"chatRoomId": roomID}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode messages"})
		return
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	c.JSON(http.StatusOK, messages)
}
