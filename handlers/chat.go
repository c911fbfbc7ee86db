package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"spot/database"
	"spot/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreateChatRoomRequest struct {
	PostID    string   `json:"postId" binding:"required"`
	Name      string   `json:"name" binding:"omitempty,max=50"`
	MemberIDs []string `json:"memberIds" binding:"required,min=1"`
}

// CreateChatRoom opens a room for a post's selected interested users. Only
// the post author may create one. The member set is the author plus the
// selection; an existing active room for the same post with the exact same
// member set is returned instead of creating a duplicate. A fresh room also
// closes the post and notifies both the invited members and the interested
// users who were passed over.
func CreateChatRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateChatRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	postID, err := primitive.ObjectIDFromHex(req.PostID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
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
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the post author can create a chat room"})
		return
	}

	// Host always belongs to the room, deduplicated against the selection.
	memberSet := map[primitive.ObjectID]struct{}{userID: {}}
	members := []primitive.ObjectID{userID}
	for _, raw := range req.MemberIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID: " + raw})
			return
		}
		if _, ok := memberSet[id]; ok {
			continue
		}
		memberSet[id] = struct{}{}
		members = append(members, id)
	}

	cursor, err := database.ChatRooms.Find(ctx, bson.M{"postId": postID, "isActive": true})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing chat rooms"})
		return
	}
	var existing []models.ChatRoom
	if err := cursor.All(ctx, &existing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode chat rooms"})
		return
	}
	for _, room := range existing {
		if models.SameMemberSet(room.MemberIDs, members) {
			c.JSON(http.StatusOK, gin.H{
				"message":    "Chat room already exists",
				"chatRoomId": room.ID.Hex(),
				"existing":   true,
			})
			return
		}
	}

	name := req.Name
	if name == "" {
		name = post.Title
	}

	now := time.Now().Unix()
	room := models.ChatRoom{
		ID:          primitive.NewObjectID(),
		Name:        name,
		PostID:      postID,
		PostTitle:   post.Title,
		HostID:      userID,
		MemberIDs:   members,
		MemberCount: len(members),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := database.ChatRooms.InsertOne(ctx, room); err != nil {
		log.Printf("CreateChatRoom insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat room"})
		return
	}

	// Room creation closes the post. No lock between the status read above
	// and this write; concurrent creations for disjoint member sets both
	// succeed, matching last-write-wins on the status.
	closeUpdate := bson.M{"$set": bson.M{
		"status":    models.PostStatusClosed,
		"updatedAt": now,
	}}
	if _, err := database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, closeUpdate); err != nil {
		log.Printf("Failed to close post %s after room creation: %v", postID.Hex(), err)
	}

	var host models.User
	hostName := "사용자"
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&host); err == nil {
		hostName = host.Nickname
	}

	notifyRoomCreated(ctx, members, room.ID, room.Name, userID, hostName)

	leftOut := make([]primitive.ObjectID, 0, len(post.InterestedUserIDs))
	for _, uid := range post.InterestedUserIDs {
		if _, invited := memberSet[uid]; !invited {
			leftOut = append(leftOut, uid)
		}
	}
	notifyPostClosed(ctx, leftOut, postID, post.Title)

	if wsManager != nil {
		memberHexes := make([]string, 0, len(members))
		for _, id := range members {
			memberHexes = append(memberHexes, id.Hex())
		}
		wsManager.SendToUsers(memberHexes, "chat_room_created", room)

		leftOutHexes := make([]string, 0, len(leftOut))
		for _, id := range leftOut {
			leftOutHexes = append(leftOutHexes, id.Hex())
		}
		wsManager.SendToUsers(leftOutHexes, "post_closed", gin.H{
			"postId":    postID.Hex(),
			"postTitle": post.Title,
			"status":    models.PostStatusClosed,
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Chat room created successfully",
		"chatRoomId": room.ID.Hex(),
	})
}

func GetChatRoom(c *gin.Context) {
	roomID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat room ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
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

	c.JSON(http.StatusOK, room)
}

func GetMyChatRooms(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"memberIds": userID,
		"isActive":  true,
	}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	cursor, err := database.ChatRooms.Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat rooms"})
		return
	}
	defer cursor.Close(ctx)

	rooms := []models.ChatRoom{}
	if err := cursor.All(ctx, &rooms); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode chat rooms"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// LeaveChatRoom removes the caller from a room and announces the departure
// with a system message.
func LeaveChatRoom(c *gin.Context) {
	roomID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat room ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
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

	now := time.Now().Unix()
	update := bson.M{
		"$pull": bson.M{"memberIds": userID},
		"$inc":  bson.M{"memberCount": -1},
		"$set":  bson.M{"updatedAt": now},
	}
	if _, err := database.ChatRooms.UpdateOne(ctx, bson.M{"_id": roomID}, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave chat room"})
		return
	}

	nickname := "사용자"
	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err == nil {
		nickname = user.Nickname
	}

	sysMsg := models.Message{
		ID:         primitive.NewObjectID(),
		ChatRoomID: roomID,
		SenderID:   userID,
		Content:    nickname + "님이 채팅방을 나갔습니다.",
		Type:       models.MessageTypeSystem,
		CreatedAt:  now,
	}
	if _, err := database.Messages.InsertOne(ctx, sysMsg); err != nil {
		log.Printf("Failed to insert leave message for room %s: %v", roomID.Hex(), err)
	}

	if wsManager != nil {
		remaining := recipientsExcluding(room.MemberIDs, userID)
		hexes := make([]string, 0, len(remaining))
		for _, id := range remaining {
			hexes = append(hexes, id.Hex())
		}
		wsManager.SendToUsers(hexes, "member_left", gin.H{
			"chatRoomId": roomID.Hex(),
			"userId":     userID.Hex(),
			"nickname":   nickname,
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left chat room"})
}
