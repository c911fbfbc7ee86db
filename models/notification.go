package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	NotificationTypeInterest          = "interest"
	NotificationTypeChatMessage       = "chat_message"
	NotificationTypeChatRoomCreated   = "chat_room_created"
	NotificationTypePostStatusChanged = "post_status_changed"
)

type Notification struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID     `bson:"userId" json:"userId"` // recipient
	Type       string                 `bson:"type" json:"type"`
	Title      string                 `bson:"title" json:"title"`
	Message    string                 `bson:"message" json:"message"`
	IsRead     bool                   `bson:"isRead" json:"isRead"`
	PostID     *primitive.ObjectID    `bson:"postId,omitempty" json:"postId,omitempty"`
	ChatRoomID *primitive.ObjectID    `bson:"chatRoomId,omitempty" json:"chatRoomId,omitempty"`
	SenderID   *primitive.ObjectID    `bson:"senderId,omitempty" json:"senderId,omitempty"`
	SenderName string                 `bson:"senderName,omitempty" json:"senderName,omitempty"`
	Metadata   map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt  int64                  `bson:"createdAt" json:"createdAt"`
}

type NotificationStats struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
}
