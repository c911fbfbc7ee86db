package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	MessageTypeText   = "text"
	MessageTypeSystem = "system"
)

type Message struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatRoomID         primitive.ObjectID `bson:"chatRoomId" json:"chatRoomId"`
	SenderID           primitive.ObjectID `bson:"senderId" json:"senderId"`
	SenderNickname     string             `bson:"senderNickname" json:"senderNickname"`
	SenderProfileImage string             `bson:"senderProfileImage" json:"senderProfileImage"`
	Content            string             `bson:"content" json:"content"`
	Type               string             `bson:"type" json:"type"` // text, system
	CreatedAt          int64              `bson:"createdAt" json:"createdAt"`
}
