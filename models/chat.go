package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type ChatRoom struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name          string               `bson:"name" json:"name"` // derived from the post title
	PostID        primitive.ObjectID   `bson:"postId" json:"postId"`
	PostTitle     string               `bson:"postTitle" json:"postTitle"`
	HostID        primitive.ObjectID   `bson:"hostId" json:"hostId"`
	MemberIDs     []primitive.ObjectID `bson:"memberIds" json:"memberIds"`
	MemberCount   int                  `bson:"memberCount" json:"memberCount"`
	LastMessage   string               `bson:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastMessageAt int64                `bson:"lastMessageAt,omitempty" json:"lastMessageAt,omitempty"`
	IsActive      bool                 `bson:"isActive" json:"isActive"`
	CreatedAt     int64                `bson:"createdAt" json:"createdAt"`
	UpdatedAt     int64                `bson:"updatedAt" json:"updatedAt"`
}

// HasMember reports whether the user belongs to the room.
func (r *ChatRoom) HasMember(userID primitive.ObjectID) bool {
	for _, id := range r.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// SameMemberSet reports whether two member lists describe the same set of
// users, regardless of order. Member lists are duplicate-free, so equal
// length plus mutual containment is sufficient.
func SameMemberSet(a, b []primitive.ObjectID) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[primitive.ObjectID]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}
	for _, id := range a {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
