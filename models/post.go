package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PostStatusOpen    = "open"
	PostStatusClosed  = "closed"
	PostStatusExpired = "expired"
)

// PostTTL is how long a post stays open after creation.
const PostTTL = time.Hour

type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	Address   string  `bson:"address,omitempty" json:"address,omitempty"`
	Geohash   string  `bson:"geohash" json:"geohash"`
}

type Post struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AuthorID           primitive.ObjectID   `bson:"authorId" json:"authorId"`
	AuthorNickname     string               `bson:"authorNickname" json:"authorNickname"`
	AuthorProfileImage string               `bson:"authorProfileImage" json:"authorProfileImage"`
	Title              string               `bson:"title" json:"title"`
	Content            string               `bson:"content" json:"content"`
	Tags               []string             `bson:"tags" json:"tags"`
	Location           Location             `bson:"location" json:"location"`
	ParticipantCount   string               `bson:"participantCount" json:"participantCount"` // display string, e.g. "3-4"
	InterestedCount    int                  `bson:"interestedCount" json:"interestedCount"`
	InterestedUserIDs  []primitive.ObjectID `bson:"interestedUserIds" json:"interestedUserIds"`
	MeetingTime        int64                `bson:"meetingTime" json:"meetingTime"`
	Status             string               `bson:"status" json:"status"` // open, closed, expired
	ExpiresAt          int64                `bson:"expiresAt" json:"expiresAt"`
	IsActive           bool                 `bson:"isActive" json:"isActive"`
	CreatedAt          int64                `bson:"createdAt" json:"createdAt"`
	UpdatedAt          int64                `bson:"updatedAt" json:"updatedAt"`
}

// Expired reports whether the post's lifetime has passed at the given time.
// The stored status may lag behind; callers that need the persisted state in
// sync use the lazy check in the post handlers or the background sweep.
func (p *Post) Expired(now time.Time) bool {
	return now.Unix() > p.ExpiresAt
}

// EffectiveStatus is the status the post should carry at the given time:
// open and closed posts past their expiry read as expired.
func (p *Post) EffectiveStatus(now time.Time) string {
	if p.Status != PostStatusExpired && p.Expired(now) {
		return PostStatusExpired
	}
	return p.Status
}

// Interested reports whether the user is in the interested set.
func (p *Post) Interested(userID primitive.ObjectID) bool {
	for _, id := range p.InterestedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// InterestedUser is the resolved profile of a user who expressed interest,
// shown to the author when picking chat members.
type InterestedUser struct {
	UserID       primitive.ObjectID `json:"userId"`
	Nickname     string             `json:"nickname"`
	ProfileImage string             `json:"profileImage"`
	Age          *int               `json:"age,omitempty"`
	Gender       string             `json:"gender,omitempty"`
	Interests    []string           `json:"interests"`
}
