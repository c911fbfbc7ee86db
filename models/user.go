package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash *string            `bson:"passwordHash,omitempty" json:"-"`
	AuthProvider string             `bson:"authProvider" json:"authProvider"` // email, google, kakao
	GoogleID     *string            `bson:"googleId,omitempty" json:"-"`
	KakaoID      *string            `bson:"kakaoId,omitempty" json:"-"`
	Nickname     string             `bson:"nickname" json:"nickname"`
	ProfileImage string             `bson:"profileImage" json:"profileImage"`
	Interests    []string           `bson:"interests" json:"interests"`
	Age          *int               `bson:"age,omitempty" json:"age,omitempty"`
	Gender       string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Location     *UserLocation      `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt    int64              `bson:"updatedAt" json:"updatedAt"`
	LastLoginAt  int64              `bson:"lastLoginAt" json:"lastLoginAt"`
}

// UserLocation is the user's last reported position. GeocodedAt records when
// Address was resolved so stale entries can be refreshed.
type UserLocation struct {
	Latitude   float64 `bson:"latitude" json:"latitude"`
	Longitude  float64 `bson:"longitude" json:"longitude"`
	Address    string  `bson:"address,omitempty" json:"address,omitempty"`
	GeocodedAt int64   `bson:"geocodedAt,omitempty" json:"-"`
}
