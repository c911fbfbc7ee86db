package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPostExpired(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	post := Post{
		Status:    PostStatusOpen,
		ExpiresAt: created.Add(PostTTL).Unix(),
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"just created", created, false},
		{"half lifetime", created.Add(30 * time.Minute), false},
		{"at expiry", created.Add(PostTTL), false},
		{"one second past", created.Add(PostTTL + time.Second), true},
		{"one minute past", created.Add(61 * time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := post.Expired(tt.now); got != tt.want {
				t.Errorf("Expired(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestPostEffectiveStatus(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := created.Add(PostTTL).Unix()

	tests := []struct {
		name   string
		status string
		now    time.Time
		want   string
	}{
		{"open before expiry", PostStatusOpen, created.Add(10 * time.Minute), PostStatusOpen},
		{"open past expiry", PostStatusOpen, created.Add(61 * time.Minute), PostStatusExpired},
		{"closed before expiry", PostStatusClosed, created.Add(10 * time.Minute), PostStatusClosed},
		{"closed past expiry", PostStatusClosed, created.Add(61 * time.Minute), PostStatusExpired},
		{"already expired", PostStatusExpired, created.Add(2 * time.Hour), PostStatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := Post{Status: tt.status, ExpiresAt: expiresAt}
			if got := post.EffectiveStatus(tt.now); got != tt.want {
				t.Errorf("EffectiveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPostInterested(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	post := Post{InterestedUserIDs: []primitive.ObjectID{a, b}}

	if !post.Interested(a) {
		t.Error("Interested(a) = false, want true")
	}
	if !post.Interested(b) {
		t.Error("Interested(b) = false, want true")
	}
	if post.Interested(stranger) {
		t.Error("Interested(stranger) = true, want false")
	}

	empty := Post{}
	if empty.Interested(a) {
		t.Error("Interested on empty set = true, want false")
	}
}
