package handlers

import (
	"testing"
	"time"

	"spot/middleware"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Issued tokens must validate against the middleware: both sides read the
// same signing key.
func TestIssueTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "handlers-test-secret")

	userID := primitive.NewObjectID()
	token, expires, err := issueToken(userID)
	if err != nil {
		t.Fatalf("issueToken() error = %v", err)
	}
	if expires <= time.Now().Unix() {
		t.Errorf("expires = %d, want a future timestamp", expires)
	}

	parsed, err := middleware.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if parsed != userID.Hex() {
		t.Errorf("ParseToken() = %q, want %q", parsed, userID.Hex())
	}
}
