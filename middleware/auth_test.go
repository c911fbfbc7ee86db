package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, claims *Claims, secret []byte) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestParseTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")

	claims := &Claims{
		UserID: "64f000000000000000000001",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	userID, err := ParseToken(signToken(t, claims, JWTSecret()))
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if userID != claims.UserID {
		t.Errorf("ParseToken() = %q, want %q", userID, claims.UserID)
	}
}

func TestParseTokenExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")

	claims := &Claims{
		UserID: "64f000000000000000000001",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}

	if _, err := ParseToken(signToken(t, claims, JWTSecret())); err == nil {
		t.Error("ParseToken() accepted an expired token")
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")

	claims := &Claims{
		UserID: "64f000000000000000000001",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	if _, err := ParseToken(signToken(t, claims, []byte("not-the-secret"))); err == nil {
		t.Error("ParseToken() accepted a token signed with the wrong secret")
	}
}

func TestParseTokenMissingUserID(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	if _, err := ParseToken(signToken(t, claims, JWTSecret())); err == nil {
		t.Error("ParseToken() accepted a token without a user id")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("not.a.token"); err == nil {
		t.Error("ParseToken() accepted garbage input")
	}
}
