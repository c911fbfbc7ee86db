package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func getAuthURL(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth-url", nil)
	handler(c)
	return w
}

func TestGoogleAuthURLConfiguration(t *testing.T) {
	googleOAuthConfig = nil
	defer func() { googleOAuthConfig = nil }()

	if w := getAuthURL(GetGoogleAuthURL); w.Code != http.StatusServiceUnavailable {
		t.Errorf("unconfigured status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	// Empty credentials leave the provider disabled
	SetGoogleOAuth("", "")
	if googleOAuthConfig != nil {
		t.Error("SetGoogleOAuth with empty credentials configured the provider")
	}

	SetGoogleOAuth("client-id", "client-secret")
	w := getAuthURL(GetGoogleAuthURL)
	if w.Code != http.StatusOK {
		t.Fatalf("configured status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "accounts.google.com") {
		t.Errorf("auth url body = %s, want a Google consent URL", w.Body.String())
	}
}

func TestKakaoAuthURLConfiguration(t *testing.T) {
	kakaoOAuthConfig = nil
	defer func() { kakaoOAuthConfig = nil }()

	if w := getAuthURL(GetKakaoAuthURL); w.Code != http.StatusServiceUnavailable {
		t.Errorf("unconfigured status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	SetKakaoOAuth("", "", "")
	if kakaoOAuthConfig != nil {
		t.Error("SetKakaoOAuth without a key configured the provider")
	}

	SetKakaoOAuth("rest-api-key", "", "")
	w := getAuthURL(GetKakaoAuthURL)
	if w.Code != http.StatusOK {
		t.Fatalf("configured status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "kauth.kakao.com") {
		t.Errorf("auth url body = %s, want a Kakao consent URL", w.Body.String())
	}
	if kakaoOAuthConfig.RedirectURL != "http://localhost:8080/api/kakao/callback" {
		t.Errorf("default redirect = %q", kakaoOAuthConfig.RedirectURL)
	}
}
