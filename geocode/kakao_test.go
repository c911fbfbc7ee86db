package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spot/models"
)

func TestReverseGeocode(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v2/local/geo/coord2address.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"documents":[{"address":{"address_name":"서울특별시 중구 태평로1가"}}]}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	addr, err := client.ReverseGeocode(context.Background(), 37.5665, 126.9780)
	if err != nil {
		t.Fatalf("ReverseGeocode() error = %v", err)
	}
	if addr != "서울특별시 중구 태평로1가" {
		t.Errorf("ReverseGeocode() = %q", addr)
	}
	if gotAuth != "KakaoAK test-key" {
		t.Errorf("Authorization header = %q, want KakaoAK test-key", gotAuth)
	}
}

func TestReverseGeocodeEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"documents":[]}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	if _, err := client.ReverseGeocode(context.Background(), 0, 0); err == nil {
		t.Error("expected error for empty document list")
	}
}

func TestReverseGeocodeMissingKey(t *testing.T) {
	client := NewClient("")
	if _, err := client.ReverseGeocode(context.Background(), 37.5, 127.0); err == nil {
		t.Error("expected error when API key missing")
	}
}

func TestShouldReuse(t *testing.T) {
	now := time.Now()
	base := &models.UserLocation{
		Latitude:   37.5665,
		Longitude:  126.9780,
		Address:    "서울특별시 중구",
		GeocodedAt: now.Add(-5 * time.Minute).Unix(),
	}

	tests := []struct {
		name   string
		cached *models.UserLocation
		lat    float64
		lng    float64
		want   bool
	}{
		{
			name:   "same point, fresh cache",
			cached: base,
			lat:    37.5665,
			lng:    126.9780,
			want:   true,
		},
		{
			name:   "moved ~50m",
			cached: base,
			lat:    37.5665 + 50.0/111195.0,
			lng:    126.9780,
			want:   true,
		},
		{
			name:   "moved ~500m",
			cached: base,
			lat:    37.5665 + 500.0/111195.0,
			lng:    126.9780,
			want:   false,
		},
		{
			name: "stale cache",
			cached: &models.UserLocation{
				Latitude:   37.5665,
				Longitude:  126.9780,
				Address:    "서울특별시 중구",
				GeocodedAt: now.Add(-45 * time.Minute).Unix(),
			},
			lat:  37.5665,
			lng:  126.9780,
			want: false,
		},
		{
			name: "no cached address",
			cached: &models.UserLocation{
				Latitude:   37.5665,
				Longitude:  126.9780,
				GeocodedAt: now.Unix(),
			},
			lat:  37.5665,
			lng:  126.9780,
			want: false,
		},
		{
			name:   "nil cache",
			cached: nil,
			lat:    37.5665,
			lng:    126.9780,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldReuse(tt.cached, tt.lat, tt.lng, now); got != tt.want {
				t.Errorf("ShouldReuse() = %v, want %v", got, tt.want)
			}
		})
	}
}
