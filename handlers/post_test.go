package handlers

import (
	"testing"

	"spot/geo"
	"spot/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Seoul city hall as the query center.
const (
	centerLat = 37.5663
	centerLng = 126.9779
)

func postAt(lat, lng float64, createdAt int64) models.Post {
	return models.Post{
		ID: primitive.NewObjectID(),
		Location: models.Location{
			Latitude:  lat,
			Longitude: lng,
			Geohash:   geo.Encode(lat, lng, geo.DefaultPrecision),
		},
		CreatedAt: createdAt,
	}
}

func TestFilterNearbyDistance(t *testing.T) {
	// near is ~111m north of the center, far is ~2.2km north
	near := postAt(centerLat+0.001, centerLng, 100)
	far := postAt(centerLat+0.02, centerLng, 200)
	center := postAt(centerLat, centerLng, 300)

	got := filterNearby([]models.Post{near, far, center}, centerLat, centerLng, 1000, 20)

	if len(got) != 2 {
		t.Fatalf("filterNearby() returned %d posts, want 2", len(got))
	}
	for _, p := range got {
		if p.ID == far.ID {
			t.Error("filterNearby() kept a post outside the radius")
		}
	}
}

func TestFilterNearbyDedupes(t *testing.T) {
	p := postAt(centerLat, centerLng, 100)

	// The same post can come back from several geohash range scans
	got := filterNearby([]models.Post{p, p, p}, centerLat, centerLng, 1000, 20)

	if len(got) != 1 {
		t.Errorf("filterNearby() returned %d posts, want 1", len(got))
	}
}

func TestFilterNearbySortsNewestFirst(t *testing.T) {
	oldest := postAt(centerLat, centerLng, 100)
	middle := postAt(centerLat+0.0005, centerLng, 200)
	newest := postAt(centerLat, centerLng+0.0005, 300)

	got := filterNearby([]models.Post{oldest, newest, middle}, centerLat, centerLng, 1000, 20)

	if len(got) != 3 {
		t.Fatalf("filterNearby() returned %d posts, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].CreatedAt < got[i].CreatedAt {
			t.Errorf("posts out of order: createdAt %d before %d", got[i-1].CreatedAt, got[i].CreatedAt)
		}
	}
}

func TestFilterNearbyTruncates(t *testing.T) {
	posts := make([]models.Post, 0, 30)
	for i := 0; i < 30; i++ {
		posts = append(posts, postAt(centerLat, centerLng, int64(i)))
	}

	got := filterNearby(posts, centerLat, centerLng, 1000, 20)

	if len(got) != 20 {
		t.Fatalf("filterNearby() returned %d posts, want 20", len(got))
	}
	// The cap keeps the newest posts
	if got[0].CreatedAt != 29 {
		t.Errorf("first post createdAt = %d, want 29", got[0].CreatedAt)
	}
	if got[len(got)-1].CreatedAt != 10 {
		t.Errorf("last post createdAt = %d, want 10", got[len(got)-1].CreatedAt)
	}
}

func TestFilterNearbyEmpty(t *testing.T) {
	got := filterNearby(nil, centerLat, centerLng, 1000, 20)
	if len(got) != 0 {
		t.Errorf("filterNearby(nil) returned %d posts, want 0", len(got))
	}
}
