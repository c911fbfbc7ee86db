package geo

import (
	"math"
	"testing"
)

func TestPrecisionForRadius(t *testing.T) {
	tests := []struct {
		radius float64
		want   int
	}{
		{100, 7},
		{500, 6},
		{1000, 5},
		{5000, 4},
		{50000, 3},
		{1000000, 1},
	}
	for _, tt := range tests {
		if got := precisionForRadius(tt.radius); got != tt.want {
			t.Errorf("precisionForRadius(%v) = %d, want %d", tt.radius, got, tt.want)
		}
	}
}

func TestQueryBoundsShape(t *testing.T) {
	bounds := QueryBounds(37.5665, 126.9780, 1000)

	if len(bounds) == 0 || len(bounds) > 9 {
		t.Fatalf("QueryBounds returned %d ranges, want 1..9", len(bounds))
	}
	for _, b := range bounds {
		if b.End != b.Start+"~" {
			t.Errorf("bound end %q does not close the prefix range of %q", b.End, b.Start)
		}
	}
}

// inBounds reports whether a stored geohash falls inside any of the ranges,
// using the same lexicographic comparison the database applies.
func inBounds(hash string, bounds []Bound) bool {
	for _, b := range bounds {
		if hash >= b.Start && hash <= b.End {
			return true
		}
	}
	return false
}

// Any point within the radius must land in at least one bound; geohash cells
// only ever over-approximate the circle, never exclude part of it.
func TestQueryBoundsCoverRadius(t *testing.T) {
	centerLat, centerLng := 37.5665, 126.9780
	radius := 1000.0
	bounds := QueryBounds(centerLat, centerLng, radius)

	// Walk points on rings at several fractions of the radius.
	for _, frac := range []float64{0, 0.25, 0.5, 0.75, 0.99} {
		for deg := 0.0; deg < 360; deg += 30 {
			rad := deg * math.Pi / 180
			dLat := frac * radius * math.Cos(rad) / 111195.0
			dLng := frac * radius * math.Sin(rad) / (111195.0 * math.Cos(centerLat*math.Pi/180))

			lat := centerLat + dLat
			lng := centerLng + dLng
			hash := Encode(lat, lng, DefaultPrecision)

			if !WithinRadius(centerLat, centerLng, lat, lng, radius) {
				continue
			}
			if !inBounds(hash, bounds) {
				t.Errorf("point (%v, %v) within radius but hash %q outside all bounds", lat, lng, hash)
			}
		}
	}
}
