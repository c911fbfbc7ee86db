package geo

import (
	"math"
	"testing"
)

func TestDistanceZeroForIdenticalPoints(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{37.5665, 126.9780},
		{-33.8688, 151.2093},
		{89.9, 179.9},
	}
	for _, p := range points {
		if d := Distance(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("Distance(%v, %v, same) = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := []struct {
		lat1, lng1, lat2, lng2 float64
	}{
		{37.5665, 126.9780, 37.4979, 127.0276},
		{0, 0, 10, 10},
		{51.5074, -0.1278, 40.7128, -74.0060},
		{-10, 20, 30, -40},
	}
	for _, p := range pairs {
		ab := Distance(p.lat1, p.lng1, p.lat2, p.lng2)
		ba := Distance(p.lat2, p.lng2, p.lat1, p.lng1)
		if ab < 0 {
			t.Errorf("Distance returned negative value %v", ab)
		}
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Distance not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// One degree of latitude is ~111.19 km on a 6371 km sphere.
	d := Distance(0, 0, 1, 0)
	want := 111194.9
	if math.Abs(d-want) > 10 {
		t.Errorf("Distance(0,0,1,0) = %v, want ~%v", d, want)
	}
}

func TestWithinRadiusBoundary(t *testing.T) {
	lat1, lng1 := 37.5665, 126.9780
	lat2, lng2 := 37.5700, 126.9800
	d := Distance(lat1, lng1, lat2, lng2)

	if !WithinRadius(lat1, lng1, lat2, lng2, d) {
		t.Error("point exactly at the radius should be within")
	}
	if WithinRadius(lat1, lng1, lat2, lng2, d-0.5) {
		t.Error("point past the radius should not be within")
	}
	if !WithinRadius(lat1, lng1, lat2, lng2, d+0.5) {
		t.Error("point inside the radius should be within")
	}
}
