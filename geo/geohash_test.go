package geo

import (
	"math"
	"strings"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name      string
		lat       float64
		lng       float64
		precision int
		want      string
	}{
		{
			name:      "San Francisco",
			lat:       37.7749,
			lng:       -122.4194,
			precision: 6,
			want:      "9q8yyk",
		},
		{
			name:      "New York",
			lat:       40.7128,
			lng:       -74.0060,
			precision: 6,
			want:      "dr5reg",
		},
		{
			name:      "London",
			lat:       51.5074,
			lng:       -0.1278,
			precision: 6,
			want:      "gcpvj0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.lat, tt.lng, tt.precision)
			if got != tt.want {
				t.Errorf("Encode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncodeDefaultPrecision(t *testing.T) {
	got := Encode(37.7749, -122.4194, 0)
	if len(got) != DefaultPrecision {
		t.Errorf("Encode() with precision 0 returned %d chars, want %d", len(got), DefaultPrecision)
	}
	if !strings.HasPrefix(got, "9q8yyk") {
		t.Errorf("Encode() = %v, want prefix 9q8yyk", got)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	points := []struct {
		lat float64
		lng float64
	}{
		{37.5665, 126.9780},
		{37.7749, -122.4194},
		{51.5074, -0.1278},
		{-33.8688, 151.2093},
		{35.6762, 139.6503},
	}

	for _, p := range points {
		hash := Encode(p.lat, p.lng, 9)
		lat, lng := Decode(hash)

		tolerance := 0.0001
		if math.Abs(lat-p.lat) > tolerance {
			t.Errorf("round trip lat: original %v, decoded %v", p.lat, lat)
		}
		if math.Abs(lng-p.lng) > tolerance {
			t.Errorf("round trip lng: original %v, decoded %v", p.lng, lng)
		}
	}
}

func TestNeighbor(t *testing.T) {
	center := "9q8yyk"

	for _, dir := range []string{"n", "s", "e", "w"} {
		got := Neighbor(center, dir)
		if got == center {
			t.Errorf("Neighbor(%q, %q) should differ from center", center, dir)
		}
		if len(got) != len(center) {
			t.Errorf("Neighbor(%q, %q) length = %d, want %d", center, dir, len(got), len(center))
		}
	}

	// Moving north then south lands back on the center cell.
	if back := Neighbor(Neighbor(center, "n"), "s"); back != center {
		t.Errorf("n then s = %q, want %q", back, center)
	}
	if back := Neighbor(Neighbor(center, "e"), "w"); back != center {
		t.Errorf("e then w = %q, want %q", back, center)
	}
}

// TestNeighborDirections decodes each neighbor's center and checks it moved
// the way the direction name says, at both even and odd hash lengths (the
// lookup tables differ by parity).
func TestNeighborDirections(t *testing.T) {
	hashes := []string{
		"wyd",    // odd length, Seoul area
		"wydm",   // even length
		"9q8yy",  // odd length, San Francisco
		"9q8yyk", // even length
	}

	for _, hash := range hashes {
		lat, lng := Decode(hash)

		tests := []struct {
			dir     string
			wantLat int // sign of the expected latitude change
			wantLng int // sign of the expected longitude change
		}{
			{"n", 1, 0},
			{"s", -1, 0},
			{"e", 0, 1},
			{"w", 0, -1},
		}

		for _, tt := range tests {
			nLat, nLng := Decode(Neighbor(hash, tt.dir))
			dLat := nLat - lat
			dLng := nLng - lng

			if sign(dLat) != tt.wantLat {
				t.Errorf("Neighbor(%q, %q): dLat = %v, want sign %d", hash, tt.dir, dLat, tt.wantLat)
			}
			if sign(dLng) != tt.wantLng {
				t.Errorf("Neighbor(%q, %q): dLng = %v, want sign %d", hash, tt.dir, dLng, tt.wantLng)
			}
		}
	}
}

func sign(v float64) int {
	const eps = 1e-9
	switch {
	case v > eps:
		return 1
	case v < -eps:
		return -1
	default:
		return 0
	}
}

func TestNeighbors(t *testing.T) {
	cells := Neighbors("9q8yyk")

	if len(cells) != 9 {
		t.Fatalf("Neighbors() returned %d cells, want 9", len(cells))
	}
	if cells[0] != "9q8yyk" {
		t.Errorf("first cell = %q, want the center", cells[0])
	}

	seen := make(map[string]bool)
	for _, c := range cells {
		if seen[c] {
			t.Errorf("duplicate cell %q", c)
		}
		seen[c] = true
	}
}
