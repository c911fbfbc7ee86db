// Package geo implements the geohash encoding and distance arithmetic behind
// the nearby-post query: a point's geohash, the string ranges covering a
// query radius, and exact haversine filtering.
package geo

import "strings"

// base32 is the geohash character set. 'a', 'i', 'l' and 'o' are excluded.
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// DefaultPrecision is the precision stored on post documents (~4.8 m cells),
// fine enough that range scans at any query radius stay prefix-compatible.
const DefaultPrecision = 9

// Lookup tables for neighbor calculation. The geohash bit layout alternates
// between longitude and latitude, so the tables depend on whether the hash
// length is even or odd.
var (
	neighborTable = map[string]map[byte]string{
		"n": {'e': "p0r21436x8zb9dcf5h7kjnmqesgutwvy", 'o': "bc01fg45238967deuvhjyznpkmstqrwx"},
		"s": {'e': "14365h7k9dcfesgujnmqp0r2twvyx8zb", 'o': "238967debc01fg45kmstqrwxuvhjyznp"},
		"e": {'e': "bc01fg45238967deuvhjyznpkmstqrwx", 'o': "p0r21436x8zb9dcf5h7kjnmqesgutwvy"},
		"w": {'e': "238967debc01fg45kmstqrwxuvhjyznp", 'o': "14365h7k9dcfesgujnmqp0r2twvyx8zb"},
	}
	borderTable = map[string]map[byte]string{
		"n": {'e': "prxz", 'o': "bcfguvyz"},
		"s": {'e': "028b", 'o': "0145hjnp"},
		"e": {'e': "bcfguvyz", 'o': "prxz"},
		"w": {'e': "0145hjnp", 'o': "028b"},
	}
)

// Encode converts a latitude/longitude pair to a geohash string of the given
// precision by binary bisection of the coordinate ranges, five bits per
// output character.
func Encode(lat, lng float64, precision int) string {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	if precision > 12 {
		precision = 12
	}

	minLat, maxLat := -90.0, 90.0
	minLng, maxLng := -180.0, 180.0

	var hash strings.Builder
	isEven := true
	bit := 0
	ch := 0

	for hash.Len() < precision {
		if isEven {
			mid := (minLng + maxLng) / 2
			if lng >= mid {
				ch |= 1 << (4 - bit)
				minLng = mid
			} else {
				maxLng = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if lat >= mid {
				ch |= 1 << (4 - bit)
				minLat = mid
			} else {
				maxLat = mid
			}
		}
		isEven = !isEven
		bit++
		if bit == 5 {
			hash.WriteByte(base32[ch])
			bit = 0
			ch = 0
		}
	}

	return hash.String()
}

// Decode returns the center of the cell a geohash encodes. Inverse of Encode
// up to the cell size at the hash's precision.
func Decode(hash string) (lat, lng float64) {
	minLat, maxLat := -90.0, 90.0
	minLng, maxLng := -180.0, 180.0
	isEven := true

	for i := 0; i < len(hash); i++ {
		cd := strings.IndexByte(base32, hash[i])
		if cd < 0 {
			continue
		}
		for j := 4; j >= 0; j-- {
			bit := (cd >> j) & 1
			if isEven {
				mid := (minLng + maxLng) / 2
				if bit == 1 {
					minLng = mid
				} else {
					maxLng = mid
				}
			} else {
				mid := (minLat + maxLat) / 2
				if bit == 1 {
					minLat = mid
				} else {
					maxLat = mid
				}
			}
			isEven = !isEven
		}
	}

	return (minLat + maxLat) / 2, (minLng + maxLng) / 2
}

// Neighbor returns the adjacent cell in direction "n", "s", "e" or "w",
// recursing into the parent when the last character sits on a cell border.
func Neighbor(hash, direction string) string {
	if len(hash) == 0 {
		return ""
	}

	hash = strings.ToLower(hash)
	lastChar := hash[len(hash)-1]
	parent := hash[:len(hash)-1]

	var t byte = 'o'
	if len(hash)%2 == 0 {
		t = 'e'
	}

	if strings.IndexByte(borderTable[direction][t], lastChar) >= 0 && len(parent) > 0 {
		parent = Neighbor(parent, direction)
	}

	idx := strings.IndexByte(neighborTable[direction][t], lastChar)
	if idx >= 0 {
		return parent + string(base32[idx])
	}

	return hash
}

// Neighbors returns the cell plus its 8 surrounding cells, a 3x3 grid around
// the query center. Duplicates can occur near the poles and are removed.
func Neighbors(hash string) []string {
	n := Neighbor(hash, "n")
	s := Neighbor(hash, "s")
	cells := []string{
		hash,
		n,
		s,
		Neighbor(hash, "e"),
		Neighbor(hash, "w"),
		Neighbor(n, "e"),
		Neighbor(n, "w"),
		Neighbor(s, "e"),
		Neighbor(s, "w"),
	}

	seen := make(map[string]struct{}, len(cells))
	out := cells[:0]
	for _, c := range cells {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
