package geo

import "sort"

// Bound is an inclusive geohash string range for one range query.
type Bound struct {
	Start string
	End   string
}

// cellMinDim is the approximate smaller cell dimension in meters per geohash
// precision, at the equator. Used to pick a precision whose 3x3 neighbor
// grid is guaranteed to cover the query circle.
var cellMinDim = []float64{
	0,       // unused
	4992600, // 1
	624100,  // 2
	156000,  // 3
	19500,   // 4
	4890,    // 5
	610,     // 6
	153,     // 7
	19.1,    // 8
	4.77,    // 9
}

// precisionForRadius picks the finest precision whose cell still spans the
// radius, so the center cell plus its neighbors cover the circle.
func precisionForRadius(radiusMeters float64) int {
	for p := len(cellMinDim) - 1; p > 1; p-- {
		if cellMinDim[p] >= radiusMeters {
			return p
		}
	}
	return 1
}

// QueryBounds returns the geohash string ranges that cover a circle around
// the center. Each range is a prefix scan over one cell of a 3x3 grid at a
// precision chosen from the radius; cells over-approximate the circle, so
// results must still be filtered by exact distance.
func QueryBounds(lat, lng, radiusMeters float64) []Bound {
	precision := precisionForRadius(radiusMeters)
	cells := Neighbors(Encode(lat, lng, precision))
	sort.Strings(cells)

	bounds := make([]Bound, 0, len(cells))
	for _, cell := range cells {
		// '~' sorts above every base32 character, closing the prefix range
		// over hashes stored at any higher precision.
		bounds = append(bounds, Bound{Start: cell, End: cell + "~"})
	}
	return bounds
}
