// Package pitch maps producer position samples into canonical pitch space
// and bins canonical coordinates into occupancy grid cells.
package pitch

import (
	"math"

	"github.com/pitchlens/pitchlens/internal/model"
)

// Canonical pitch dimensions in metres, origin at a corner.
const (
	Length = 105.0
	Width  = 68.0
)

// Detection thresholds for the two non-canonical conventions. Checked most
// restrictive first so a small canonical value is not read as centred.
const (
	normalizedMax = 1.1
	centredMaxX   = 60.0
	centredMaxY   = 40.0
)

// Normalize maps a position sample into canonical pitch coordinates. Three
// conventions are detected by magnitude:
//
//	normalized    |x|,|y| ≤ 1.1        → (x+0.5)·105, (y+0.5)·68
//	metre-centred |x| ≤ 60, |y| ≤ 40   → x+52.5, y+34
//	canonical     otherwise            → passed through
//
// The result is always clamped to [0,105]×[0,68]. Detection is a heuristic:
// a legitimately small canonical coordinate near the origin corner is read
// as normalized. Producers that tag their convention explicitly do not need
// this guess.
func Normalize(c model.Coordinate) model.Coordinate {
	x, y := c.X, c.Y
	ax, ay := math.Abs(x), math.Abs(y)
	switch {
	case ax <= normalizedMax && ay <= normalizedMax:
		x = (x + 0.5) * Length
		y = (y + 0.5) * Width
	case ax <= centredMaxX && ay <= centredMaxY:
		x += Length / 2
		y += Width / 2
	}
	return model.Coordinate{
		X: clamp(x, 0, Length),
		Y: clamp(y, 0, Width),
	}
}

// CellIndex bins a canonical coordinate into a w×h grid. The returned index
// is row-major (idx = cy*w + cx) and always within [0, w*h).
func CellIndex(c model.Coordinate, w, h int) (cx, cy, idx int) {
	cx = clampInt(int(math.Floor(c.X/(Length/float64(w)))), 0, w-1)
	cy = clampInt(int(math.Floor(c.Y/(Width/float64(h)))), 0, h-1)
	return cx, cy, cy*w + cx
}

// Distance is the Euclidean distance between two canonical coordinates.
func Distance(a, b model.Coordinate) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
