// Package astro holds the solar, lunar and solunar calculations used by the
// fishing score. Everything here is pure: no I/O, no shared state.
//
// The models are deliberately simplified approximations (not ephemeris grade).
// They are good to a few minutes for the sun and to about a day for the moon,
// which is well inside the resolution the scoring bands care about.
package astro

import "math"

// Coordinate is a point on the globe in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Clamped returns the coordinate with latitude limited to [-90,90] and
// longitude limited to [-180,180]. NaN components collapse to zero.
func (c Coordinate) Clamped() Coordinate {
	return Coordinate{
		Latitude:  clampFinite(c.Latitude, -90, 90),
		Longitude: clampFinite(c.Longitude, -180, 180),
	}
}

// Valid reports whether both components are finite numbers.
func (c Coordinate) Valid() bool {
	return !math.IsNaN(c.Latitude) && !math.IsNaN(c.Longitude) &&
		!math.IsInf(c.Latitude, 0) && !math.IsInf(c.Longitude, 0)
}

func clampFinite(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(lo, math.Min(hi, v))
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

func radToDeg(r float64) float64 { return r * 180 / math.Pi }
