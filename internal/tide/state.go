package tide

import (
	"math"
	"sort"
	"time"
)

// StateAt locates at between the surrounding extremes. The water is rising
// when the previous extreme was a low; height follows a half cosine between
// the two extremes. Without extremes on both sides the state is Unknown.
func StateAt(extremes []Extreme, at time.Time) State {
	sorted := make([]Extreme, len(extremes))
	copy(sorted, extremes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	// First extreme strictly after at.
	idx := sort.Search(len(sorted), func(i int) bool { return sorted[i].Time.After(at) })
	if idx == 0 || idx == len(sorted) {
		return State{State: Unknown}
	}
	prev, next := sorted[idx-1], sorted[idx]

	span := next.Time.Sub(prev.Time)
	if span <= 0 {
		return State{State: Unknown}
	}
	fraction := float64(at.Sub(prev.Time)) / float64(span)

	dir := Falling
	if prev.Kind == Low {
		dir = Rising
	}
	height := prev.HeightMeters + (next.HeightMeters-prev.HeightMeters)*(1-math.Cos(math.Pi*fraction))/2

	return State{
		State:           dir,
		ProgressPercent: math.Round(fraction*1000) / 10,
		HeightMeters:    &height,
		NextExtreme:     &next,
	}
}
