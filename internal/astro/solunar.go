package astro

import (
	"errors"
	"math"
	"sort"
	"time"
)

// PeriodKind distinguishes major (lunar transit) from minor (moonrise/set) windows.
type PeriodKind string

const (
	PeriodMajor PeriodKind = "major"
	PeriodMinor PeriodKind = "minor"
)

// Solunar model constants. The pseudo-transit advances ~48.76 minutes per day
// of month; the opposite transit follows 12h25m later and each minor window is
// centered 6h12m after a major one.
const (
	TransitStepMinutes   = 48.76
	HalfLunarDayMinutes  = 745
	MinorOffsetMinutes   = 372
	MajorDurationMinutes = 120
	MinorDurationMinutes = 60
	minutesPerDay        = 24 * 60
)

// ErrInvalidCoordinate is returned when a coordinate is not a finite number pair.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// SolunarPeriod is one feeding window.
type SolunarPeriod struct {
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
	Kind  PeriodKind `json:"kind"`
}

// Contains reports whether t falls inside [Start, End).
func (p SolunarPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// SolunarEstimator produces the feeding windows for a calendar day. The
// simple estimator below can be swapped for a real transit calculation
// without changing callers: the contract is two major and two minor windows.
type SolunarEstimator interface {
	Periods(c Coordinate, date time.Time) ([]SolunarPeriod, error)
}

// SimpleSolunar derives windows from a day-of-month pseudo-transit. It
// ignores longitude and is not ephemeris accurate.
type SimpleSolunar struct{}

// Periods returns the windows for the calendar day of date, sorted by start.
func (SimpleSolunar) Periods(c Coordinate, date time.Time) ([]SolunarPeriod, error) {
	if !c.Valid() {
		return nil, ErrInvalidCoordinate
	}
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, date.Location())

	transit := math.Mod(float64(d)*TransitStepMinutes, minutesPerDay)
	window := func(center float64, length int, kind PeriodKind) SolunarPeriod {
		mid := midnight.Add(minutes(math.Mod(center, minutesPerDay)))
		half := time.Duration(length) * time.Minute / 2
		return SolunarPeriod{
			Start: mid.Add(-half),
			End:   mid.Add(half),
			Kind:  kind,
		}
	}

	periods := []SolunarPeriod{
		window(transit, MajorDurationMinutes, PeriodMajor),
		window(transit+HalfLunarDayMinutes, MajorDurationMinutes, PeriodMajor),
		window(transit+MinorOffsetMinutes, MinorDurationMinutes, PeriodMinor),
		window(transit+HalfLunarDayMinutes+MinorOffsetMinutes, MinorDurationMinutes, PeriodMinor),
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Start.Before(periods[j].Start) })
	return periods, nil
}

// ActivePeriod returns the window containing t, preferring a major window
// when both kinds match.
func ActivePeriod(periods []SolunarPeriod, t time.Time) *SolunarPeriod {
	var found *SolunarPeriod
	for i := range periods {
		p := periods[i]
		if !p.Contains(t) {
			continue
		}
		if p.Kind == PeriodMajor {
			return &p
		}
		if found == nil {
			found = &p
		}
	}
	return found
}

// DailyRating adjusts the moon's fishing rating for the hour of day: dawn and
// dusk earn a bonus, midday a penalty. The result stays in [1,5].
func DailyRating(moon MoonPhase, hour int) int {
	rating := moon.FishingRating
	switch {
	case (hour >= 5 && hour <= 8) || (hour >= 17 && hour <= 20):
		rating++
	case hour >= 11 && hour <= 14:
		rating--
	}
	if rating > 5 {
		return 5
	}
	if rating < 1 {
		return 1
	}
	return rating
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
