package astro

import (
	"math"
	"time"
)

// SynodicMonthDays is the mean length of a lunar cycle used to normalize the
// phase day index.
const SynodicMonthDays = 29.53

// PhaseName is one of the eight canonical moon phase names.
type PhaseName string

const (
	NewMoon        PhaseName = "New Moon"
	WaxingCrescent PhaseName = "Waxing Crescent"
	FirstQuarter   PhaseName = "First Quarter"
	WaxingGibbous  PhaseName = "Waxing Gibbous"
	FullMoon       PhaseName = "Full Moon"
	WaningGibbous  PhaseName = "Waning Gibbous"
	LastQuarter    PhaseName = "Last Quarter"
	WaningCrescent PhaseName = "Waning Crescent"
)

// phaseBands maps the upper (exclusive) phase-fraction bound of each band to
// its name. Fractions at or above the last bound wrap back to New Moon.
var phaseBands = []struct {
	Below float64
	Name  PhaseName
}{
	{0.03, NewMoon},
	{0.22, WaxingCrescent},
	{0.28, FirstQuarter},
	{0.47, WaxingGibbous},
	{0.53, FullMoon},
	{0.72, WaningGibbous},
	{0.78, LastQuarter},
	{0.97, WaningCrescent},
}

// ratingBands maps the maximum distance from the nearest new/full extreme to
// a fishing rating.
var ratingBands = []struct {
	Within float64
	Rating int
}{
	{0.05, 5},
	{0.10, 4},
	{0.20, 3},
	{0.30, 2},
}

// MoonPhase describes the moon on a calendar day.
type MoonPhase struct {
	DayIndex            int       `json:"dayIndex"`
	PhaseFraction       float64   `json:"phaseFraction"`
	IlluminationPercent int       `json:"illuminationPercent"`
	Name                PhaseName `json:"name"`
	FishingRating       int       `json:"fishingRating"`
}

// MoonPhaseOn returns the moon phase for the calendar day of date.
func MoonPhaseOn(date time.Time) MoonPhase {
	idx := moonDayIndex(date)
	fraction := float64(idx) / SynodicMonthDays
	return MoonPhase{
		DayIndex:            idx,
		PhaseFraction:       fraction,
		IlluminationPercent: Illumination(fraction),
		Name:                PhaseNameFor(fraction),
		FishingRating:       FishingRating(fraction),
	}
}

// moonDayIndex is Conway's closed-form approximation of the moon's age in
// days, in [0,29].
func moonDayIndex(date time.Time) int {
	year, month, day := date.Date()

	r := year % 100
	r %= 19
	if r > 9 {
		r -= 19
	}
	v := float64((r*11)%30 + int(month) + day)
	if month < 3 {
		v += 2
	}
	if year < 2000 {
		v -= 4
	} else {
		v -= 8.3
	}

	idx := int(math.Floor(v+0.5)) % 30
	if idx < 0 {
		idx += 30
	}
	return idx
}

// Illumination returns the lit percentage of the disc for a phase fraction.
func Illumination(fraction float64) int {
	return int(math.Round((1 - math.Cos(fraction*2*math.Pi)) * 50))
}

// PhaseNameFor selects the phase name band for a fraction in [0,1).
func PhaseNameFor(fraction float64) PhaseName {
	for _, b := range phaseBands {
		if fraction < b.Below {
			return b.Name
		}
	}
	return NewMoon
}

// FishingRating scores a phase fraction 1..5; new and full moons rate highest.
func FishingRating(fraction float64) int {
	d := math.Min(math.Min(math.Abs(fraction), math.Abs(fraction-0.5)), math.Abs(1-fraction))
	for _, b := range ratingBands {
		if d <= b.Within {
			return b.Rating
		}
	}
	return 1
}
