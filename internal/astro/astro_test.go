package astro

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSunTimesEquatorHasTwelveHourDay(t *testing.T) {
	for _, date := range []time.Time{day(2024, time.January, 1), day(2024, time.June, 21), day(2025, time.October, 3)} {
		st := SunTimesFor(Coordinate{Latitude: 0, Longitude: 10}, date)
		if st.Condition != DaylightNormal {
			t.Fatalf("%s: expected normal daylight, got %s", date.Format(time.DateOnly), st.Condition)
		}
		if math.Abs(st.DayLengthMinutes-720) > 1e-6 {
			t.Fatalf("%s: expected 720 minutes of daylight, got %.2f", date.Format(time.DateOnly), st.DayLengthMinutes)
		}
		if !st.Sunrise.Before(st.SolarNoon) || !st.SolarNoon.Before(*st.Sunset) {
			t.Fatalf("%s: expected sunrise < noon < sunset", date.Format(time.DateOnly))
		}
		if !st.GoldenHourMorningEnd.Equal(st.Sunrise.Add(time.Hour)) {
			t.Fatalf("morning golden hour should end one hour after sunrise")
		}
	}
}

func TestSunTimesSolarNoonNearGreenwich(t *testing.T) {
	st := SunTimesFor(Coordinate{Latitude: 51.5, Longitude: 0}, day(2024, time.April, 15))
	want := time.Date(2024, time.April, 15, 12, 0, 0, 0, time.UTC)
	if diff := st.SolarNoon.Sub(want); diff > 20*time.Minute || diff < -20*time.Minute {
		t.Fatalf("solar noon %s too far from 12:00 UTC", st.SolarNoon)
	}
}

func TestSunTimesSummerDayLongerAtMidLatitude(t *testing.T) {
	summer := SunTimesFor(Coordinate{Latitude: 45, Longitude: -93}, day(2024, time.June, 21))
	winter := SunTimesFor(Coordinate{Latitude: 45, Longitude: -93}, day(2024, time.December, 21))
	if summer.DayLengthMinutes <= 720 || winter.DayLengthMinutes >= 720 {
		t.Fatalf("expected summer > 12h > winter, got %.0f and %.0f", summer.DayLengthMinutes, winter.DayLengthMinutes)
	}
}

func TestSunTimesPolarConditions(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		date time.Time
		want DaylightCondition
	}{
		{"arctic winter", 70, day(2024, time.December, 21), PolarNight},
		{"arctic summer", 70, day(2024, time.June, 21), MidnightSun},
		{"antarctic june", -70, day(2024, time.June, 21), PolarNight},
		{"pole", 90, day(2024, time.June, 21), MidnightSun},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := SunTimesFor(Coordinate{Latitude: tt.lat, Longitude: 20}, tt.date)
			if st.Condition != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, st.Condition)
			}
			if st.Sunrise != nil || st.Sunset != nil {
				t.Fatalf("expected no rise/set times for %s", tt.want)
			}
		})
	}
}

func TestSunTimesKeepsDateLocation(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	st := SunTimesFor(Coordinate{Latitude: 40, Longitude: -74}, time.Date(2024, time.May, 1, 9, 0, 0, 0, loc))
	if st.Sunrise.Location() != loc {
		t.Fatalf("expected sunrise in caller location")
	}
	if h := st.Sunrise.Hour(); h < 4 || h > 7 {
		t.Fatalf("expected local sunrise around 6am in New York, got %s", st.Sunrise)
	}
}

func TestMoonPhaseKnownDates(t *testing.T) {
	tests := []struct {
		date time.Time
		want PhaseName
	}{
		{day(2024, time.January, 25), FullMoon},
		{day(2024, time.January, 21), WaxingGibbous},
		{day(2024, time.March, 5), WaningCrescent},
	}
	for _, tt := range tests {
		got := MoonPhaseOn(tt.date)
		if got.Name != tt.want {
			t.Errorf("%s: expected %s, got %s (fraction %.3f)", tt.date.Format(time.DateOnly), tt.want, got.Name, got.PhaseFraction)
		}
	}
}

func TestMoonPhaseRanges(t *testing.T) {
	start := day(2020, time.January, 1)
	for i := 0; i < 3*366; i++ {
		m := MoonPhaseOn(start.AddDate(0, 0, i))
		if m.DayIndex < 0 || m.DayIndex > 29 {
			t.Fatalf("day index out of range: %d", m.DayIndex)
		}
		if m.PhaseFraction < 0 || m.PhaseFraction >= 1 {
			t.Fatalf("phase fraction out of range: %f", m.PhaseFraction)
		}
		if m.IlluminationPercent < 0 || m.IlluminationPercent > 100 {
			t.Fatalf("illumination out of range: %d", m.IlluminationPercent)
		}
		if m.FishingRating < 1 || m.FishingRating > 5 {
			t.Fatalf("rating out of range: %d", m.FishingRating)
		}
	}
}

func TestMoonPhaseIsPeriodic(t *testing.T) {
	cycle := time.Duration(SynodicMonthDays * 24 * float64(time.Hour))
	for _, d := range []time.Time{day(2024, time.January, 21), day(2024, time.March, 5)} {
		a := MoonPhaseOn(d)
		b := MoonPhaseOn(d.Add(cycle))
		if a.Name != b.Name {
			t.Errorf("%s: expected same phase one cycle later, got %s and %s", d.Format(time.DateOnly), a.Name, b.Name)
		}
	}

	const tolerance = 3 / SynodicMonthDays
	start := day(2020, time.January, 1)
	for i := 0; i < 7*365; i++ {
		d := start.AddDate(0, 0, i)
		a := MoonPhaseOn(d).PhaseFraction
		b := MoonPhaseOn(d.Add(cycle)).PhaseFraction
		diff := math.Abs(a - b)
		diff = math.Min(diff, 1-diff)
		if diff > tolerance {
			t.Fatalf("%s: phase drifted %.3f over one cycle", d.Format(time.DateOnly), diff)
		}
	}
}

func TestPhaseNameBands(t *testing.T) {
	tests := []struct {
		fraction float64
		want     PhaseName
	}{
		{0, NewMoon},
		{0.029, NewMoon},
		{0.03, WaxingCrescent},
		{0.25, FirstQuarter},
		{0.47, FullMoon},
		{0.529, FullMoon},
		{0.53, WaningGibbous},
		{0.75, LastQuarter},
		{0.9, WaningCrescent},
		{0.97, NewMoon},
	}
	for _, tt := range tests {
		if got := PhaseNameFor(tt.fraction); got != tt.want {
			t.Errorf("fraction %.3f: expected %s, got %s", tt.fraction, tt.want, got)
		}
	}
}

func TestFishingRating(t *testing.T) {
	tests := []struct {
		fraction float64
		want     int
	}{
		{0, 5},
		{0.04, 5},
		{0.5, 5},
		{0.98, 5},
		{0.08, 4},
		{0.35, 3},
		{0.25, 2},
		{0.75, 2},
	}
	for _, tt := range tests {
		if got := FishingRating(tt.fraction); got != tt.want {
			t.Errorf("fraction %.2f: expected rating %d, got %d", tt.fraction, tt.want, got)
		}
	}
	if Illumination(0) != 0 || Illumination(0.5) != 100 {
		t.Fatalf("expected 0%% at new and 100%% at full")
	}
}

func TestSimpleSolunarPeriods(t *testing.T) {
	var est SolunarEstimator = SimpleSolunar{}
	c := Coordinate{Latitude: 30, Longitude: -90}
	start := day(2024, time.January, 1)
	for i := 0; i < 62; i++ {
		d := start.AddDate(0, 0, i)
		periods, err := est.Periods(c, d)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var majors, minors []SolunarPeriod
		var covered time.Duration
		for _, p := range periods {
			if !p.End.After(p.Start) {
				t.Fatalf("%s: period end must be after start", d.Format(time.DateOnly))
			}
			covered += p.End.Sub(p.Start)
			switch p.Kind {
			case PeriodMajor:
				majors = append(majors, p)
			case PeriodMinor:
				minors = append(minors, p)
			}
		}
		if len(majors) != 2 || len(minors) != 2 {
			t.Fatalf("%s: expected 2 major and 2 minor, got %d and %d", d.Format(time.DateOnly), len(majors), len(minors))
		}
		if overlaps(majors[0], majors[1]) || overlaps(minors[0], minors[1]) {
			t.Fatalf("%s: windows of the same kind overlap", d.Format(time.DateOnly))
		}
		if covered != 6*time.Hour {
			t.Fatalf("%s: expected 6h of windows, got %s", d.Format(time.DateOnly), covered)
		}
	}
}

func TestSimpleSolunarRejectsInvalidCoordinate(t *testing.T) {
	_, err := SimpleSolunar{}.Periods(Coordinate{Latitude: math.NaN()}, day(2024, time.May, 1))
	if err != ErrInvalidCoordinate {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestActivePeriodPrefersMajor(t *testing.T) {
	base := day(2024, time.May, 1)
	periods := []SolunarPeriod{
		{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour), Kind: PeriodMinor},
		{Start: base.Add(90 * time.Minute), End: base.Add(3 * time.Hour), Kind: PeriodMajor},
	}
	if p := ActivePeriod(periods, base.Add(100*time.Minute)); p == nil || p.Kind != PeriodMajor {
		t.Fatalf("expected major period, got %+v", p)
	}
	if p := ActivePeriod(periods, base.Add(65*time.Minute)); p == nil || p.Kind != PeriodMinor {
		t.Fatalf("expected minor period, got %+v", p)
	}
	if p := ActivePeriod(periods, base.Add(5*time.Hour)); p != nil {
		t.Fatalf("expected no active period, got %+v", p)
	}
}

func TestDailyRating(t *testing.T) {
	tests := []struct {
		rating, hour, want int
	}{
		{3, 6, 4},
		{5, 18, 5},
		{3, 12, 2},
		{1, 13, 1},
		{3, 23, 3},
	}
	for _, tt := range tests {
		if got := DailyRating(MoonPhase{FishingRating: tt.rating}, tt.hour); got != tt.want {
			t.Errorf("rating %d hour %d: expected %d, got %d", tt.rating, tt.hour, tt.want, got)
		}
	}
}

func overlaps(a, b SolunarPeriod) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func TestCalculatorRejectsZeroDate(t *testing.T) {
	c := NewCalculator()
	if _, err := c.MoonPhase(time.Time{}); err != ErrInvalidDate {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := (Calculator{}).SolunarPeriods(Coordinate{}, time.Time{}); err != ErrInvalidDate {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	periods, err := (Calculator{}).SolunarPeriods(Coordinate{}, day(2024, time.May, 1))
	if err != nil || len(periods) != 4 {
		t.Fatalf("expected default estimator to produce 4 periods, got %d %v", len(periods), err)
	}
}
