package astro

import (
	"math"
	"time"
)

// DaylightCondition describes whether the sun rises and sets on a given day.
type DaylightCondition string

const (
	DaylightNormal DaylightCondition = "normal"
	PolarNight     DaylightCondition = "polarNight"
	MidnightSun    DaylightCondition = "midnightSun"
)

const (
	obliquityDeg     = 23.45
	goldenHourLength = time.Hour
)

// SunTimes is the result of the simplified solar model for one calendar day.
// Rise/set fields are nil when Condition is PolarNight or MidnightSun.
type SunTimes struct {
	Condition              DaylightCondition `json:"condition"`
	SolarNoon              time.Time         `json:"solarNoon"`
	Sunrise                *time.Time        `json:"sunrise,omitempty"`
	Sunset                 *time.Time        `json:"sunset,omitempty"`
	GoldenHourMorningEnd   *time.Time        `json:"goldenHourMorningEnd,omitempty"`
	GoldenHourEveningStart *time.Time        `json:"goldenHourEveningStart,omitempty"`
	DayLengthMinutes       float64           `json:"dayLengthMinutes"`
}

// EquationOfTime returns the equation-of-time correction in minutes for the
// given day of year.
func EquationOfTime(dayOfYear int) float64 {
	b := 2 * math.Pi * float64(dayOfYear-81) / 364
	return 9.87*math.Sin(2*b) - 7.53*math.Cos(b) - 1.5*math.Sin(b)
}

// Declination returns the solar declination in degrees for the given day of year.
func Declination(dayOfYear int) float64 {
	return obliquityDeg * math.Sin(2*math.Pi*float64(284+dayOfYear)/365)
}

// SunTimesFor computes sunrise, sunset, solar noon and golden hours for the
// calendar day of date at coordinate c. Results are expressed in date's location.
func SunTimesFor(c Coordinate, date time.Time) SunTimes {
	c = c.Clamped()
	loc := date.Location()
	y, m, d := date.Date()
	n := date.YearDay()

	midnightUTC := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	at := func(minutes float64) time.Time {
		return midnightUTC.Add(time.Duration(minutes * float64(time.Minute))).In(loc)
	}

	noon := 720 - 4*c.Longitude - EquationOfTime(n)
	out := SunTimes{
		Condition: DaylightNormal,
		SolarNoon: at(noon),
	}

	cosOmega := -math.Tan(degToRad(c.Latitude)) * math.Tan(degToRad(Declination(n)))
	if math.IsNaN(cosOmega) {
		cosOmega = 0
	}
	switch {
	case cosOmega > 1:
		out.Condition = PolarNight
		return out
	case cosOmega < -1:
		out.Condition = MidnightSun
		out.DayLengthMinutes = 24 * 60
		return out
	}

	omega := radToDeg(math.Acos(cosOmega))
	rise := at(noon - 4*omega)
	set := at(noon + 4*omega)
	morningEnd := rise.Add(goldenHourLength)
	eveningStart := set.Add(-goldenHourLength)

	out.Sunrise = &rise
	out.Sunset = &set
	out.GoldenHourMorningEnd = &morningEnd
	out.GoldenHourEveningStart = &eveningStart
	out.DayLengthMinutes = 8 * omega
	return out
}
