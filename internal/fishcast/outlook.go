package fishcast

import (
	"time"

	"github.com/i474232898/fishcast/internal/astro"
	"github.com/i474232898/fishcast/internal/weather"
)

// OutlookTimeOfDayScore and OutlookTideScore stand in for inputs that have
// no meaning at daily resolution.
const (
	OutlookTimeOfDayScore = 60
	OutlookTideScore      = NeutralScore
)

// Project scores each forecast day with the reduced daily model. The output
// has one entry per input day, in input order.
func (e *Engine) Project(coord astro.Coordinate, days []weather.DailyForecast) []DailyOutlookEntry {
	coord = coord.Clamped()
	out := make([]DailyOutlookEntry, 0, len(days))
	for _, d := range days {
		out = append(out, e.projectDay(coord, d))
	}
	return out
}

func (e *Engine) projectDay(coord astro.Coordinate, d weather.DailyForecast) DailyOutlookEntry {
	moonScore := e.dailyMoonScore(d.Date)

	factors := ScoreFactors{
		FactorPressure:      PressureScore(meanPressure(d.PressureMin, d.PressureMax)),
		FactorWind:          WindScore(d.WindSpeedMax),
		FactorCloudCover:    CloudCoverScore(d.CloudCover),
		FactorPrecipitation: PrecipitationScore(d.Precipitation),
		FactorTimeOfDay:     OutlookTimeOfDayScore,
		FactorTideState:     OutlookTideScore,
		FactorMoonPhase:     moonScore,
		FactorSolunarPeriod: moonScore,
	}
	score := Aggregate(factors)

	entry := DailyOutlookEntry{
		Date:        d.Date,
		DayName:     d.Date.Weekday().String(),
		Score:       score,
		Label:       LabelFor(score),
		Factors:     factors,
		HighTemp:    d.TempMax,
		LowTemp:     d.TempMin,
		WeatherCode: d.WeatherCode,
		Icon:        weather.IconForCode(-1),
	}
	if d.WeatherCode != nil {
		entry.Icon = weather.IconForCode(*d.WeatherCode)
	}
	return entry
}

// dailyMoonScore isolates a failing astronomy call to the one day.
func (e *Engine) dailyMoonScore(date time.Time) (score int) {
	defer func() {
		if r := recover(); r != nil {
			score = NeutralScore
		}
	}()
	moon, err := e.sky.MoonPhase(date)
	if err != nil {
		return NeutralScore
	}
	return MoonScore(moon.FishingRating)
}

func meanPressure(low, high *float64) *float64 {
	lo, okLo := present(low)
	hi, okHi := present(high)
	switch {
	case okLo && okHi:
		return weather.Float((lo + hi) / 2)
	case okLo:
		return weather.Float(lo)
	case okHi:
		return weather.Float(hi)
	default:
		return nil
	}
}
