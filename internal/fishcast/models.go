// Package fishcast turns weather, tide and astronomical signals into a
// 0-100 fishing quality score, with species adjustment and a daily outlook.
package fishcast

import (
	"time"

	"github.com/i474232898/fishcast/internal/astro"
	"github.com/i474232898/fishcast/internal/tide"
	"github.com/i474232898/fishcast/internal/weather"
)

// Factor identifies one weighted input of the score.
type Factor string

const (
	FactorPressure      Factor = "pressure"
	FactorMoonPhase     Factor = "moonPhase"
	FactorSolunarPeriod Factor = "solunarPeriod"
	FactorWind          Factor = "wind"
	FactorTimeOfDay     Factor = "timeOfDay"
	FactorTideState     Factor = "tideState"
	FactorCloudCover    Factor = "cloudCover"
	FactorPrecipitation Factor = "precipitation"
)

// Weight is a factor's share of the aggregate score.
type Weight struct {
	Factor Factor  `json:"factor"`
	Weight float64 `json:"weight"`
}

// Weights lists every factor in descending order of influence. They sum to 1.
var Weights = []Weight{
	{FactorPressure, 0.20},
	{FactorMoonPhase, 0.15},
	{FactorSolunarPeriod, 0.15},
	{FactorWind, 0.12},
	{FactorTimeOfDay, 0.12},
	{FactorTideState, 0.10},
	{FactorCloudCover, 0.08},
	{FactorPrecipitation, 0.08},
}

// ScoreFactors holds the 0-100 sub-score of every factor.
type ScoreFactors map[Factor]int

// Label is the human-readable rating of a score.
type Label string

const (
	LabelExcellent Label = "Excellent"
	LabelVeryGood  Label = "Very Good"
	LabelGood      Label = "Good"
	LabelFair      Label = "Fair"
	LabelPoor      Label = "Poor"
)

// LabelBand assigns Label to scores of at least Min.
type LabelBand struct {
	Min   int   `json:"min"`
	Label Label `json:"label"`
}

// Labels is ordered from the highest band down.
var Labels = []LabelBand{
	{85, LabelExcellent},
	{70, LabelVeryGood},
	{55, LabelGood},
	{40, LabelFair},
	{0, LabelPoor},
}

// LabelFor returns the label of score.
func LabelFor(score int) Label {
	for _, b := range Labels {
		if score >= b.Min {
			return b.Label
		}
	}
	return LabelPoor
}

// WeatherSummary is the weather input recorded on a result.
type WeatherSummary struct {
	Temperature   *float64          `json:"temperatureC,omitempty"`
	WindSpeed     *float64          `json:"windSpeedMph,omitempty"`
	CloudCover    *float64          `json:"cloudCoverPercent,omitempty"`
	Precipitation *float64          `json:"precipitationMm,omitempty"`
	PressureMsl   *float64          `json:"pressureMsl,omitempty"`
	Sunrise       *time.Time        `json:"sunrise,omitempty"`
	Sunset        *time.Time        `json:"sunset,omitempty"`
	WeatherCode   *int              `json:"weatherCode,omitempty"`
	Condition     weather.Condition `json:"condition,omitempty"`
	Icon          string            `json:"icon,omitempty"`
}

// SolunarSummary is the astronomical input recorded on a result.
type SolunarSummary struct {
	MoonPhase    astro.MoonPhase       `json:"moonPhase"`
	DailyRating  int                   `json:"dailyRating"`
	Periods      []astro.SolunarPeriod `json:"periods"`
	ActivePeriod *astro.SolunarPeriod  `json:"activePeriod,omitempty"`
	Sun          astro.SunTimes        `json:"sun"`
}

// SpeciesAdjustment records how a species profile changed a result.
type SpeciesAdjustment struct {
	Key           SpeciesKey `json:"key"`
	Name          string     `json:"name"`
	OriginalScore int        `json:"originalScore"`
	Multiplier    float64    `json:"multiplier"`
	Insights      []string   `json:"insights"`
}

// FishCastResult is the score for one place and instant.
type FishCastResult struct {
	Score        int                `json:"score"`
	Label        Label              `json:"label"`
	Factors      ScoreFactors       `json:"factors"`
	Coordinate   astro.Coordinate   `json:"coordinate"`
	Weather      *WeatherSummary    `json:"weather,omitempty"`
	Solunar      *SolunarSummary    `json:"solunar,omitempty"`
	Tide         *tide.State        `json:"tide,omitempty"`
	CalculatedAt time.Time          `json:"calculatedAt"`
	EvaluatedAt  time.Time          `json:"evaluatedAt"`
	Error        string             `json:"error,omitempty"`
	Species      *SpeciesAdjustment `json:"species,omitempty"`
}

// Degraded reports whether the result is the neutral fallback.
func (r FishCastResult) Degraded() bool {
	return r.Error != ""
}

// DailyOutlookEntry is one day of the outlook.
type DailyOutlookEntry struct {
	Date        time.Time    `json:"date"`
	DayName     string       `json:"dayName"`
	Score       int          `json:"score"`
	Label       Label        `json:"label"`
	Factors     ScoreFactors `json:"factors"`
	HighTemp    *float64     `json:"highTempC,omitempty"`
	LowTemp     *float64     `json:"lowTempC,omitempty"`
	WeatherCode *int         `json:"weatherCode,omitempty"`
	Icon        string       `json:"icon"`
}
