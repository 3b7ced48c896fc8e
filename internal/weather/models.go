package weather

import (
	"fmt"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Location is a point for which weather is fetched.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Key returns a canonical string key for logging and grouping.
func (l Location) Key() string {
	return fmt.Sprintf("%.2f,%.2f", l.Lat, l.Lon)
}

// Snapshot is the normalized, aggregated weather view at a point in time.
// Any measurement may be missing; consumers substitute neutral values.
//
// Units: temperature °C, wind mph, cloud cover %, precipitation mm, pressure hPa.
type Snapshot struct {
	Timestamp     time.Time  `json:"timestamp"`
	Temperature   *float64   `json:"temperatureC,omitempty"`
	WindSpeed     *float64   `json:"windSpeedMph,omitempty"`
	CloudCover    *float64   `json:"cloudCoverPercent,omitempty"`
	Precipitation *float64   `json:"precipitationMm,omitempty"`
	PressureMsl   *float64   `json:"pressureMsl,omitempty"`
	Sunrise       *time.Time `json:"sunrise,omitempty"`
	Sunset        *time.Time `json:"sunset,omitempty"`
	WeatherCode   *int       `json:"weatherCode,omitempty"`
	Condition     Condition  `json:"condition"`

	// Providers contributing to this snapshot.
	Providers []ProviderContribution `json:"providers,omitempty"`
}

// DailyForecast is one day of aggregated forecast data.
type DailyForecast struct {
	Date          time.Time `json:"date"`
	TempMax       *float64  `json:"tempMaxC,omitempty"`
	TempMin       *float64  `json:"tempMinC,omitempty"`
	PressureMax   *float64  `json:"pressureMax,omitempty"`
	PressureMin   *float64  `json:"pressureMin,omitempty"`
	WindSpeedMax  *float64  `json:"windSpeedMaxMph,omitempty"`
	CloudCover    *float64  `json:"cloudCoverPercent,omitempty"`
	Precipitation *float64  `json:"precipitationMm,omitempty"`
	WeatherCode   *int      `json:"weatherCode,omitempty"`
}

// ProviderContribution describes data coming from a single provider used in aggregation.
type ProviderContribution struct {
	ProviderName string    `json:"provider"`
	Timestamp    time.Time `json:"timestamp"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
