package weather

import (
	"context"
	"time"
)

// ProviderReading represents a single provider's normalized reading
// that can be aggregated into a Snapshot.
type ProviderReading struct {
	ProviderName string
	Timestamp    time.Time

	TemperatureC  *float64
	WindSpeedMph  *float64
	CloudCoverPct *float64
	PrecipMm      *float64
	PressureHpa   *float64
	Sunrise       *time.Time
	Sunset        *time.Time
	WeatherCode   *int
}

// Provider abstracts a weather data source (e.g. Open-Meteo, OpenWeatherMap, WeatherAPI).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (ProviderReading, error)
}

// ForecastProvider is implemented by providers that can also return a
// multi-day daily forecast.
type ForecastProvider interface {
	Provider
	FetchForecast(ctx context.Context, loc Location, days int) ([]DailyForecast, error)
}
