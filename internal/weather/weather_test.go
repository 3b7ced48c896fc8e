package weather

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAggregateReadingsAveragesPresentFieldsOnly(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	readings := []ProviderReading{
		{ProviderName: "a", Timestamp: ts, TemperatureC: Float(10), WindSpeedMph: Float(4), WeatherCode: Int(3)},
		{ProviderName: "b", Timestamp: ts.Add(time.Minute), TemperatureC: Float(20), CloudCoverPct: Float(50), WeatherCode: Int(3)},
		{ProviderName: "c", Timestamp: ts, WeatherCode: Int(61)},
	}

	snap := AggregateReadings(readings)
	if snap.Temperature == nil || *snap.Temperature != 15 {
		t.Fatalf("expected temperature 15, got %v", snap.Temperature)
	}
	if snap.WindSpeed == nil || *snap.WindSpeed != 4 {
		t.Fatalf("expected wind 4 from the single reporting provider, got %v", snap.WindSpeed)
	}
	if snap.CloudCover == nil || *snap.CloudCover != 50 {
		t.Fatalf("expected cloud 50, got %v", snap.CloudCover)
	}
	if snap.PressureMsl != nil || snap.Precipitation != nil {
		t.Fatalf("expected missing fields to stay nil")
	}
	if snap.WeatherCode == nil || *snap.WeatherCode != 3 || snap.Condition != ConditionCloudy {
		t.Fatalf("expected majority code 3, got %v (%s)", snap.WeatherCode, snap.Condition)
	}
	if !snap.Timestamp.Equal(ts.Add(time.Minute)) {
		t.Fatalf("expected newest timestamp, got %s", snap.Timestamp)
	}
	if len(snap.Providers) != 3 {
		t.Fatalf("expected 3 contributions, got %d", len(snap.Providers))
	}
}

func TestAggregateReadingsEmpty(t *testing.T) {
	snap := AggregateReadings(nil)
	if snap.Condition != ConditionUnknown || snap.Temperature != nil {
		t.Fatalf("expected empty unknown snapshot, got %+v", snap)
	}
}

func TestAggregateDaily(t *testing.T) {
	date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	d := AggregateDaily(date, []DailyForecast{
		{PressureMax: Float(1020), PressureMin: Float(1010), WeatherCode: Int(61)},
		{PressureMax: Float(1022), Precipitation: Float(4), WeatherCode: Int(2)},
	})
	if *d.PressureMax != 1021 || *d.PressureMin != 1010 || *d.Precipitation != 4 {
		t.Fatalf("unexpected aggregate %+v", d)
	}
	// Ties resolve to the lowest code.
	if *d.WeatherCode != 2 {
		t.Fatalf("expected code 2 on tie, got %d", *d.WeatherCode)
	}
	if !d.Date.Equal(date) {
		t.Fatalf("expected date preserved")
	}
}

type stubProvider struct {
	name     string
	reading  ProviderReading
	forecast []DailyForecast
	err      error
}

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) Fetch(context.Context, Location) (ProviderReading, error) {
	return s.reading, s.err
}

type stubForecastProvider struct{ stubProvider }

func (s stubForecastProvider) FetchForecast(context.Context, Location, int) ([]DailyForecast, error) {
	return s.forecast, s.err
}

func TestServiceCurrentToleratesPartialFailure(t *testing.T) {
	svc := NewService([]Provider{
		stubProvider{name: "ok", reading: ProviderReading{ProviderName: "ok", TemperatureC: Float(12)}},
		stubProvider{name: "down", err: errors.New("boom")},
	}, nil)

	snap, err := svc.CurrentWeather(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *snap.Temperature != 12 {
		t.Fatalf("expected temperature from healthy provider, got %v", *snap.Temperature)
	}
}

func TestServiceCurrentAllFail(t *testing.T) {
	svc := NewService([]Provider{stubProvider{name: "down", err: errors.New("boom")}}, nil)
	if _, err := svc.CurrentWeather(context.Background(), 0, 0); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}

	empty := NewService(nil, nil)
	if _, err := empty.CurrentWeather(context.Background(), 0, 0); !errors.Is(err, ErrNoProviders) {
		t.Fatalf("expected ErrNoProviders, got %v", err)
	}
}

func TestServiceForecastGroupsByDay(t *testing.T) {
	d1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	svc := NewService([]Provider{
		stubForecastProvider{stubProvider{name: "a", forecast: []DailyForecast{
			{Date: d2, WindSpeedMax: Float(10)},
			{Date: d1, WindSpeedMax: Float(4)},
		}}},
		stubForecastProvider{stubProvider{name: "b", forecast: []DailyForecast{
			{Date: d1, WindSpeedMax: Float(8)},
		}}},
		stubProvider{name: "current-only"},
	}, nil)

	days, err := svc.DailyForecast(context.Background(), 0, 0, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if !days[0].Date.Equal(d1) || *days[0].WindSpeedMax != 6 {
		t.Fatalf("unexpected first day %+v", days[0])
	}

	limited, _ := svc.DailyForecast(context.Background(), 0, 0, 1)
	if len(limited) != 1 {
		t.Fatalf("expected forecast truncated to 1 day, got %d", len(limited))
	}

	if _, err := svc.DailyForecast(context.Background(), 0, 0, 0); err == nil {
		t.Fatalf("expected error for zero days")
	}
}

func TestCodeMappings(t *testing.T) {
	tests := []struct {
		code int
		cond Condition
		icon string
	}{
		{0, ConditionClear, "sun"},
		{2, ConditionCloudy, "cloud_sun"},
		{3, ConditionCloudy, "cloud"},
		{45, ConditionMist, "fog"},
		{63, ConditionRain, "rain"},
		{81, ConditionRain, "rain"},
		{73, ConditionSnow, "snow"},
		{95, ConditionStorm, "storm"},
	}
	for _, tt := range tests {
		if got := ConditionForCode(tt.code); got != tt.cond {
			t.Errorf("code %d: expected condition %s, got %s", tt.code, tt.cond, got)
		}
		if got := IconForCode(tt.code); got != tt.icon {
			t.Errorf("code %d: expected icon %s, got %s", tt.code, tt.icon, got)
		}
	}
}

func TestServiceProvidersListsNamesInOrder(t *testing.T) {
	svc := NewService([]Provider{
		stubProvider{name: "open-meteo"},
		stubForecastProvider{stubProvider{name: "weatherapi"}},
	}, nil)

	got := svc.Providers()
	if len(got) != 2 || got[0] != "open-meteo" || got[1] != "weatherapi" {
		t.Fatalf("unexpected providers %v", got)
	}
	if len(NewService(nil, nil).Providers()) != 0 {
		t.Fatalf("expected no providers")
	}
}
