package fishcast

import (
	"testing"
	"time"

	"github.com/i474232898/fishcast/internal/astro"
	"github.com/i474232898/fishcast/internal/weather"
)

func forecastDays(n int) []weather.DailyForecast {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	days := make([]weather.DailyForecast, n)
	for i := range days {
		days[i] = weather.DailyForecast{
			Date:          start.AddDate(0, 0, i),
			TempMax:       weather.Float(22),
			TempMin:       weather.Float(12),
			PressureMax:   weather.Float(1020),
			PressureMin:   weather.Float(1014),
			WindSpeedMax:  weather.Float(10),
			CloudCover:    weather.Float(60),
			Precipitation: weather.Float(1),
			WeatherCode:   weather.Int(2),
		}
	}
	return days
}

func TestProjectScoresEachDay(t *testing.T) {
	e := NewEngine(WithAstronomy(fixedSky{rating: 5}))
	entries := e.Project(astro.Coordinate{Latitude: 30, Longitude: -90}, forecastDays(7))

	if len(entries) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(entries))
	}
	// pressure 90, wind 75, cloud 80, precip 85, time 60, tide 50, moon 100, solunar 100
	e0 := entries[0]
	if e0.Score != 82 || e0.Label != LabelVeryGood {
		t.Fatalf("expected 82 Very Good, got %d %s", e0.Score, e0.Label)
	}
	if e0.DayName != "Wednesday" || e0.Icon != "cloud_sun" || *e0.HighTemp != 22 {
		t.Fatalf("unexpected entry %+v", e0)
	}
	if e0.Factors[FactorSolunarPeriod] != e0.Factors[FactorMoonPhase] {
		t.Fatalf("expected solunar factor to follow the moon score")
	}
}

func TestProjectIsolatesFailingDay(t *testing.T) {
	e := NewEngine(WithAstronomy(fixedSky{rating: 5, panicOn: "2024-05-03"}))
	entries := e.Project(astro.Coordinate{}, forecastDays(5))

	if len(entries) != 5 {
		t.Fatalf("expected output length to match input, got %d", len(entries))
	}
	bad := entries[2]
	if bad.Factors[FactorMoonPhase] != NeutralScore || bad.Factors[FactorSolunarPeriod] != NeutralScore {
		t.Fatalf("expected neutral astronomy for the failing day, got %+v", bad.Factors)
	}
	if bad.Factors[FactorWind] != 75 {
		t.Fatalf("expected weather factors unaffected")
	}
	for i, entry := range entries {
		if i != 2 && entry.Factors[FactorMoonPhase] != 100 {
			t.Fatalf("day %d should not be affected", i)
		}
	}
}

func TestProjectHandlesMissingFields(t *testing.T) {
	e := NewEngine(WithAstronomy(fixedSky{moonErr: astro.ErrInvalidDate}))
	entries := e.Project(astro.Coordinate{}, []weather.DailyForecast{{Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), PressureMax: weather.Float(1040)}})

	f := entries[0].Factors
	if f[FactorPressure] != 30 || f[FactorWind] != NeutralScore || f[FactorMoonPhase] != NeutralScore {
		t.Fatalf("unexpected factors %+v", f)
	}
	if entries[0].Icon != "cloud" {
		t.Fatalf("expected fallback icon, got %s", entries[0].Icon)
	}
	if got := e.Project(astro.Coordinate{}, nil); len(got) != 0 {
		t.Fatalf("expected empty outlook for empty forecast")
	}
}
