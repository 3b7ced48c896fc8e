package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/fishcast/internal/common"
	"github.com/i474232898/fishcast/internal/weather"
)

var fastBackoff = common.BackoffConfig{MaxRetries: 0, InitialInterval: time.Millisecond}

func TestOpenMeteoFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("wind_speed_unit") != "mph" {
			t.Errorf("expected mph wind unit, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{
			"utc_offset_seconds": -18000,
			"current": {"time": "2024-05-01T06:15", "temperature_2m": 14.2, "wind_speed_10m": 6.5,
				"cloud_cover": 40, "precipitation": 0, "pressure_msl": 1016.3, "weather_code": 2},
			"daily": {"time": ["2024-05-01"], "sunrise": ["2024-05-01T05:58"], "sunset": ["2024-05-01T19:52"]}
		}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client())
	p.baseURL = srv.URL
	p.httpCfg.Backoff = fastBackoff

	r, err := p.Fetch(context.Background(), weather.Location{Lat: 40.7, Lon: -74})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *r.TemperatureC != 14.2 || *r.WindSpeedMph != 6.5 || *r.PressureHpa != 1016.3 || *r.WeatherCode != 2 {
		t.Fatalf("unexpected reading %+v", r)
	}
	if want := time.Date(2024, 5, 1, 11, 15, 0, 0, time.UTC); !r.Timestamp.Equal(want) {
		t.Fatalf("expected %s, got %s", want, r.Timestamp)
	}
	if r.Sunrise == nil || r.Sunrise.UTC().Hour() != 10 {
		t.Fatalf("expected sunrise parsed in local offset, got %v", r.Sunrise)
	}
}

func TestOpenMeteoForecastHandlesNulls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily": {
			"time": ["2024-05-01", "2024-05-02"],
			"pressure_msl_max": [1020.1, null],
			"pressure_msl_min": [1012.0, 1008.4],
			"wind_speed_10m_max": [9.1, 12.3],
			"precipitation_sum": [0, 3.2],
			"weather_code": [1, 61]
		}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client())
	p.baseURL = srv.URL
	p.httpCfg.Backoff = fastBackoff

	days, err := p.FetchForecast(context.Background(), weather.Location{Lat: 1, Lon: 2}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[1].PressureMax != nil || *days[1].PressureMin != 1008.4 {
		t.Fatalf("expected null preserved, got %+v", days[1])
	}
	if days[0].TempMax != nil {
		t.Fatalf("expected missing column to be nil")
	}
	if *days[1].WeatherCode != 61 {
		t.Fatalf("expected code 61, got %d", *days[1].WeatherCode)
	}
}

func TestOpenWeatherFetchConvertsUnits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "secret" || r.URL.Query().Get("lat") == "" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"dt": 1714550400, "main": {"temp": 18, "pressure": 1011},
			"wind": {"speed": 2}, "clouds": {"all": 75}, "rain": {"1h": 0.4},
			"sys": {"sunrise": 1714557000, "sunset": 1714607000}, "weather": [{"id": 500}]}`))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "secret")
	p.baseURL = srv.URL
	p.httpCfg.Backoff = fastBackoff

	r, err := p.Fetch(context.Background(), weather.Location{Lat: 1, Lon: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := *r.WindSpeedMph; got < 4.47 || got > 4.48 {
		t.Fatalf("expected ~4.47 mph, got %f", got)
	}
	if *r.PressureHpa != 1011 || *r.PrecipMm != 0.4 || *r.WeatherCode != 61 {
		t.Fatalf("unexpected reading %+v", r)
	}
	if r.Sunrise == nil || r.Sunset == nil {
		t.Fatalf("expected sunrise and sunset")
	}
}

func TestOpenWeatherRequiresKey(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "")
	if _, err := p.Fetch(context.Background(), weather.Location{}); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestWeatherAPIForecastDerivesPressureAndCloud(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/forecast.json") || r.URL.Query().Get("days") != "3" {
			t.Errorf("unexpected request %s", r.URL)
		}
		w.Write([]byte(`{"forecast": {"forecastday": [{
			"date": "2024-05-01",
			"day": {"maxtemp_c": 21, "mintemp_c": 9, "maxwind_mph": 11, "totalprecip_mm": 2.5,
				"condition": {"text": "Patchy rain possible"}},
			"hour": [{"cloud": 20, "pressure_mb": 1015}, {"cloud": 60, "pressure_mb": 1009}]
		}]}}`))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "key")
	p.baseURL = srv.URL
	p.httpCfg.Backoff = fastBackoff

	days, err := p.FetchForecast(context.Background(), weather.Location{Lat: 1, Lon: 2}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	d := days[0]
	if *d.PressureMax != 1015 || *d.PressureMin != 1009 || *d.CloudCover != 40 || *d.WeatherCode != 61 {
		t.Fatalf("unexpected day %+v", d)
	}
}

func TestWeatherAPIConditionMapping(t *testing.T) {
	tests := map[string]int{
		"Sunny":                          0,
		"Partly cloudy":                  2,
		"Overcast":                       3,
		"Mist":                           45,
		"Light drizzle":                  51,
		"Moderate rain":                  61,
		"Light snow":                     71,
		"Thundery outbreaks possible":    95,
		"Patchy light rain with thunder": 95,
	}
	for text, want := range tests {
		got := weatherAPIToWMO(text)
		if got == nil || *got != want {
			t.Errorf("%q: expected %d, got %v", text, want, got)
		}
	}
	if weatherAPIToWMO("") != nil {
		t.Fatalf("expected nil for empty text")
	}
}
