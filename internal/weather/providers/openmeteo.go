package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/fishcast/internal/common"
	"github.com/i474232898/fishcast/internal/weather"
)

const openMeteoLocalLayout = "2006-01-02T15:04"

// OpenMeteoProvider implements weather.ForecastProvider for Open-Meteo. It
// needs no API key and is always enabled.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: common.HTTPClientConfig{Client: client, Backoff: common.DefaultBackoff},
		circuit: common.NewBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoPayload struct {
	UTCOffsetSeconds int `json:"utc_offset_seconds"`
	Current          struct {
		Time          string   `json:"time"`
		Temperature   *float64 `json:"temperature_2m"`
		WindSpeed     *float64 `json:"wind_speed_10m"`
		CloudCover    *float64 `json:"cloud_cover"`
		Precipitation *float64 `json:"precipitation"`
		PressureMsl   *float64 `json:"pressure_msl"`
		WeatherCode   *int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Time          []string   `json:"time"`
		Sunrise       []string   `json:"sunrise"`
		Sunset        []string   `json:"sunset"`
		TempMax       []*float64 `json:"temperature_2m_max"`
		TempMin       []*float64 `json:"temperature_2m_min"`
		PressureMax   []*float64 `json:"pressure_msl_max"`
		PressureMin   []*float64 `json:"pressure_msl_min"`
		WindSpeedMax  []*float64 `json:"wind_speed_10m_max"`
		CloudCover    []*float64 `json:"cloud_cover_mean"`
		Precipitation []*float64 `json:"precipitation_sum"`
		WeatherCode   []*int     `json:"weather_code"`
	} `json:"daily"`
}

func (p *OpenMeteoProvider) get(ctx context.Context, loc weather.Location, values url.Values) (openMeteoPayload, error) {
	values.Set("latitude", strconv.FormatFloat(loc.Lat, 'f', 4, 64))
	values.Set("longitude", strconv.FormatFloat(loc.Lon, 'f', 4, 64))
	values.Set("wind_speed_unit", "mph")
	values.Set("timezone", "auto")

	var payload openMeteoPayload
	err := common.GetJSON(ctx, p.httpCfg, p.circuit, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), &payload)
	return payload, err
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	values := url.Values{}
	values.Set("current", "temperature_2m,wind_speed_10m,cloud_cover,precipitation,pressure_msl,weather_code")
	values.Set("daily", "sunrise,sunset")
	values.Set("forecast_days", "1")

	payload, err := p.get(ctx, loc, values)
	if err != nil {
		return weather.ProviderReading{}, err
	}

	zone := time.FixedZone("", payload.UTCOffsetSeconds)
	ts := time.Now().UTC()
	if parsed := parseLocal(payload.Current.Time, zone); parsed != nil {
		ts = parsed.UTC()
	}

	r := weather.ProviderReading{
		ProviderName:  p.name,
		Timestamp:     ts,
		TemperatureC:  payload.Current.Temperature,
		WindSpeedMph:  payload.Current.WindSpeed,
		CloudCoverPct: payload.Current.CloudCover,
		PrecipMm:      payload.Current.Precipitation,
		PressureHpa:   payload.Current.PressureMsl,
		WeatherCode:   payload.Current.WeatherCode,
	}
	if len(payload.Daily.Sunrise) > 0 {
		r.Sunrise = parseLocal(payload.Daily.Sunrise[0], zone)
	}
	if len(payload.Daily.Sunset) > 0 {
		r.Sunset = parseLocal(payload.Daily.Sunset[0], zone)
	}
	return r, nil
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) ([]weather.DailyForecast, error) {
	values := url.Values{}
	values.Set("daily", "temperature_2m_max,temperature_2m_min,pressure_msl_max,pressure_msl_min,wind_speed_10m_max,cloud_cover_mean,precipitation_sum,weather_code")
	values.Set("forecast_days", strconv.Itoa(days))

	payload, err := p.get(ctx, loc, values)
	if err != nil {
		return nil, err
	}

	d := payload.Daily
	out := make([]weather.DailyForecast, 0, len(d.Time))
	for i, day := range d.Time {
		date, err := time.Parse(time.DateOnly, day)
		if err != nil {
			continue
		}
		out = append(out, weather.DailyForecast{
			Date:          date,
			TempMax:       at(d.TempMax, i),
			TempMin:       at(d.TempMin, i),
			PressureMax:   at(d.PressureMax, i),
			PressureMin:   at(d.PressureMin, i),
			WindSpeedMax:  at(d.WindSpeedMax, i),
			CloudCover:    at(d.CloudCover, i),
			Precipitation: at(d.Precipitation, i),
			WeatherCode:   at(d.WeatherCode, i),
		})
	}
	return out, nil
}

// at returns s[i] or nil when the column is shorter than the time axis.
func at[T any](s []*T, i int) *T {
	if i < len(s) {
		return s[i]
	}
	return nil
}

func parseLocal(v string, zone *time.Location) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.ParseInLocation(openMeteoLocalLayout, v, zone)
	if err != nil {
		return nil
	}
	return &t
}
