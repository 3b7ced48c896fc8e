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

const metersPerSecondToMph = 2.23694

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap current conditions.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		httpCfg: common.HTTPClientConfig{Client: client, Backoff: common.DefaultBackoff},
		circuit: common.NewBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	if p.apiKey == "" {
		return weather.ProviderReading{}, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("lat", strconv.FormatFloat(loc.Lat, 'f', 4, 64))
	values.Set("lon", strconv.FormatFloat(loc.Lon, 'f', 4, 64))

	var payload struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     *float64 `json:"temp"`
			Pressure *float64 `json:"pressure"`
			SeaLevel *float64 `json:"sea_level"`
		} `json:"main"`
		Wind struct {
			Speed *float64 `json:"speed"`
		} `json:"wind"`
		Clouds struct {
			All *float64 `json:"all"`
		} `json:"clouds"`
		Rain struct {
			OneH   *float64 `json:"1h"`
			ThreeH *float64 `json:"3h"`
		} `json:"rain"`
		Snow struct {
			OneH *float64 `json:"1h"`
		} `json:"snow"`
		Sys struct {
			Sunrise int64 `json:"sunrise"`
			Sunset  int64 `json:"sunset"`
		} `json:"sys"`
		Weather []struct {
			ID int `json:"id"`
		} `json:"weather"`
	}
	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	if err := common.GetJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.ProviderReading{}, err
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	r := weather.ProviderReading{
		ProviderName:  p.name,
		Timestamp:     ts,
		TemperatureC:  payload.Main.Temp,
		CloudCoverPct: payload.Clouds.All,
		PressureHpa:   payload.Main.SeaLevel,
		Sunrise:       unixPtr(payload.Sys.Sunrise),
		Sunset:        unixPtr(payload.Sys.Sunset),
	}
	if r.PressureHpa == nil {
		r.PressureHpa = payload.Main.Pressure
	}
	if payload.Wind.Speed != nil {
		r.WindSpeedMph = weather.Float(*payload.Wind.Speed * metersPerSecondToMph)
	}

	// OWM omits the rain block entirely when it is dry.
	switch {
	case payload.Rain.OneH != nil:
		r.PrecipMm = payload.Rain.OneH
	case payload.Rain.ThreeH != nil:
		r.PrecipMm = weather.Float(*payload.Rain.ThreeH / 3)
	case payload.Snow.OneH != nil:
		r.PrecipMm = payload.Snow.OneH
	default:
		r.PrecipMm = weather.Float(0)
	}

	if len(payload.Weather) > 0 {
		r.WeatherCode = openWeatherToWMO(payload.Weather[0].ID)
	}
	return r, nil
}

// openWeatherToWMO maps an OWM condition id to the closest WMO code.
func openWeatherToWMO(id int) *int {
	switch {
	case id >= 200 && id < 300:
		return weather.Int(95)
	case id >= 300 && id < 400:
		return weather.Int(51)
	case id >= 500 && id < 600:
		return weather.Int(61)
	case id >= 600 && id < 700:
		return weather.Int(71)
	case id >= 700 && id < 800:
		return weather.Int(45)
	case id == 800:
		return weather.Int(0)
	case id == 801 || id == 802:
		return weather.Int(2)
	case id == 803 || id == 804:
		return weather.Int(3)
	default:
		return nil
	}
}

func unixPtr(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
