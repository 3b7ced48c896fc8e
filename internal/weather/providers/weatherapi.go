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

// WeatherAPIProvider implements weather.ForecastProvider for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1",
		httpCfg: common.HTTPClientConfig{Client: client, Backoff: common.DefaultBackoff},
		circuit: common.NewBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPICondition struct {
	Text string `json:"text"`
}

func (p *WeatherAPIProvider) endpoint(path string, loc weather.Location, extra url.Values) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("weatherapi api key is not configured")
	}
	values := url.Values{}
	for k, v := range extra {
		values[k] = v
	}
	values.Set("key", p.apiKey)
	values.Set("q", fmt.Sprintf("%s,%s",
		strconv.FormatFloat(loc.Lat, 'f', 4, 64),
		strconv.FormatFloat(loc.Lon, 'f', 4, 64)))
	return fmt.Sprintf("%s/%s?%s", p.baseURL, path, values.Encode()), nil
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	u, err := p.endpoint("current.json", loc, nil)
	if err != nil {
		return weather.ProviderReading{}, err
	}

	var payload struct {
		Current struct {
			LastUpdatedEpoch int64               `json:"last_updated_epoch"`
			TempC            *float64            `json:"temp_c"`
			WindMph          *float64            `json:"wind_mph"`
			Cloud            *float64            `json:"cloud"`
			PrecipMm         *float64            `json:"precip_mm"`
			PressureMb       *float64            `json:"pressure_mb"`
			Condition        weatherAPICondition `json:"condition"`
		} `json:"current"`
	}
	if err := common.GetJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.ProviderReading{}, err
	}

	ts := time.Now().UTC()
	if payload.Current.LastUpdatedEpoch > 0 {
		ts = time.Unix(payload.Current.LastUpdatedEpoch, 0).UTC()
	}

	return weather.ProviderReading{
		ProviderName:  p.name,
		Timestamp:     ts,
		TemperatureC:  payload.Current.TempC,
		WindSpeedMph:  payload.Current.WindMph,
		CloudCoverPct: payload.Current.Cloud,
		PrecipMm:      payload.Current.PrecipMm,
		PressureHpa:   payload.Current.PressureMb,
		WeatherCode:   weatherAPIToWMO(payload.Current.Condition.Text),
	}, nil
}

func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) ([]weather.DailyForecast, error) {
	u, err := p.endpoint("forecast.json", loc, url.Values{"days": {strconv.Itoa(days)}})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Forecast struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Day  struct {
					MaxTempC     *float64            `json:"maxtemp_c"`
					MinTempC     *float64            `json:"mintemp_c"`
					MaxWindMph   *float64            `json:"maxwind_mph"`
					TotalPrecipM *float64            `json:"totalprecip_mm"`
					Condition    weatherAPICondition `json:"condition"`
				} `json:"day"`
				Hour []struct {
					Cloud      *float64 `json:"cloud"`
					PressureMb *float64 `json:"pressure_mb"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}
	if err := common.GetJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, err
	}

	out := make([]weather.DailyForecast, 0, len(payload.Forecast.ForecastDay))
	for _, fd := range payload.Forecast.ForecastDay {
		date, err := time.Parse(time.DateOnly, fd.Date)
		if err != nil {
			continue
		}
		entry := weather.DailyForecast{
			Date:          date,
			TempMax:       fd.Day.MaxTempC,
			TempMin:       fd.Day.MinTempC,
			WindSpeedMax:  fd.Day.MaxWindMph,
			Precipitation: fd.Day.TotalPrecipM,
			WeatherCode:   weatherAPIToWMO(fd.Day.Condition.Text),
		}

		// Daily summaries carry neither cloud nor pressure; derive them from the hours.
		var cloudSum float64
		var cloudN int
		for _, h := range fd.Hour {
			if h.Cloud != nil {
				cloudSum += *h.Cloud
				cloudN++
			}
			if h.PressureMb != nil {
				v := *h.PressureMb
				if entry.PressureMax == nil || v > *entry.PressureMax {
					entry.PressureMax = weather.Float(v)
				}
				if entry.PressureMin == nil || v < *entry.PressureMin {
					entry.PressureMin = weather.Float(v)
				}
			}
		}
		if cloudN > 0 {
			entry.CloudCover = weather.Float(cloudSum / float64(cloudN))
		}
		out = append(out, entry)
	}
	return out, nil
}

// weatherAPIToWMO maps a WeatherAPI condition description to the closest WMO code.
func weatherAPIToWMO(text string) *int {
	switch {
	case text == "":
		return nil
	case common.HasAny(text, "thunder"):
		return weather.Int(95)
	case common.HasAny(text, "snow", "sleet", "blizzard", "ice pellets"):
		return weather.Int(71)
	case common.HasAny(text, "drizzle"):
		return weather.Int(51)
	case common.HasAny(text, "rain", "shower"):
		return weather.Int(61)
	case common.HasAny(text, "fog", "mist"):
		return weather.Int(45)
	case common.HasAny(text, "overcast"):
		return weather.Int(3)
	case common.HasAny(text, "cloud"):
		return weather.Int(2)
	case common.HasAny(text, "sunny", "clear"):
		return weather.Int(0)
	default:
		return nil
	}
}
