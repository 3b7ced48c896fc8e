package tide

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/i474232898/fishcast/internal/common"
	"github.com/i474232898/fishcast/internal/metrics"
)

const (
	noaaStationsURL = "https://api.tidesandcurrents.noaa.gov/mdapi/prod/webapi/stations.json"
	noaaDataURL     = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"
	noaaTimeLayout  = "2006-01-02 15:04"
	earthRadiusKm   = 6371.0
)

// Station is a NOAA tide-prediction station.
type Station struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lng"`
}

// NOAAClient implements Provider against the NOAA CO-OPS APIs. The station
// list is fetched once and kept in memory.
type NOAAClient struct {
	stationsURL string
	dataURL     string
	maxKm       float64
	httpCfg     common.HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
	log         logrus.FieldLogger

	mu       sync.Mutex
	stations []Station
}

// NewNOAAClient creates a client that only considers stations within maxKm.
func NewNOAAClient(client *http.Client, maxKm float64, log logrus.FieldLogger) *NOAAClient {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &NOAAClient{
		stationsURL: noaaStationsURL,
		dataURL:     noaaDataURL,
		maxKm:       maxKm,
		httpCfg:     common.HTTPClientConfig{Client: client, Backoff: common.DefaultBackoff},
		circuit:     common.NewBreaker("noaa"),
		log:         log.WithField("component", "tide"),
	}
}

// CurrentTideState returns the tide at the nearest station for the instant at.
func (c *NOAAClient) CurrentTideState(ctx context.Context, lat, lon float64, at time.Time) (State, error) {
	st, err := c.nearestStation(ctx, lat, lon)
	if err != nil {
		return State{State: Unknown}, err
	}

	extremes, err := c.predictions(ctx, st.ID, at.Add(-24*time.Hour), at.Add(24*time.Hour))
	metrics.ProviderCalls.WithLabelValues("noaa", metrics.Outcome(err)).Inc()
	if err != nil {
		return State{State: Unknown}, fmt.Errorf("%w: station %s: %w", ErrUnavailable, st.ID, err)
	}

	state := StateAt(extremes, at)
	state.Station = st.Name
	c.log.WithFields(logrus.Fields{"station": st.ID, "state": state.State}).Debug("tide state resolved")
	return state, nil
}

func (c *NOAAClient) nearestStation(ctx context.Context, lat, lon float64) (Station, error) {
	stations, err := c.loadStations(ctx)
	if err != nil {
		return Station{}, err
	}

	best, bestKm := Station{}, math.Inf(1)
	for _, s := range stations {
		if d := distanceKm(lat, lon, s.Lat, s.Lon); d < bestKm {
			best, bestKm = s, d
		}
	}
	if bestKm > c.maxKm {
		return Station{}, ErrNoStation
	}
	return best, nil
}

func (c *NOAAClient) loadStations(ctx context.Context) ([]Station, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stations != nil {
		return c.stations, nil
	}

	var payload struct {
		Stations []Station `json:"stations"`
	}
	u := fmt.Sprintf("%s?%s", c.stationsURL, url.Values{"type": {"tidepredictions"}}.Encode())
	if err := common.GetJSON(ctx, c.httpCfg, c.circuit, u, &payload); err != nil {
		return nil, fmt.Errorf("%w: load stations: %w", ErrUnavailable, err)
	}
	c.stations = payload.Stations
	c.log.Infof("loaded %d tide stations", len(c.stations))
	return c.stations, nil
}

func (c *NOAAClient) predictions(ctx context.Context, stationID string, from, to time.Time) ([]Extreme, error) {
	values := url.Values{}
	values.Set("product", "predictions")
	values.Set("datum", "MLLW")
	values.Set("interval", "hilo")
	values.Set("units", "metric")
	values.Set("time_zone", "gmt")
	values.Set("format", "json")
	values.Set("application", "fishcast")
	values.Set("station", stationID)
	values.Set("begin_date", from.UTC().Format("20060102 15:04"))
	values.Set("end_date", to.UTC().Format("20060102 15:04"))

	var payload struct {
		Predictions []struct {
			Time   string `json:"t"`
			Height string `json:"v"`
			Type   string `json:"type"`
		} `json:"predictions"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := common.GetJSON(ctx, c.httpCfg, c.circuit, fmt.Sprintf("%s?%s", c.dataURL, values.Encode()), &payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("noaa: %s", payload.Error.Message)
	}

	out := make([]Extreme, 0, len(payload.Predictions))
	for _, p := range payload.Predictions {
		t, err := time.Parse(noaaTimeLayout, p.Time)
		if err != nil {
			continue
		}
		h, err := strconv.ParseFloat(p.Height, 64)
		if err != nil {
			continue
		}
		kind := High
		if p.Type == string(Low) {
			kind = Low
		}
		out = append(out, Extreme{Time: t, Kind: kind, HeightMeters: h})
	}
	return out, nil
}

// distanceKm is the great-circle distance between two points.
func distanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
