package weather

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/fishcast/internal/metrics"
)

var (
	// ErrNoProviders is returned when the service was built without providers.
	ErrNoProviders = errors.New("no weather providers configured")
	// ErrNoData is returned when every provider failed.
	ErrNoData = errors.New("no weather data available")
)

// Service fans requests out to multiple providers and aggregates the results.
type Service struct {
	providers []Provider
	log       logrus.FieldLogger
}

// NewService creates a new Service.
func NewService(providers []Provider, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		providers: providers,
		log:       log.WithField("component", "weather"),
	}
}

// Providers returns the names of the configured providers.
func (s *Service) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name())
	}
	return names
}

// CurrentWeather fetches current conditions from all providers concurrently and
// aggregates the successful readings. Partial success is enough.
func (s *Service) CurrentWeather(ctx context.Context, lat, lon float64) (Snapshot, error) {
	loc := Location{Lat: lat, Lon: lon}
	if len(s.providers) == 0 {
		return Snapshot{}, ErrNoProviders
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings []ProviderReading
		errs     []error
	)

	s.log.WithField("location", loc.Key()).Debugf("fetching current weather from %d providers", len(s.providers))

	for _, p := range s.providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()

			r, err := p.Fetch(ctx, loc)
			metrics.ProviderCalls.WithLabelValues(p.Name(), metrics.Outcome(err)).Inc()

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.WithFields(logrus.Fields{"provider": p.Name(), "location": loc.Key()}).WithError(err).Warn("provider fetch failed")
				errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
				return
			}
			readings = append(readings, r)
		}(p)
	}

	wg.Wait()

	if len(readings) == 0 {
		return Snapshot{}, noData(errs)
	}
	return AggregateReadings(readings), nil
}

// DailyForecast fetches multi-day forecasts from providers that support it,
// aggregates them per calendar day, and returns at most days entries sorted
// by date.
func (s *Service) DailyForecast(ctx context.Context, lat, lon float64, days int) ([]DailyForecast, error) {
	loc := Location{Lat: lat, Lon: lon}
	if days <= 0 {
		return nil, fmt.Errorf("days must be greater than zero")
	}
	if len(s.providers) == 0 {
		return nil, ErrNoProviders
	}

	type dayKey string

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		byDay     = make(map[dayKey][]DailyForecast)
		dayStarts = make(map[dayKey]time.Time)
		errs      []error
	)

	for _, p := range s.providers {
		fp, ok := p.(ForecastProvider)
		if !ok {
			continue
		}

		wg.Add(1)
		go func(fp ForecastProvider) {
			defer wg.Done()

			entries, err := fp.FetchForecast(ctx, loc, days)
			metrics.ProviderCalls.WithLabelValues(fp.Name(), metrics.Outcome(err)).Inc()

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.WithFields(logrus.Fields{"provider": fp.Name(), "location": loc.Key()}).WithError(err).Warn("provider forecast failed")
				errs = append(errs, fmt.Errorf("%s: %w", fp.Name(), err))
				return
			}
			for _, e := range entries {
				k := dayKey(e.Date.Format(time.DateOnly))
				byDay[k] = append(byDay[k], e)
				if _, exists := dayStarts[k]; !exists {
					y, m, d := e.Date.Date()
					dayStarts[k] = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
				}
			}
		}(fp)
	}

	wg.Wait()

	if len(byDay) == 0 {
		return nil, noData(errs)
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	forecast := make([]DailyForecast, 0, days)
	for _, k := range keys {
		if len(forecast) >= days {
			break
		}
		forecast = append(forecast, AggregateDaily(dayStarts[dayKey(k)], byDay[dayKey(k)]))
	}
	return forecast, nil
}

func noData(errs []error) error {
	if len(errs) == 0 {
		return ErrNoData
	}
	return fmt.Errorf("%w: %w", ErrNoData, errors.Join(errs...))
}
