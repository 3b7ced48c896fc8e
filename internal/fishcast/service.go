package fishcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/i474232898/fishcast/internal/astro"
	"github.com/i474232898/fishcast/internal/metrics"
	"github.com/i474232898/fishcast/internal/store"
	"github.com/i474232898/fishcast/internal/tide"
	"github.com/i474232898/fishcast/internal/weather"
)

const (
	DefaultScoreTTL   = time.Hour
	DefaultOutlookTTL = 4 * time.Hour
	OutlookDays       = 7
)

// WeatherProvider is satisfied by *weather.Service.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (weather.Snapshot, error)
	DailyForecast(ctx context.Context, lat, lon float64, days int) ([]weather.DailyForecast, error)
}

// Service wires providers, cache and engine together.
type Service struct {
	engine  *Engine
	weather WeatherProvider
	tide    tide.Provider
	cache   store.Cache
	log     logrus.FieldLogger

	scoreTTL       time.Duration
	outlookTTL     time.Duration
	requestTimeout time.Duration

	group singleflight.Group
	now   func() time.Time
}

type Option func(*Service)

func WithTideProvider(p tide.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.tide = p
		}
	}
}

func WithCache(c store.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.log = l }
}

func WithEngine(e *Engine) Option {
	return func(s *Service) { s.engine = e }
}

func WithTTLs(score, outlook time.Duration) Option {
	return func(s *Service) {
		if score > 0 {
			s.scoreTTL = score
		}
		if outlook > 0 {
			s.outlookTTL = outlook
		}
	}
}

// WithRequestTimeout bounds the upstream calls of one calculation.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Service) { s.requestTimeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service. Tide and cache default to no-ops.
func NewService(w WeatherProvider, opts ...Option) *Service {
	s := &Service{
		weather:    w,
		tide:       tide.Noop{},
		cache:      store.Noop{},
		log:        logrus.StandardLogger(),
		scoreTTL:   DefaultScoreTTL,
		outlookTTL: DefaultOutlookTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = NewEngine(WithEngineClock(s.now))
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	s.log = s.log.WithField("component", "fishcast")
	return s
}

// ScoreKey is the cache key of a point score: rounded coordinate and UTC hour.
func ScoreKey(lat, lon float64, at time.Time) string {
	return fmt.Sprintf("fishcast:%.2f:%.2f:%s", lat, lon, at.UTC().Format("2006-01-02T15"))
}

// OutlookKey is the cache key of an outlook: rounded coordinate and UTC date.
func OutlookKey(lat, lon float64, day time.Time) string {
	return fmt.Sprintf("outlook:%.2f:%.2f:%s", lat, lon, day.UTC().Format(time.DateOnly))
}

// CalculateFishCast scores the coordinate at the instant at (now when zero).
// A defaulted instant is taken in UTC so the hour follows the longitude, not
// the server's zone. It never fails: upstream weather errors and panics yield the degraded
// result, tide errors a neutral tide factor.
func (s *Service) CalculateFishCast(ctx context.Context, lat, lon float64, at time.Time) (result FishCastResult) {
	coord := astro.Coordinate{Latitude: lat, Longitude: lon}.Clamped()
	if at.IsZero() {
		at = s.now().UTC()
	}
	log := s.log.WithFields(logrus.Fields{"lat": coord.Latitude, "lon": coord.Longitude})

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("recovered from panic while scoring: %v", r)
			result = s.engine.Degraded(coord, at, fmt.Errorf("internal error: %v", r))
			metrics.DegradedResults.Inc()
		}
	}()

	key := ScoreKey(coord.Latitude, coord.Longitude, at)
	var cached FishCastResult
	if s.lookup(ctx, "score", key, &cached) {
		return cached
	}

	// Coalesced callers share one computation; it must outlive the caller
	// that started it. compute bounds it with requestTimeout.
	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		return s.compute(context.WithoutCancel(ctx), coord, at, key, log), nil
	})
	return v.(FishCastResult)
}

func (s *Service) compute(ctx context.Context, coord astro.Coordinate, at time.Time, key string, log logrus.FieldLogger) (result FishCastResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("recovered from panic while scoring: %v", r)
			result = s.engine.Degraded(coord, at, fmt.Errorf("internal error: %v", r))
			metrics.DegradedResults.Inc()
		}
	}()

	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	var (
		snap       weather.Snapshot
		weatherErr error
		tideState  *tide.State
	)

	// Both calls always run to completion; neither error cancels the other.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				weatherErr = fmt.Errorf("weather provider panic: %v", r)
			}
		}()
		if s.weather == nil {
			weatherErr = weather.ErrNoProviders
			return nil
		}
		snap, weatherErr = s.weather.CurrentWeather(gctx, coord.Latitude, coord.Longitude)
		return nil
	})
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("tide provider panic: %v", r)
				tideState = nil
			}
		}()
		st, err := s.tide.CurrentTideState(gctx, coord.Latitude, coord.Longitude, at)
		if err != nil {
			if !errors.Is(err, tide.ErrUnavailable) && !errors.Is(err, tide.ErrNoStation) {
				log.WithError(err).Warn("tide lookup failed")
			} else {
				log.WithError(err).Debug("tide not available")
			}
			return nil
		}
		tideState = &st
		return nil
	})
	_ = g.Wait()

	if weatherErr != nil {
		log.WithError(weatherErr).Warn("weather unavailable, returning degraded result")
		metrics.DegradedResults.Inc()
		return s.engine.Degraded(coord, at, fmt.Errorf("weather unavailable: %w", weatherErr))
	}

	result = s.engine.Score(coord, at, &snap, tideState)
	metrics.Scores.Observe(float64(result.Score))
	s.save(ctx, key, result, s.scoreTTL)
	log.WithFields(logrus.Fields{"score": result.Score, "label": result.Label}).Debug("fishcast calculated")
	return result
}

// Calculate7DayOutlook projects the next seven days starting today.
func (s *Service) Calculate7DayOutlook(ctx context.Context, lat, lon float64) ([]DailyOutlookEntry, error) {
	coord := astro.Coordinate{Latitude: lat, Longitude: lon}.Clamped()
	key := OutlookKey(coord.Latitude, coord.Longitude, s.now())

	var cached []DailyOutlookEntry
	if s.lookup(ctx, "outlook", key, &cached) {
		return cached, nil
	}
	if s.weather == nil {
		return nil, weather.ErrNoProviders
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		fctx := context.WithoutCancel(ctx)
		if s.requestTimeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(fctx, s.requestTimeout)
			defer cancel()
		}
		days, err := s.weather.DailyForecast(fctx, coord.Latitude, coord.Longitude, OutlookDays)
		if err != nil {
			return nil, fmt.Errorf("daily forecast: %w", err)
		}
		entries := s.engine.Project(coord, days)
		s.save(fctx, key, entries, s.outlookTTL)
		return entries, nil
	})
	if err != nil {
		s.log.WithError(err).Warn("outlook unavailable")
		return nil, err
	}
	return v.([]DailyOutlookEntry), nil
}

// AdjustScoreForSpecies applies a species profile to a computed result.
func (s *Service) AdjustScoreForSpecies(result FishCastResult, species string, waterTemp *float64) FishCastResult {
	return Adjust(result, species, waterTemp)
}

// lookup decodes a cached entry into out. Cache errors count as misses.
func (s *Service) lookup(ctx context.Context, kind, key string, out any) bool {
	b, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache get failed")
		metrics.CacheLookups.WithLabelValues(kind, "error").Inc()
		return false
	}
	if !found {
		metrics.CacheLookups.WithLabelValues(kind, "miss").Inc()
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("discarding undecodable cache entry")
		metrics.CacheLookups.WithLabelValues(kind, "error").Inc()
		return false
	}
	metrics.CacheLookups.WithLabelValues(kind, "hit").Inc()
	return true
}

func (s *Service) save(ctx context.Context, key string, v any, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache encode failed")
		return
	}
	if err := s.cache.Set(ctx, key, b, ttl); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache set failed")
	}
}
