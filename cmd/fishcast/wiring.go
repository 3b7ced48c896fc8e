package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/fishcast/internal/config"
	"github.com/i474232898/fishcast/internal/fishcast"
	"github.com/i474232898/fishcast/internal/geo"
	"github.com/i474232898/fishcast/internal/store"
	"github.com/i474232898/fishcast/internal/tide"
	"github.com/i474232898/fishcast/internal/weather"
	"github.com/i474232898/fishcast/internal/weather/providers"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newCache builds the configured cache backend. The returned closer releases
// any connection it holds.
func newCache(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger) (store.Cache, io.Closer, error) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		c := store.NewRedisCache(rdb, "fishcast:")
		if err := c.Ping(ctx); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return c, c, nil
	case config.CacheSQLite:
		c, err := store.NewSQLiteCache(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if n, err := c.Purge(ctx); err != nil {
			log.WithError(err).Warn("purging expired cache entries failed")
		} else if n > 0 {
			log.WithField("removed", n).Info("purged expired cache entries")
		}
		return c, c, nil
	case config.CacheNone:
		return store.Noop{}, nopCloser{}, nil
	default:
		return store.NewMemoryCache(cfg.CacheMaxEntries), nopCloser{}, nil
	}
}

// newWeather registers Open-Meteo always and the keyed providers when their
// key is set.
func newWeather(cfg *config.AppConfig, client *http.Client, log logrus.FieldLogger) *weather.Service {
	provs := []weather.Provider{providers.NewOpenMeteoProvider(client)}
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(client, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(client, cfg.WeatherAPIKey))
	}
	svc := weather.NewService(provs, log)
	log.WithField("providers", svc.Providers()).Info("weather providers configured")
	return svc
}

func newResolver(cfg *config.AppConfig) geo.Resolver {
	if cfg.GeocoderAPIKey == "" {
		return geo.Disabled{}
	}
	return geo.NewGoogleResolver(cfg.GeocoderAPIKey)
}

// newService assembles the prediction service from configuration.
func newService(ctx context.Context, cfg *config.AppConfig, log *logrus.Logger) (*fishcast.Service, io.Closer, error) {
	// Shared HTTP client for outbound provider calls.
	client := &http.Client{Timeout: cfg.HTTPTimeout}

	cache, closer, err := newCache(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	var tides tide.Provider = tide.Noop{}
	if cfg.TideEnabled {
		tides = tide.NewNOAAClient(client, cfg.TideMaxStationKm, log)
	}

	svc := fishcast.NewService(
		newWeather(cfg, client, log),
		fishcast.WithTideProvider(tides),
		fishcast.WithCache(cache),
		fishcast.WithLogger(log),
		fishcast.WithTTLs(cfg.ScoreTTL, cfg.OutlookTTL),
		fishcast.WithRequestTimeout(cfg.RequestTimeout),
	)
	log.WithFields(logrus.Fields{
		"cache": cfg.CacheBackend,
		"tide":  cfg.TideEnabled,
	}).Debug("service assembled")
	return svc, closer, nil
}

func startupContext(cfg *config.AppConfig) (context.Context, context.CancelFunc) {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}
