package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheSQLite = "sqlite"
	CacheNone   = "none"
)

type AppConfig struct {
	Port string

	// HTTPTimeout bounds a single outbound request; RequestTimeout bounds
	// all upstream work for one calculation.
	HTTPTimeout    time.Duration
	RequestTimeout time.Duration

	OpenWeatherAPIKey string
	WeatherAPIKey     string
	GeocoderAPIKey    string

	TideEnabled      bool
	TideMaxStationKm float64

	CacheBackend    string
	CacheMaxEntries int
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	SQLitePath      string

	ScoreTTL   time.Duration
	OutlookTTL time.Duration

	// WarmInterval controls how often configured spots are recomputed.
	WarmInterval time.Duration
	SpotsFile    string
	Spots        []Spot

	LogLevel  string
	LogFormat string
}

// Spot is a named location kept warm in the cache.
type Spot struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

var defaults = map[string]any{
	"PORT":                "8080",
	"HTTP_TIMEOUT":        "10s",
	"REQUEST_TIMEOUT":     "15s",
	"TIDE_ENABLED":        true,
	"TIDE_MAX_STATION_KM": 100.0,
	"CACHE_BACKEND":       CacheMemory,
	"CACHE_MAX_ENTRIES":   10000,
	"REDIS_ADDR":          "localhost:6379",
	"REDIS_DB":            0,
	"SQLITE_PATH":         "fishcast.db",
	"SCORE_TTL":           "1h",
	"OUTLOOK_TTL":         "4h",
	"WARM_INTERVAL":       "30m",
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "text",
}

// Load reads configuration from the environment (and .env), optionally
// overlaid by configFile, with sensible defaults.
func Load(configFile string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	// Explicit binds so keys without defaults still resolve from the environment.
	for _, k := range []string{"OPENWEATHER_API_KEY", "WEATHERAPI_API_KEY", "GEOCODER_API_KEY", "REDIS_PASSWORD", "SPOTS_FILE"} {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := &AppConfig{
		Port:              v.GetString("PORT"),
		OpenWeatherAPIKey: v.GetString("OPENWEATHER_API_KEY"),
		WeatherAPIKey:     v.GetString("WEATHERAPI_API_KEY"),
		GeocoderAPIKey:    v.GetString("GEOCODER_API_KEY"),
		TideEnabled:       v.GetBool("TIDE_ENABLED"),
		TideMaxStationKm:  v.GetFloat64("TIDE_MAX_STATION_KM"),
		CacheBackend:      strings.ToLower(v.GetString("CACHE_BACKEND")),
		CacheMaxEntries:   v.GetInt("CACHE_MAX_ENTRIES"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		SQLitePath:        v.GetString("SQLITE_PATH"),
		SpotsFile:         v.GetString("SPOTS_FILE"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         strings.ToLower(v.GetString("LOG_FORMAT")),
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"HTTP_TIMEOUT", &cfg.HTTPTimeout},
		{"REQUEST_TIMEOUT", &cfg.RequestTimeout},
		{"SCORE_TTL", &cfg.ScoreTTL},
		{"OUTLOOK_TTL", &cfg.OutlookTTL},
		{"WARM_INTERVAL", &cfg.WarmInterval},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		if parsed < 0 {
			return nil, fmt.Errorf("invalid %s: must not be negative", d.key)
		}
		*d.dst = parsed
	}

	switch cfg.CacheBackend {
	case CacheMemory, CacheRedis, CacheSQLite, CacheNone:
	default:
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q: want memory, redis, sqlite or none", cfg.CacheBackend)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", cfg.LogFormat)
	}

	if cfg.SpotsFile != "" {
		spots, err := LoadSpots(cfg.SpotsFile)
		if err != nil {
			return nil, err
		}
		cfg.Spots = spots
	}
	return cfg, nil
}

// LoadSpots parses a YAML file of the form:
//
//	spots:
//	  - name: Lake Minnetonka
//	    lat: 44.93
//	    lon: -93.57
func LoadSpots(path string) ([]Spot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spots file: %w", err)
	}
	var doc struct {
		Spots []Spot `yaml:"spots"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse spots file: %w", err)
	}
	for i, s := range doc.Spots {
		if s.Lat < -90 || s.Lat > 90 || s.Lon < -180 || s.Lon > 180 {
			return nil, fmt.Errorf("spot %d (%s): coordinate out of range", i, s.Name)
		}
	}
	return doc.Spots, nil
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *AppConfig) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	l := logrus.New()
	l.SetLevel(level)
	if c.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l, nil
}
