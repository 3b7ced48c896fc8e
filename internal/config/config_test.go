package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.CacheBackend != CacheMemory || !cfg.TideEnabled {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.ScoreTTL != time.Hour || cfg.OutlookTTL != 4*time.Hour {
		t.Fatalf("unexpected ttls %s %s", cfg.ScoreTTL, cfg.OutlookTTL)
	}
	if cfg.TideMaxStationKm != 100 {
		t.Fatalf("unexpected station radius %f", cfg.TideMaxStationKm)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("CACHE_BACKEND", "SQLite")
	t.Setenv("SCORE_TTL", "30m")
	t.Setenv("TIDE_ENABLED", "false")
	t.Setenv("WEATHERAPI_API_KEY", "abc")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" || cfg.CacheBackend != CacheSQLite || cfg.ScoreTTL != 30*time.Minute {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.TideEnabled || cfg.WeatherAPIKey != "abc" {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())
	tests := map[string]string{
		"SCORE_TTL":     "soon",
		"CACHE_BACKEND": "memcached",
		"LOG_FORMAT":    "xml",
		"WARM_INTERVAL": "-5m",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(""); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}

func TestLoadSpots(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spots.yaml")
	content := `spots:
  - name: Lake Minnetonka
    lat: 44.93
    lon: -93.57
  - name: Galveston Bay
    lat: 29.5
    lon: -94.9
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	spots, err := LoadSpots(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spots) != 2 || spots[0].Name != "Lake Minnetonka" || spots[1].Lon != -94.9 {
		t.Fatalf("unexpected spots %+v", spots)
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("spots:\n  - name: Nowhere\n    lat: 120\n    lon: 0\n"), 0o644)
	if _, err := LoadSpots(bad); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestNewLogger(t *testing.T) {
	cfg := &AppConfig{LogLevel: "debug", LogFormat: "json"}
	l, err := cfg.NewLogger()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level")
	}
	if _, ok := l.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected json formatter")
	}

	cfg.LogLevel = "chatty"
	if _, err := cfg.NewLogger(); err == nil {
		t.Fatalf("expected invalid level error")
	}
}
