// Package geo resolves place names to coordinates.
package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/fishcast/internal/astro"
	"github.com/i474232898/fishcast/internal/common"
)

var (
	// ErrNotConfigured is returned when no geocoding key was provided.
	ErrNotConfigured = errors.New("geocoder not configured")
	// ErrNotFound is returned when the address has no match.
	ErrNotFound = errors.New("location not found")
)

// Resolver turns a city and country into a coordinate.
type Resolver interface {
	Resolve(ctx context.Context, city, country string) (astro.Coordinate, error)
}

// GoogleResolver uses the Google Geocoding API through kelvins/geocoder.
// Results are memoized for the life of the process.
type GoogleResolver struct {
	lookup func(geocoder.Address) (geocoder.Location, error)

	mu    sync.RWMutex
	cache map[string]astro.Coordinate
}

// NewGoogleResolver configures the geocoder with apiKey. The key is global to
// the geocoder package, so one resolver per process is expected.
func NewGoogleResolver(apiKey string) *GoogleResolver {
	geocoder.ApiKey = apiKey
	return &GoogleResolver{
		lookup: geocoder.Geocoding,
		cache:  make(map[string]astro.Coordinate),
	}
}

func cacheKey(city, country string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToLower(strings.TrimSpace(country))
}

func (r *GoogleResolver) Resolve(ctx context.Context, city, country string) (astro.Coordinate, error) {
	if strings.TrimSpace(city) == "" {
		return astro.Coordinate{}, fmt.Errorf("%w: city is required", ErrNotFound)
	}
	key := cacheKey(city, country)

	r.mu.RLock()
	c, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	type result struct {
		loc geocoder.Location
		err error
	}
	// The geocoder has no context support; abandon the call when ctx ends.
	ch := make(chan result, 1)
	go func() {
		loc, err := r.lookup(geocoder.Address{City: city, Country: country})
		ch <- result{loc, err}
	}()

	select {
	case <-ctx.Done():
		return astro.Coordinate{}, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			if isZeroResults(res.err) {
				return astro.Coordinate{}, fmt.Errorf("%w: %s, %s", ErrNotFound, city, country)
			}
			return astro.Coordinate{}, fmt.Errorf("geocode %s, %s: %w", city, country, res.err)
		}
		c = astro.Coordinate{Latitude: res.loc.Latitude, Longitude: res.loc.Longitude}
	}

	r.mu.Lock()
	r.cache[key] = c
	r.mu.Unlock()
	return c, nil
}

// isZeroResults reports whether the geocoder found no match, as opposed to
// failing to reach or authenticate with the API.
func isZeroResults(err error) bool {
	return common.HasAny(err.Error(), "ZERO_RESULTS", "no results")
}

// Disabled is used when no geocoding key is configured.
type Disabled struct{}

func (Disabled) Resolve(context.Context, string, string) (astro.Coordinate, error) {
	return astro.Coordinate{}, ErrNotConfigured
}
