// Package tide derives the current tide state from NOAA CO-OPS high/low predictions.
package tide

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoStation is returned when no prediction station lies within range.
	ErrNoStation = errors.New("no tide station nearby")
	// ErrUnavailable is returned when tide data cannot be obtained.
	ErrUnavailable = errors.New("tide data unavailable")
)

// Direction is the movement of the water level.
type Direction string

const (
	Rising  Direction = "rising"
	Falling Direction = "falling"
	Unknown Direction = "unknown"
)

// ExtremeKind marks a high or low water prediction.
type ExtremeKind string

const (
	High ExtremeKind = "H"
	Low  ExtremeKind = "L"
)

// Extreme is a predicted high or low water.
type Extreme struct {
	Time         time.Time   `json:"time"`
	Kind         ExtremeKind `json:"kind"`
	HeightMeters float64     `json:"heightMeters"`
}

// State is the tide at an instant. ProgressPercent is the elapsed share of
// the current half-cycle between the previous and next extremes.
type State struct {
	State           Direction `json:"state"`
	ProgressPercent float64   `json:"progressPercent"`
	HeightMeters    *float64  `json:"heightMeters,omitempty"`
	Station         string    `json:"station,omitempty"`
	NextExtreme     *Extreme  `json:"nextExtreme,omitempty"`
}

// Provider returns the tide state for a coordinate.
type Provider interface {
	CurrentTideState(ctx context.Context, lat, lon float64, at time.Time) (State, error)
}

// Noop is used when tide lookups are disabled.
type Noop struct{}

func (Noop) CurrentTideState(context.Context, float64, float64, time.Time) (State, error) {
	return State{State: Unknown}, ErrUnavailable
}
