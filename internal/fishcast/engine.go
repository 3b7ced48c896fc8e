package fishcast

import (
	"math"
	"time"

	"github.com/i474232898/fishcast/internal/astro"
	"github.com/i474232898/fishcast/internal/tide"
	"github.com/i474232898/fishcast/internal/weather"
)

// Astronomy is the sun, moon and solunar source used by the engine.
// astro.Calculator is the production implementation.
type Astronomy interface {
	SunTimes(c astro.Coordinate, date time.Time) astro.SunTimes
	MoonPhase(date time.Time) (astro.MoonPhase, error)
	SolunarPeriods(c astro.Coordinate, date time.Time) ([]astro.SolunarPeriod, error)
}

// Engine is the pure scoring core. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	sky Astronomy
	now func() time.Time
}

type EngineOption func(*Engine)

func WithAstronomy(a Astronomy) EngineOption {
	return func(e *Engine) { e.sky = a }
}

func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{sky: astro.NewCalculator(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LocalTime returns at in the caller's zone, or in a longitude-derived fixed
// zone when at carries no zone information (UTC).
func LocalTime(c astro.Coordinate, at time.Time) time.Time {
	if at.Location() != time.UTC {
		return at
	}
	offsetHours := int(math.Round(c.Clamped().Longitude / 15))
	if offsetHours == 0 {
		return at
	}
	return at.In(time.FixedZone("", offsetHours*3600))
}

// Score evaluates every factor for coord at the instant at. Nil weather or
// tide inputs, and missing fields within them, score as neutral.
func (e *Engine) Score(coord astro.Coordinate, at time.Time, w *weather.Snapshot, t *tide.State) FishCastResult {
	coord = coord.Clamped()
	local := LocalTime(coord, at)

	factors := ScoreFactors{
		FactorTimeOfDay: TimeOfDayScore(local.Hour()),
		FactorTideState: TideScore(t),
	}

	var summary *WeatherSummary
	if w != nil {
		summary = summarize(w)
		factors[FactorPressure] = PressureScore(w.PressureMsl)
		factors[FactorWind] = WindScore(w.WindSpeed)
		factors[FactorCloudCover] = CloudCoverScore(w.CloudCover)
		factors[FactorPrecipitation] = PrecipitationScore(w.Precipitation)
	} else {
		factors[FactorPressure] = NeutralScore
		factors[FactorWind] = NeutralScore
		factors[FactorCloudCover] = NeutralScore
		factors[FactorPrecipitation] = NeutralScore
	}

	sol := &SolunarSummary{Sun: e.sky.SunTimes(coord, local)}
	if moon, err := e.sky.MoonPhase(local); err == nil {
		sol.MoonPhase = moon
		sol.DailyRating = astro.DailyRating(moon, local.Hour())
		factors[FactorMoonPhase] = MoonScore(moon.FishingRating)
	} else {
		factors[FactorMoonPhase] = NeutralScore
	}
	if periods, err := e.sky.SolunarPeriods(coord, local); err == nil {
		sol.Periods = periods
		sol.ActivePeriod = astro.ActivePeriod(periods, local)
		factors[FactorSolunarPeriod] = SolunarScore(sol.ActivePeriod)
	} else {
		factors[FactorSolunarPeriod] = NeutralScore
	}

	score := Aggregate(factors)
	return FishCastResult{
		Score:        score,
		Label:        LabelFor(score),
		Factors:      factors,
		Coordinate:   coord,
		Weather:      summary,
		Solunar:      sol,
		Tide:         t,
		CalculatedAt: e.now().UTC(),
		EvaluatedAt:  local,
	}
}

// Degraded builds the neutral fallback returned when scoring cannot proceed.
func (e *Engine) Degraded(coord astro.Coordinate, at time.Time, cause error) FishCastResult {
	factors := make(ScoreFactors, len(Weights))
	for _, w := range Weights {
		factors[w.Factor] = NeutralScore
	}
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return FishCastResult{
		Score:        NeutralScore,
		Label:        LabelFair,
		Factors:      factors,
		Coordinate:   coord.Clamped(),
		CalculatedAt: e.now().UTC(),
		EvaluatedAt:  at,
		Error:        msg,
	}
}

func summarize(w *weather.Snapshot) *WeatherSummary {
	s := &WeatherSummary{
		Temperature:   w.Temperature,
		WindSpeed:     w.WindSpeed,
		CloudCover:    w.CloudCover,
		Precipitation: w.Precipitation,
		PressureMsl:   w.PressureMsl,
		Sunrise:       w.Sunrise,
		Sunset:        w.Sunset,
		WeatherCode:   w.WeatherCode,
		Condition:     w.Condition,
	}
	if w.WeatherCode != nil {
		s.Icon = weather.IconForCode(*w.WeatherCode)
	}
	return s
}
