package fishcast

import (
	"math"

	"github.com/i474232898/fishcast/internal/astro"
	"github.com/i474232898/fishcast/internal/tide"
)

// NeutralScore is used for any factor whose input is missing.
const NeutralScore = 50

// Band describes one scoring range for documentation endpoints.
type Band struct {
	Range string `json:"range"`
	Score int    `json:"score"`
}

// Bands documents the scoring table of every factor.
var Bands = map[Factor][]Band{
	FactorPressure: {
		{"1013-1023 hPa", 90}, {"1005-1013 hPa", 70}, {"1023-1030 hPa", 60},
		{"< 1005 hPa", 40}, {"> 1030 hPa", 30}, {"missing", NeutralScore},
	},
	FactorMoonPhase: {
		{"moon fishing rating x 20", 0},
	},
	FactorSolunarPeriod: {
		{"inside major period", 95}, {"inside minor period", 75}, {"outside periods", 40},
	},
	FactorWind: {
		{"<= 5 mph", 85}, {"<= 12 mph", 75}, {"<= 20 mph", 55}, {"<= 30 mph", 30},
		{"> 30 mph", 10}, {"missing", NeutralScore},
	},
	FactorTimeOfDay: {
		{"04-08h", 90}, {"17-21h", 85}, {"09-10h", 65}, {"15-16h", 65},
		{"night", 50}, {"midday", 40},
	},
	FactorCloudCover: {
		{"50-80 %", 80}, {"30-50 %", 65}, {"> 80 %", 60}, {"< 30 %", 40}, {"missing", NeutralScore},
	},
	FactorPrecipitation: {
		{"0 mm", 60}, {"0-2 mm", 85}, {"2-5 mm", 65}, {"5-10 mm", 40}, {"> 10 mm", 20},
		{"missing", NeutralScore},
	},
	FactorTideState: {
		{"slack (progress < 15 or > 85)", 40}, {"rising mid-cycle (30-70)", 90},
		{"falling mid-cycle (30-70)", 80}, {"other", 60}, {"unknown", NeutralScore},
	},
}

// present returns the value behind v unless it is nil or not finite.
func present(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

func PressureScore(hpa *float64) int {
	p, ok := present(hpa)
	switch {
	case !ok:
		return NeutralScore
	case p >= 1013 && p <= 1023:
		return 90
	case p >= 1005 && p < 1013:
		return 70
	case p > 1023 && p <= 1030:
		return 60
	case p < 1005:
		return 40
	default:
		return 30
	}
}

// MoonScore maps a 1-5 fishing rating onto 0-100.
func MoonScore(rating int) int {
	return clampScore(float64(rating * 20))
}

func SolunarScore(active *astro.SolunarPeriod) int {
	switch {
	case active == nil:
		return 40
	case active.Kind == astro.PeriodMajor:
		return 95
	default:
		return 75
	}
}

func WindScore(mph *float64) int {
	w, ok := present(mph)
	switch {
	case !ok:
		return NeutralScore
	case w <= 5:
		return 85
	case w <= 12:
		return 75
	case w <= 20:
		return 55
	case w <= 30:
		return 30
	default:
		return 10
	}
}

// TimeOfDayScore scores the local hour. The checks are ordered: dawn and dusk
// take precedence over the night band that borders them.
func TimeOfDayScore(hour int) int {
	switch {
	case hour >= 4 && hour <= 8:
		return 90
	case hour >= 17 && hour <= 21:
		return 85
	case hour > 8 && hour <= 10:
		return 65
	case hour >= 15 && hour < 17:
		return 65
	case hour >= 21 || hour <= 4:
		return 50
	default:
		return 40
	}
}

func CloudCoverScore(pct *float64) int {
	c, ok := present(pct)
	switch {
	case !ok:
		return NeutralScore
	case c >= 50 && c <= 80:
		return 80
	case c >= 30 && c < 50:
		return 65
	case c > 80:
		return 60
	default:
		return 40
	}
}

func PrecipitationScore(mm *float64) int {
	p, ok := present(mm)
	switch {
	case !ok:
		return NeutralScore
	case p <= 0:
		return 60
	case p <= 2:
		return 85
	case p <= 5:
		return 65
	case p <= 10:
		return 40
	default:
		return 20
	}
}

func TideScore(state *tide.State) int {
	if state == nil || state.State == tide.Unknown || state.State == "" {
		return NeutralScore
	}
	p := state.ProgressPercent
	switch {
	case p < 15 || p > 85:
		return 40
	case state.State == tide.Rising && p >= 30 && p <= 70:
		return 90
	case state.State == tide.Falling && p >= 30 && p <= 70:
		return 80
	default:
		return 60
	}
}

// Aggregate computes the weighted score of factors. Missing factors count as neutral.
func Aggregate(factors ScoreFactors) int {
	var sum float64
	for _, w := range Weights {
		v, ok := factors[w.Factor]
		if !ok {
			v = NeutralScore
		}
		sum += float64(v) * w.Weight
	}
	return clampScore(sum)
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return NeutralScore
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}
