package fishcast

import (
	"fmt"
	"math"
	"strings"

	"github.com/i474232898/fishcast/internal/tide"
)

// SpeciesKey identifies a supported species.
type SpeciesKey string

const (
	LargemouthBass SpeciesKey = "largemouth_bass"
	Trout          SpeciesKey = "trout"
	Walleye        SpeciesKey = "walleye"
	Catfish        SpeciesKey = "catfish"
	NorthernPike   SpeciesKey = "northern_pike"
	Crappie        SpeciesKey = "crappie"
	Redfish        SpeciesKey = "redfish"
	StripedBass    SpeciesKey = "striped_bass"
	Salmon         SpeciesKey = "salmon"
)

// TempRange is an inclusive water temperature range in °C.
type TempRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SpeciesProfile describes how a species reacts to conditions. Every
// modifier returns a multiplier; a nil modifier leaves the score unchanged.
type SpeciesProfile struct {
	Key            SpeciesKey `json:"key"`
	Name           string     `json:"name"`
	Aliases        []string   `json:"aliases"`
	IdealWaterTemp TempRange  `json:"idealWaterTempC"`

	Pressure      func(hpa float64) float64  `json:"-"`
	Wind          func(mph float64) float64  `json:"-"`
	TimeOfDay     func(hour int) float64     `json:"-"`
	CloudCover    func(pct float64) float64  `json:"-"`
	TideState     func(s tide.State) float64 `json:"-"`
	Precipitation func(mm float64) float64   `json:"-"`
}

func isDawnOrDusk(h int) bool { return (h >= 5 && h <= 8) || (h >= 17 && h <= 20) }

func isMidday(h int) bool { return h >= 11 && h <= 14 }

func isNight(h int) bool { return h >= 21 || h <= 4 }

func tideMoving(s tide.State) bool {
	return s.State != tide.Unknown && s.ProgressPercent >= 30 && s.ProgressPercent <= 70
}

func tideSlack(s tide.State) bool {
	return s.State != tide.Unknown && (s.ProgressPercent < 15 || s.ProgressPercent > 85)
}

func lowLight(h int) float64 {
	switch {
	case isDawnOrDusk(h):
		return 1.15
	case isMidday(h):
		return 0.85
	default:
		return 1
	}
}

// Species is ordered: alias lookups return the first matching profile.
var Species = []SpeciesProfile{
	{
		Key:            LargemouthBass,
		Name:           "Largemouth Bass",
		Aliases:        []string{"bass", "largemouth", "black bass", "bucketmouth"},
		IdealWaterTemp: TempRange{18, 27},
		Pressure: func(p float64) float64 {
			switch {
			case p < 1010:
				return 1.15
			case p > 1025:
				return 0.85
			}
			return 1
		},
		Wind: func(w float64) float64 {
			switch {
			case w >= 5 && w <= 15:
				return 1.1
			case w > 20:
				return 0.8
			}
			return 1
		},
		TimeOfDay: lowLight,
		CloudCover: func(c float64) float64 {
			if c > 60 {
				return 1.1
			}
			return 1
		},
		Precipitation: func(mm float64) float64 {
			if mm > 0 && mm <= 5 {
				return 1.1
			}
			return 1
		},
	},
	{
		Key:            Trout,
		Name:           "Trout",
		Aliases:        []string{"rainbow trout", "brown trout", "brook trout", "steelhead"},
		IdealWaterTemp: TempRange{10, 18},
		Pressure: func(p float64) float64 {
			if p >= 1010 && p <= 1020 {
				return 1.05
			}
			return 1
		},
		Wind: func(w float64) float64 {
			if w > 20 {
				return 0.85
			}
			return 1
		},
		TimeOfDay: lowLight,
		CloudCover: func(c float64) float64 {
			if c > 50 {
				return 1.15
			}
			return 1
		},
		Precipitation: func(mm float64) float64 {
			switch {
			case mm > 0 && mm <= 3:
				return 1.15
			case mm > 10:
				return 0.7
			}
			return 1
		},
	},
	{
		Key:            Walleye,
		Name:           "Walleye",
		Aliases:        []string{"yellow pickerel", "pickerel"},
		IdealWaterTemp: TempRange{15, 22},
		Wind: func(w float64) float64 {
			if w >= 5 && w <= 15 {
				return 1.15
			}
			return 1
		},
		TimeOfDay: func(h int) float64 {
			switch {
			case h >= 18 || h <= 5:
				return 1.2
			case isMidday(h):
				return 0.8
			}
			return 1
		},
		CloudCover: func(c float64) float64 {
			if c > 70 {
				return 1.15
			}
			return 1
		},
	},
	{
		Key:            Catfish,
		Name:           "Catfish",
		Aliases:        []string{"channel catfish", "blue catfish", "flathead"},
		IdealWaterTemp: TempRange{21, 29},
		Pressure: func(p float64) float64 {
			if p < 1010 {
				return 1.1
			}
			return 1
		},
		TimeOfDay: func(h int) float64 {
			if isNight(h) {
				return 1.2
			}
			return 1
		},
		Precipitation: func(mm float64) float64 {
			if mm > 0 {
				return 1.15
			}
			return 1
		},
	},
	{
		Key:            NorthernPike,
		Name:           "Northern Pike",
		Aliases:        []string{"pike", "jackfish", "northern"},
		IdealWaterTemp: TempRange{10, 20},
		Pressure: func(p float64) float64 {
			if p < 1010 {
				return 1.1
			}
			return 1
		},
		Wind: func(w float64) float64 {
			if w >= 5 && w <= 15 {
				return 1.1
			}
			return 1
		},
		CloudCover: func(c float64) float64 {
			if c > 50 {
				return 1.1
			}
			return 1
		},
	},
	{
		Key:            Crappie,
		Name:           "Crappie",
		Aliases:        []string{"papermouth", "speckled perch", "slab"},
		IdealWaterTemp: TempRange{15, 23},
		Wind: func(w float64) float64 {
			if w > 15 {
				return 0.8
			}
			return 1
		},
		TimeOfDay: lowLight,
	},
	{
		Key:            Redfish,
		Name:           "Redfish",
		Aliases:        []string{"red drum", "channel bass"},
		IdealWaterTemp: TempRange{18, 29},
		Wind: func(w float64) float64 {
			if w > 20 {
				return 0.8
			}
			return 1
		},
		TideState: func(s tide.State) float64 {
			switch {
			case tideMoving(s):
				return 1.2
			case tideSlack(s):
				return 0.8
			}
			return 1
		},
	},
	{
		Key:            StripedBass,
		Name:           "Striped Bass",
		Aliases:        []string{"striper", "rockfish", "linesider"},
		IdealWaterTemp: TempRange{13, 21},
		TimeOfDay:      lowLight,
		CloudCover: func(c float64) float64 {
			if c > 50 {
				return 1.1
			}
			return 1
		},
		TideState: func(s tide.State) float64 {
			switch {
			case tideMoving(s):
				return 1.2
			case tideSlack(s):
				return 0.85
			}
			return 1
		},
	},
	{
		Key:            Salmon,
		Name:           "Salmon",
		Aliases:        []string{"chinook", "coho", "king salmon", "sockeye"},
		IdealWaterTemp: TempRange{7, 14},
		TimeOfDay: func(h int) float64 {
			if h >= 5 && h <= 8 {
				return 1.15
			}
			return 1
		},
		TideState: func(s tide.State) float64 {
			if s.State == tide.Rising {
				return 1.15
			}
			return 1
		},
		Precipitation: func(mm float64) float64 {
			if mm > 0 && mm <= 5 {
				return 1.1
			}
			return 1
		},
	},
}

func normalizeSpecies(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// LookupSpecies resolves name by exact key, then exact alias, then the
// longest substring overlap with a key or alias. Ties go to table order.
func LookupSpecies(name string) (SpeciesProfile, bool) {
	n := normalizeSpecies(name)
	if n == "" {
		return SpeciesProfile{}, false
	}
	for _, p := range Species {
		if string(p.Key) == n {
			return p, true
		}
	}
	for _, p := range Species {
		for _, a := range p.Aliases {
			if normalizeSpecies(a) == n {
				return p, true
			}
		}
	}

	best, bestLen := -1, 0
	for i, p := range Species {
		for _, c := range append([]string{string(p.Key)}, p.Aliases...) {
			c = normalizeSpecies(c)
			overlap := 0
			switch {
			case strings.Contains(n, c):
				overlap = len(c)
			case len(n) >= 3 && strings.Contains(c, n):
				overlap = len(n)
			}
			if overlap > bestLen {
				best, bestLen = i, overlap
			}
		}
	}
	if best < 0 {
		return SpeciesProfile{}, false
	}
	return Species[best], true
}

// Adjust re-weights result for a species. Unknown species and degraded
// results are returned unchanged.
func Adjust(result FishCastResult, species string, waterTemp *float64) FishCastResult {
	profile, ok := LookupSpecies(species)
	if !ok || result.Degraded() {
		return result
	}

	multiplier := 1.0
	var insights []string
	apply := func(factor string, m float64) {
		if m == 1 || math.IsNaN(m) {
			return
		}
		multiplier *= m
		if m > 1 {
			insights = append(insights, fmt.Sprintf("%s favours %s (x%.2f)", factor, profile.Name, m))
		} else {
			insights = append(insights, fmt.Sprintf("%s is unfavourable for %s (x%.2f)", factor, profile.Name, m))
		}
	}

	if w := result.Weather; w != nil {
		if v, ok := present(w.PressureMsl); ok && profile.Pressure != nil {
			apply("Pressure", profile.Pressure(v))
		}
		if v, ok := present(w.WindSpeed); ok && profile.Wind != nil {
			apply("Wind", profile.Wind(v))
		}
		if v, ok := present(w.CloudCover); ok && profile.CloudCover != nil {
			apply("Cloud cover", profile.CloudCover(v))
		}
		if v, ok := present(w.Precipitation); ok && profile.Precipitation != nil {
			apply("Precipitation", profile.Precipitation(v))
		}
	}
	if profile.TimeOfDay != nil && !result.EvaluatedAt.IsZero() {
		apply("Time of day", profile.TimeOfDay(result.EvaluatedAt.Hour()))
	}
	if result.Tide != nil && profile.TideState != nil {
		apply("Tide", profile.TideState(*result.Tide))
	}
	if t, ok := present(waterTemp); ok {
		r := profile.IdealWaterTemp
		switch {
		case t >= r.Min && t <= r.Max:
			apply("Water temperature", 1.10)
		case t < r.Min-5 || t > r.Max+5:
			apply("Water temperature", 0.90)
		}
	}

	adjusted := result
	adjusted.Score = clampScore(float64(result.Score) * multiplier)
	adjusted.Label = LabelFor(adjusted.Score)
	adjusted.Species = &SpeciesAdjustment{
		Key:           profile.Key,
		Name:          profile.Name,
		OriginalScore: result.Score,
		Multiplier:    math.Round(multiplier*1000) / 1000,
		Insights:      insights,
	}
	return adjusted
}
