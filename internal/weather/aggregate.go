package weather

import "time"

// AggregateReadings combines multiple provider readings into a single Snapshot.
// Each numeric field is averaged over the providers that reported it; the
// weather code is chosen by majority (lowest code on ties).
func AggregateReadings(readings []ProviderReading) Snapshot {
	if len(readings) == 0 {
		return Snapshot{
			Timestamp: time.Now().UTC(),
			Condition: ConditionUnknown,
		}
	}

	var temp, wind, cloud, precip, pressure mean
	codeCounts := make(map[int]int)
	providers := make([]ProviderContribution, 0, len(readings))
	var (
		newestTS        time.Time
		sunrise, sunset *time.Time
	)

	for _, r := range readings {
		temp.add(r.TemperatureC)
		wind.add(r.WindSpeedMph)
		cloud.add(r.CloudCoverPct)
		precip.add(r.PrecipMm)
		pressure.add(r.PressureHpa)

		if r.WeatherCode != nil {
			codeCounts[*r.WeatherCode]++
		}
		if sunrise == nil && r.Sunrise != nil {
			sunrise = r.Sunrise
		}
		if sunset == nil && r.Sunset != nil {
			sunset = r.Sunset
		}
		if r.Timestamp.After(newestTS) {
			newestTS = r.Timestamp
		}

		providers = append(providers, ProviderContribution{
			ProviderName: r.ProviderName,
			Timestamp:    r.Timestamp,
		})
	}

	if newestTS.IsZero() {
		newestTS = time.Now().UTC()
	}

	snap := Snapshot{
		Timestamp:     newestTS,
		Temperature:   temp.value(),
		WindSpeed:     wind.value(),
		CloudCover:    cloud.value(),
		Precipitation: precip.value(),
		PressureMsl:   pressure.value(),
		Sunrise:       sunrise,
		Sunset:        sunset,
		WeatherCode:   majorityCode(codeCounts),
		Condition:     ConditionUnknown,
		Providers:     providers,
	}
	if snap.WeatherCode != nil {
		snap.Condition = ConditionForCode(*snap.WeatherCode)
	}
	return snap
}

// AggregateDaily merges several providers' entries for the same day.
func AggregateDaily(date time.Time, days []DailyForecast) DailyForecast {
	var tmax, tmin, pmax, pmin, wind, cloud, precip mean
	codeCounts := make(map[int]int)
	for _, d := range days {
		tmax.add(d.TempMax)
		tmin.add(d.TempMin)
		pmax.add(d.PressureMax)
		pmin.add(d.PressureMin)
		wind.add(d.WindSpeedMax)
		cloud.add(d.CloudCover)
		precip.add(d.Precipitation)
		if d.WeatherCode != nil {
			codeCounts[*d.WeatherCode]++
		}
	}
	return DailyForecast{
		Date:          date,
		TempMax:       tmax.value(),
		TempMin:       tmin.value(),
		PressureMax:   pmax.value(),
		PressureMin:   pmin.value(),
		WindSpeedMax:  wind.value(),
		CloudCover:    cloud.value(),
		Precipitation: precip.value(),
		WeatherCode:   majorityCode(codeCounts),
	}
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.n++
}

func (m mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	return Float(m.sum / float64(m.n))
}

func majorityCode(counts map[int]int) *int {
	best, bestCount := 0, 0
	for code, count := range counts {
		if count > bestCount || (count == bestCount && code < best) {
			best, bestCount = code, count
		}
	}
	if bestCount == 0 {
		return nil
	}
	return Int(best)
}
