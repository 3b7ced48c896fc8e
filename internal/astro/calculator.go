package astro

import (
	"errors"
	"time"
)

// ErrInvalidDate is returned for the zero time.
var ErrInvalidDate = errors.New("invalid date")

// Calculator bundles the sun, moon and solunar models behind one value so
// callers can depend on a single collaborator.
type Calculator struct {
	Solunar SolunarEstimator
}

// NewCalculator returns a Calculator using SimpleSolunar.
func NewCalculator() Calculator {
	return Calculator{Solunar: SimpleSolunar{}}
}

func (c Calculator) SunTimes(coord Coordinate, date time.Time) SunTimes {
	return SunTimesFor(coord.Clamped(), date)
}

func (c Calculator) MoonPhase(date time.Time) (MoonPhase, error) {
	if date.IsZero() {
		return MoonPhase{}, ErrInvalidDate
	}
	return MoonPhaseOn(date), nil
}

func (c Calculator) SolunarPeriods(coord Coordinate, date time.Time) ([]SolunarPeriod, error) {
	if date.IsZero() {
		return nil, ErrInvalidDate
	}
	est := c.Solunar
	if est == nil {
		est = SimpleSolunar{}
	}
	return est.Periods(coord, date)
}
