// Package ephemeris defines the orbital ephemeris of a periodic signal and
// the phase-folding transform that maps absolute observation times into a
// single canonical cycle.
package ephemeris

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidEphemeris is returned when the period is not a positive finite
// number.
var ErrInvalidEphemeris = errors.New("invalid ephemeris")

// Ephemeris is the (period, reference epoch) pair defining when phase zero
// occurs and how long one cycle lasts. Times and periods are in days;
// epochs are BJD.
type Ephemeris struct {
	Period float64
	T0     float64
}

// Validate checks that the ephemeris can be used for folding.
func (e Ephemeris) Validate() error {
	if math.IsNaN(e.Period) || math.IsInf(e.Period, 0) || e.Period <= 0 {
		return fmt.Errorf("%w: period %v must be positive", ErrInvalidEphemeris, e.Period)
	}
	if math.IsNaN(e.T0) || math.IsInf(e.T0, 0) {
		return fmt.Errorf("%w: reference epoch %v is not finite", ErrInvalidEphemeris, e.T0)
	}
	return nil
}

// Fold maps absolute times into orbital phases in the half-open canonical
// window [-0.5, 0.5). The phase of a time t is frac((t - t0) / period)
// centered by subtracting the nearest integer cycle; a result that lands
// exactly on +0.5 is wrapped down to -0.5 so the window stays half-open.
// NaN input times produce NaN phases. The input slice is not modified.
func Fold(times []float64, eph Ephemeris) ([]float64, error) {
	if err := eph.Validate(); err != nil {
		return nil, err
	}

	phases := make([]float64, len(times))
	for i, t := range times {
		ph := (t - eph.T0) / eph.Period
		ph -= math.Round(ph)
		// math.Round rounds halves away from zero, so ph = -0.5 maps to
		// +0.5 here. Wrap it back to keep [-0.5, 0.5) half-open.
		if ph >= 0.5 {
			ph -= 1
		}
		phases[i] = ph
	}
	return phases, nil
}

// FoldOne folds a single time. It has the same wrap convention as Fold.
func FoldOne(t float64, eph Ephemeris) (float64, error) {
	phases, err := Fold([]float64{t}, eph)
	if err != nil {
		return 0, err
	}
	return phases[0], nil
}
