// Package curve provides the pure numeric transforms that turn dataset
// arrays into plot-ready series: phase-window grids, edge aliasing for
// wrap-around continuity, model cycle tiling, and flux-to-magnitude
// conversion. All functions are deterministic and reentrant; they never
// touch state beyond their arguments.
package curve

import (
	"errors"
	"fmt"
	"math"

	"github.com/papapumpkin/cepheid/internal/ephemeris"
)

// ErrEmptyModel is returned when a model series is requested but no model
// samples exist. Callers treat it as a recoverable condition: the series is
// skipped, other series still render.
var ErrEmptyModel = errors.New("empty model")

// ErrInvalidWindow is returned for a degenerate phase window.
var ErrInvalidWindow = errors.New("invalid phase window")

// DefaultExtendRange is the default aliasing margin, in cycles.
const DefaultExtendRange = 0.1

// Canonical phase window edges used by the aliaser. Folded phases always
// land in [lowerEdge, upperEdge).
const (
	lowerEdge = -0.5
	upperEdge = 0.5
)

// Point is a single (x, y) sample of a series.
type Point struct {
	X float64
	Y float64
}

// Window is the canonical cycle over which a model is sampled: Resolution
// evenly spaced phases from PhaseMin to PhaseMax inclusive.
type Window struct {
	PhaseMin   float64
	PhaseMax   float64
	Resolution int
}

// DefaultWindow returns the standard single-cycle sampling window.
func DefaultWindow() Window {
	return Window{PhaseMin: -0.5, PhaseMax: 0.5, Resolution: 201}
}

// Validate checks window ordering and sample count.
func (w Window) Validate() error {
	if !(w.PhaseMin < w.PhaseMax) {
		return fmt.Errorf("%w: phase_min %v must be below phase_max %v", ErrInvalidWindow, w.PhaseMin, w.PhaseMax)
	}
	if w.Resolution < 2 {
		return fmt.Errorf("%w: resolution %d must be at least 2", ErrInvalidWindow, w.Resolution)
	}
	return nil
}

// Grid returns Resolution evenly spaced phases spanning the window,
// including both endpoints.
func (w Window) Grid() []float64 {
	return Linspace(w.PhaseMin, w.PhaseMax, w.Resolution)
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
// It returns nil for n < 1 and a single midpoint-free [lo] for n == 1.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// Alias duplicates phase-folded points near the canonical window edges one
// cycle over, restoring visual continuity of a periodic signal at the plot
// boundaries. Points within extendRange of the lower edge (inclusive) gain
// a copy shifted by +1 cycle; points within extendRange of the upper edge
// gain a copy shifted by -1. The output preserves input order, then appends
// lower-edge duplicates, then upper-edge duplicates. The input is never
// modified.
func Alias(points []Point, extendRange float64) []Point {
	out := make([]Point, 0, len(points)+len(points)/4)
	out = append(out, points...)

	for _, p := range points {
		if p.X <= lowerEdge+extendRange {
			out = append(out, Point{X: p.X + 1, Y: p.Y})
		}
	}
	for _, p := range points {
		if p.X >= upperEdge-extendRange {
			out = append(out, Point{X: p.X - 1, Y: p.Y})
		}
	}
	return out
}

// Tile replicates a single-cycle model across every integer cycle needed to
// cover the observational time extent [tMin, tMax], converting the phase
// grid to absolute times via t0 + period*(phase + cycle) and trimming the
// concatenation back to the extent. grid and values must be the same
// length; the model values repeat unchanged in every cycle.
func Tile(grid, values []float64, eph ephemeris.Ephemeris, tMin, tMax float64) ([]Point, error) {
	if err := eph.Validate(); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, ErrEmptyModel
	}
	if len(grid) != len(values) {
		return nil, fmt.Errorf("phase grid length %d does not match model length %d", len(grid), len(values))
	}

	cycleMin := int(math.Floor((tMin - eph.T0) / eph.Period))
	cycleMax := int(math.Ceil((tMax - eph.T0) / eph.Period))

	out := make([]Point, 0, (cycleMax-cycleMin+1)*len(grid))
	for c := cycleMin; c <= cycleMax; c++ {
		for i, ph := range grid {
			t := eph.T0 + eph.Period*(ph+float64(c))
			if t < tMin || t > tMax {
				continue
			}
			out = append(out, Point{X: t, Y: values[i]})
		}
	}
	return out, nil
}

// SingleCycle maps the canonical phase grid to absolute times for one cycle
// around the reference epoch. Used when a model is plotted against time
// without any observational extent to tile over.
func SingleCycle(grid, values []float64, eph ephemeris.Ephemeris) ([]Point, error) {
	if err := eph.Validate(); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, ErrEmptyModel
	}
	if len(grid) != len(values) {
		return nil, fmt.Errorf("phase grid length %d does not match model length %d", len(grid), len(values))
	}

	out := make([]Point, len(grid))
	for i, ph := range grid {
		out[i] = Point{X: eph.T0 + eph.Period*ph, Y: values[i]}
	}
	return out, nil
}

// FluxToMagnitude converts fluxes to magnitudes, -2.5*log10(flux).
// Non-positive fluxes yield non-finite magnitudes; callers treat those
// points as undisplayable rather than aborting the series.
func FluxToMagnitude(fluxes []float64) []float64 {
	out := make([]float64, len(fluxes))
	for i, f := range fluxes {
		out[i] = -2.5 * math.Log10(f)
	}
	return out
}

// Zip pairs per-axis arrays into points. Inputs must be the same length.
func Zip(xs, ys []float64) []Point {
	out := make([]Point, len(xs))
	for i := range xs {
		out[i] = Point{X: xs[i], Y: ys[i]}
	}
	return out
}

// Unzip splits points back into per-axis arrays.
func Unzip(points []Point) (xs, ys []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}
