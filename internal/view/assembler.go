// Package view assembles plot-ready series from dataset records and the
// current ephemeris. It encodes the tie-break and edge-case policy for all
// transforms together: fold before convert, convert before tile, alias
// last. The plotting surface consumes the resulting Figure; its rendering
// is not this package's concern.
package view

import (
	"fmt"
	"math"

	"github.com/papapumpkin/cepheid/internal/curve"
	"github.com/papapumpkin/cepheid/internal/dataset"
	"github.com/papapumpkin/cepheid/internal/ephemeris"
)

// XAxis selects the abscissa of the assembled figure.
type XAxis string

const (
	XTime  XAxis = "time"
	XPhase XAxis = "phase"
)

// YAxis selects the ordinate. Magnitude conversion applies to light-curve
// fluxes only; radial velocities pass through unchanged.
type YAxis string

const (
	YFlux      YAxis = "flux"
	YMagnitude YAxis = "magnitude"
)

// Role distinguishes observation markers from model lines.
type Role string

const (
	RoleData  Role = "data"
	RoleModel Role = "model"
)

// Series is one renderable trace.
type Series struct {
	Dataset string    `json:"dataset"`
	Role    Role      `json:"role"`
	X       []float64 `json:"x"`
	Y       []float64 `json:"y"`
	Style   Style     `json:"style"`
}

// Figure is the full assembled view handed to the plotting surface.
type Figure struct {
	XAxis    XAxis    `json:"x_axis"`
	YAxis    YAxis    `json:"y_axis"`
	XLabel   string   `json:"x_label"`
	YLabel   string   `json:"y_label"`
	InvertY  bool     `json:"invert_y"`
	Series   []Series `json:"series"`
	Warnings []string `json:"warnings,omitempty"`
}

// Assembler builds figures from records. The zero value is usable; it
// applies the default aliasing margin.
type Assembler struct {
	// ExtendRange is the aliasing margin in cycles; zero means the
	// default.
	ExtendRange float64
}

// Assemble builds the renderable series for every record of the given kind
// with a display flag set. An empty model with ShowModel set is a
// recoverable condition: the series is omitted and a warning recorded on
// the figure. An invalid ephemeris with a phase axis is a hard failure.
func (a Assembler) Assemble(records []dataset.Record, eph ephemeris.Ephemeris, kind dataset.Kind, x XAxis, y YAxis) (Figure, error) {
	fig := Figure{
		XAxis:   x,
		YAxis:   y,
		XLabel:  xLabel(x),
		YLabel:  yLabel(y, kind),
		InvertY: y == YMagnitude && kind == dataset.KindLightCurve,
	}

	extend := a.ExtendRange
	if extend == 0 {
		extend = curve.DefaultExtendRange
	}

	index := 0
	for _, rec := range records {
		if rec.Kind != kind {
			continue
		}
		style := styleFor(index)
		index++

		if !rec.ShowData && !rec.ShowModel {
			continue
		}

		if rec.ShowData && rec.HasData() {
			series, err := a.dataSeries(&rec, eph, x, y, extend, style)
			if err != nil {
				return Figure{}, err
			}
			fig.Series = append(fig.Series, series...)
		}

		if rec.ShowModel {
			series, err := a.modelSeries(&rec, eph, x, y, extend, style)
			if err != nil {
				return Figure{}, err
			}
			if series == nil {
				fig.Warnings = append(fig.Warnings,
					fmt.Sprintf("no model computed for dataset %s; compute the model first", rec.Label))
				continue
			}
			fig.Series = append(fig.Series, series...)
		}
	}

	return fig, nil
}

// dataSeries builds the marker traces for a record's observations.
func (a Assembler) dataSeries(rec *dataset.Record, eph ephemeris.Ephemeris, x XAxis, y YAxis, extend float64, style Style) ([]Series, error) {
	xs := rec.Times
	if x == XPhase {
		var err error
		xs, err = ephemeris.Fold(rec.Times, eph)
		if err != nil {
			return nil, err
		}
	}

	var traces []Series
	appendTrace := func(name string, values []float64) {
		if len(values) == 0 {
			return
		}
		ys := values
		if y == YMagnitude && rec.Kind == dataset.KindLightCurve {
			ys = curve.FluxToMagnitude(values)
		}
		points := finitePoints(xs, ys)
		if x == XPhase {
			points = curve.Alias(points, extend)
		}
		px, py := curve.Unzip(points)
		traces = append(traces, Series{Dataset: name, Role: RoleData, X: px, Y: py, Style: style})
	}

	switch rec.Kind {
	case dataset.KindLightCurve:
		appendTrace(rec.Label, rec.Fluxes)
	case dataset.KindRadialVelocity:
		appendTrace(rec.Label+":primary", rec.RVPrimary)
		appendTrace(rec.Label+":secondary", rec.RVSecondary)
	}
	return traces, nil
}

// modelSeries builds the line traces for a record's computed model. A nil,
// nil return means the model is empty (soft condition).
func (a Assembler) modelSeries(rec *dataset.Record, eph ephemeris.Ephemeris, x XAxis, y YAxis, extend float64, style Style) ([]Series, error) {
	if !rec.HasModel() {
		return nil, nil
	}

	var traces []Series
	appendTrace := func(name string, values []float64) error {
		if len(values) == 0 {
			return nil
		}
		// The model is sampled over the canonical window at however many
		// points the solver returned.
		grid := curve.Linspace(rec.Window.PhaseMin, rec.Window.PhaseMax, len(values))

		ys := values
		if y == YMagnitude && rec.Kind == dataset.KindLightCurve {
			ys = curve.FluxToMagnitude(values)
		}

		var points []curve.Point
		if x == XTime {
			var err error
			if rec.HasData() {
				tMin, tMax := extent(rec.Times)
				points, err = curve.Tile(grid, ys, eph, tMin, tMax)
			} else {
				points, err = curve.SingleCycle(grid, ys, eph)
			}
			if err != nil {
				return err
			}
		} else {
			points = curve.Alias(curve.Zip(grid, ys), extend)
		}
		points = dropNonFinite(points)

		px, py := curve.Unzip(points)
		traces = append(traces, Series{Dataset: name, Role: RoleModel, X: px, Y: py, Style: style})
		return nil
	}

	switch rec.Kind {
	case dataset.KindLightCurve:
		if err := appendTrace(rec.Label, rec.ModelFluxes); err != nil {
			return nil, err
		}
	case dataset.KindRadialVelocity:
		if err := appendTrace(rec.Label+":primary", rec.ModelRVPrimary); err != nil {
			return nil, err
		}
		if err := appendTrace(rec.Label+":secondary", rec.ModelRVSecondary); err != nil {
			return nil, err
		}
	}
	return traces, nil
}

// finitePoints pairs the axes and drops points with a non-finite ordinate,
// such as magnitudes of non-positive fluxes. One bad point never aborts the
// series. Trailing entries of the longer slice are ignored.
func finitePoints(xs, ys []float64) []curve.Point {
	n := min(len(xs), len(ys))
	points := make([]curve.Point, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			continue
		}
		points = append(points, curve.Point{X: xs[i], Y: ys[i]})
	}
	return points
}

// dropNonFinite filters assembled points with a non-finite ordinate.
func dropNonFinite(points []curve.Point) []curve.Point {
	out := points[:0:0]
	for _, p := range points {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// extent returns the min and max of a non-empty slice.
func extent(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func xLabel(x XAxis) string {
	if x == XPhase {
		return "Phase"
	}
	return "Time (BJD)"
}

func yLabel(y YAxis, kind dataset.Kind) string {
	if kind == dataset.KindRadialVelocity {
		return "Radial velocity (km/s)"
	}
	if y == YMagnitude {
		return "Magnitude"
	}
	return "Flux"
}
