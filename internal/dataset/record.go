// Package dataset holds the per-dataset value object and the registry that
// owns the label-to-record map. The registry is the only mutator of that
// map; records reach it through an explicit add, a destructive sync from a
// remote snapshot or summary, or an explicit delete.
package dataset

import (
	"errors"
	"fmt"

	"github.com/papapumpkin/cepheid/internal/curve"
)

// Registry error taxonomy. Local validation failures are detected before
// any remote call and never leave the registry partially mutated.
var (
	ErrDuplicateLabel = errors.New("dataset label already exists")
	ErrUnknownLabel   = errors.New("unknown dataset label")
	ErrInvalidKind    = errors.New("invalid dataset kind")
	ErrMissingLabel   = errors.New("dataset label not specified")
	ErrUnknownFlag    = errors.New("unknown display flag")
)

// Kind identifies what a dataset observes.
type Kind string

const (
	// KindLightCurve is photometric flux over time.
	KindLightCurve Kind = "lc"
	// KindRadialVelocity is per-component radial velocity over time.
	KindRadialVelocity Kind = "rv"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindLightCurve || k == KindRadialVelocity
}

// Source records where a dataset's observational arrays came from.
type Source string

const (
	// SourceSynthetic marks a dataset with no observations; only a model
	// can be plotted for it.
	SourceSynthetic Source = "synthetic"
	// SourceUpload marks observations ingested from a local file.
	SourceUpload Source = "upload"
	// SourceSnapshot marks observations rebuilt from a full parameter-set
	// snapshot of the remote solver.
	SourceSnapshot Source = "snapshot"
	// SourceSummary marks observations rebuilt from the solver's
	// per-dataset summary endpoint.
	SourceSummary Source = "summary"
)

// DefaultPassband is applied when no passband is supplied.
const DefaultPassband = "Johnson:V"

// Record is the per-dataset value object. Observational arrays obey the
// invariant len(Times) == len(value array) == len(Sigmas); a record with no
// observations has all three empty. Model arrays are populated only after a
// successful remote computation and are cleared whenever the parameters the
// model depends on change. Kind is immutable after creation.
type Record struct {
	Kind     Kind
	Label    string
	Passband string

	Times  []float64
	Sigmas []float64

	// Observational values: Fluxes for light curves, the RV pair for
	// radial-velocity datasets.
	Fluxes      []float64
	RVPrimary   []float64
	RVSecondary []float64

	ModelFluxes      []float64
	ModelRVPrimary   []float64
	ModelRVSecondary []float64

	// Window is the canonical cycle over which the model is sampled.
	Window curve.Window

	Source Source

	ShowData  bool
	ShowModel bool
}

// newRecord returns a record populated with template defaults.
func newRecord() Record {
	return Record{
		Kind:     KindLightCurve,
		Passband: DefaultPassband,
		Window:   curve.DefaultWindow(),
		Source:   SourceSynthetic,
	}
}

// DataPoints returns the number of observational samples.
func (r *Record) DataPoints() int {
	return len(r.Times)
}

// HasData reports whether any observational points exist.
func (r *Record) HasData() bool {
	return len(r.Times) > 0
}

// HasModel reports whether a computed model is available for the record's
// kind.
func (r *Record) HasModel() bool {
	if r.Kind == KindRadialVelocity {
		return len(r.ModelRVPrimary) > 0 || len(r.ModelRVSecondary) > 0
	}
	return len(r.ModelFluxes) > 0
}

// ClearModel drops all computed model arrays. Called when any parameter the
// model depends on changes.
func (r *Record) ClearModel() {
	r.ModelFluxes = nil
	r.ModelRVPrimary = nil
	r.ModelRVSecondary = nil
}

// validate checks the observational length invariant and the phase window.
func (r *Record) validate() error {
	if err := r.Window.Validate(); err != nil {
		return err
	}
	n := len(r.Times)
	if len(r.Sigmas) != n {
		return fmt.Errorf("dataset %s: %d times but %d sigmas", r.Label, n, len(r.Sigmas))
	}
	// Every non-empty value array must match the time array exactly; a
	// single mismatched array would index out of range downstream.
	switch r.Kind {
	case KindLightCurve:
		if len(r.Fluxes) > 0 && len(r.Fluxes) != n {
			return fmt.Errorf("dataset %s: %d times but %d fluxes", r.Label, n, len(r.Fluxes))
		}
	case KindRadialVelocity:
		if len(r.RVPrimary) > 0 && len(r.RVPrimary) != n {
			return fmt.Errorf("dataset %s: %d times but %d primary rvs", r.Label, n, len(r.RVPrimary))
		}
		if len(r.RVSecondary) > 0 && len(r.RVSecondary) != n {
			return fmt.Errorf("dataset %s: %d times but %d secondary rvs", r.Label, n, len(r.RVSecondary))
		}
		if n > 0 && len(r.RVPrimary) == 0 && len(r.RVSecondary) == 0 {
			return fmt.Errorf("dataset %s: %d times but no rv array", r.Label, n)
		}
	}
	return nil
}
