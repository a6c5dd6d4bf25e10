package dataset

import (
	"context"
	"fmt"
	"sort"

	"github.com/papapumpkin/cepheid/internal/curve"
)

// defaultDatasetTag marks template parameters in a snapshot that belong to
// no concrete dataset.
const defaultDatasetTag = "_default"

// SyncFromSnapshot destructively rebuilds the registry from a full
// parameter-set snapshot. The sync is best-effort: missing parameters yield
// empty arrays, never an error. Display flags reset to false and model
// arrays come from the snapshot's model context.
func (g *Registry) SyncFromSnapshot(pset []Parameter) {
	lookup := newParamLookup(pset)

	labels := lookup.labels()
	g.records = make(map[string]*Record, len(labels))
	g.order = g.order[:0]

	for _, label := range labels {
		rec := newRecord()
		rec.Label = label
		rec.Kind = lookup.kind(label)

		if pb, ok := lookup.str(label, "passband", "dataset", ""); ok {
			rec.Passband = pb
		}
		rec.Times = lookup.floats(label, "times", "dataset", "")
		rec.Sigmas = lookup.floats(label, "sigmas", "dataset", "")

		switch rec.Kind {
		case KindLightCurve:
			rec.Fluxes = lookup.floats(label, "fluxes", "dataset", "")
			rec.ModelFluxes = lookup.floats(label, "fluxes", "model", "")
		case KindRadialVelocity:
			rec.RVPrimary = lookup.floats(label, "rv1s", "dataset", "primary")
			rec.RVSecondary = lookup.floats(label, "rv2s", "dataset", "secondary")
			rec.ModelRVPrimary = lookup.floats(label, "rvs", "model", "primary")
			rec.ModelRVSecondary = lookup.floats(label, "rvs", "model", "secondary")
		}

		rec.Window = lookup.window(label)

		if rec.HasData() {
			rec.Source = SourceSnapshot
		} else {
			rec.Source = SourceSynthetic
		}

		g.records[label] = &rec
		g.order = append(g.order, label)
	}
}

// SyncFromSummary destructively rebuilds the registry from the solver's
// per-dataset summaries. A failed fetch leaves the registry unchanged.
// Model arrays always start empty after a summary sync and must be
// recomputed.
func (g *Registry) SyncFromSummary(ctx context.Context) error {
	summaries, err := g.remote.FetchSummary(ctx)
	if err != nil {
		return fmt.Errorf("fetching dataset summaries: %w", err)
	}

	labels := make([]string, 0, len(summaries))
	for label := range summaries {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	g.records = make(map[string]*Record, len(labels))
	g.order = g.order[:0]

	for _, label := range labels {
		sum := summaries[label]
		rec := newRecord()
		rec.Label = label
		if sum.Kind.Valid() {
			rec.Kind = sum.Kind
		}
		if sum.Passband != "" {
			rec.Passband = sum.Passband
		}
		rec.Times = sum.Times
		rec.Sigmas = sum.Sigmas
		rec.Fluxes = sum.Fluxes
		rec.RVPrimary = sum.RVPrimary
		rec.RVSecondary = sum.RVSecondary

		if rec.HasData() {
			rec.Source = SourceSummary
		} else {
			rec.Source = SourceSynthetic
		}

		g.records[label] = &rec
		g.order = append(g.order, label)
	}
	return nil
}

// paramLookup indexes snapshot parameters by dataset label so that field
// extraction is a single table lookup instead of per-source scanning code.
type paramLookup struct {
	byDataset map[string][]Parameter
}

func newParamLookup(pset []Parameter) *paramLookup {
	l := &paramLookup{byDataset: make(map[string][]Parameter)}
	for _, par := range pset {
		if par.Dataset == "" || par.Dataset == defaultDatasetTag {
			continue
		}
		l.byDataset[par.Dataset] = append(l.byDataset[par.Dataset], par)
	}
	return l
}

// labels returns the distinct dataset labels, sorted for deterministic
// insertion order.
func (l *paramLookup) labels() []string {
	out := make([]string, 0, len(l.byDataset))
	for label := range l.byDataset {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// kind locates the dataset kind from any tagged parameter, defaulting to a
// light curve when no parameter carries one.
func (l *paramLookup) kind(label string) Kind {
	for _, par := range l.byDataset[label] {
		if k := Kind(par.Kind); k.Valid() {
			return k
		}
	}
	return KindLightCurve
}

// value returns the raw value of the first parameter matching qualifier and
// context (and component, when non-empty).
func (l *paramLookup) value(label, qualifier, context, component string) (any, bool) {
	for _, par := range l.byDataset[label] {
		if par.Qualifier != qualifier || par.Context != context {
			continue
		}
		if component != "" && par.Component != component {
			continue
		}
		return par.Value, true
	}
	return nil, false
}

func (l *paramLookup) str(label, qualifier, context, component string) (string, bool) {
	v, ok := l.value(label, qualifier, context, component)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// floats coerces an array parameter into []float64. Absent or malformed
// values become an empty array: sync pathways never abort on partial data.
func (l *paramLookup) floats(label, qualifier, context, component string) []float64 {
	v, ok := l.value(label, qualifier, context, component)
	if !ok {
		return nil
	}
	return coerceFloats(v)
}

// window pulls the per-dataset phase window from ui-context parameters,
// falling back to the defaults for anything missing.
func (l *paramLookup) window(label string) curve.Window {
	w := curve.DefaultWindow()
	if v, ok := l.value(label, "phase_min", "ui", ""); ok {
		if f, ok := coerceFloat(v); ok {
			w.PhaseMin = f
		}
	}
	if v, ok := l.value(label, "phase_max", "ui", ""); ok {
		if f, ok := coerceFloat(v); ok {
			w.PhaseMax = f
		}
	}
	if v, ok := l.value(label, "phase_length", "ui", ""); ok {
		if f, ok := coerceFloat(v); ok && int(f) >= 2 {
			w.Resolution = int(f)
		}
	}
	if w.Validate() != nil {
		return curve.DefaultWindow()
	}
	return w
}

// coerceFloats accepts the shapes a JSON-decoded array parameter can take.
func coerceFloats(v any) []float64 {
	switch arr := v.(type) {
	case []float64:
		return arr
	case []any:
		out := make([]float64, 0, len(arr))
		for _, el := range arr {
			f, ok := coerceFloat(el)
			if !ok {
				return nil
			}
			out = append(out, f)
		}
		return out
	default:
		return nil
	}
}

func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
