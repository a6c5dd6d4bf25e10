package dataset

import (
	"context"
	"fmt"
	"slices"

	"github.com/papapumpkin/cepheid/internal/curve"
)

// DisplayFlag names one of the two per-dataset plot toggles.
type DisplayFlag string

const (
	// FlagShowData toggles plotting of the observational points. It has no
	// effect on a dataset without observations.
	FlagShowData DisplayFlag = "show_data"
	// FlagShowModel toggles plotting of the computed model.
	FlagShowModel DisplayFlag = "show_model"
)

// Fields is the plain record the form layer hands the registry for a
// create or edit. Zero-valued optional fields fall back to template
// defaults.
type Fields struct {
	Kind     Kind
	Label    string
	Passband string

	// Window overrides the default phase window when non-nil.
	Window *curve.Window

	Times  []float64
	Sigmas []float64

	Fluxes      []float64
	RVPrimary   []float64
	RVSecondary []float64

	// Source overrides the inferred provenance when non-empty.
	Source Source
}

// Registry is the exclusive owner of the label-to-record map for one
// session. All operations are invoked sequentially from one logical session
// context; the registry is not safe for concurrent use.
type Registry struct {
	remote  Remote
	records map[string]*Record
	order   []string // insertion order, drives deterministic plot styling
}

// NewRegistry creates an empty registry backed by the given remote solver.
func NewRegistry(remote Remote) *Registry {
	return &Registry{
		remote:  remote,
		records: make(map[string]*Record),
	}
}

// Len returns the number of records.
func (g *Registry) Len() int {
	return len(g.records)
}

// Get returns a copy of the record for label. The copy shares array
// backing; callers must treat it as read-only.
func (g *Registry) Get(label string) (Record, bool) {
	rec, ok := g.records[label]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Records returns copies of all records in insertion order. Array backing
// is shared; callers must treat the slices as read-only.
func (g *Registry) Records() []Record {
	out := make([]Record, 0, len(g.order))
	for _, label := range g.order {
		out = append(out, *g.records[label])
	}
	return out
}

// Labels returns all labels in insertion order.
func (g *Registry) Labels() []string {
	return slices.Clone(g.order)
}

// Add validates the fields, registers the dataset with the remote solver,
// and on success inserts the new record. A failed remote call leaves the
// registry unchanged.
func (g *Registry) Add(ctx context.Context, fields Fields) (Record, error) {
	if fields.Label == "" {
		return Record{}, ErrMissingLabel
	}
	if !fields.Kind.Valid() {
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidKind, fields.Kind)
	}
	if _, exists := g.records[fields.Label]; exists {
		return Record{}, fmt.Errorf("%w: %s", ErrDuplicateLabel, fields.Label)
	}

	rec, err := buildRecord(fields)
	if err != nil {
		return Record{}, err
	}

	if err := g.remote.RegisterDataset(ctx, definitionFor(&rec)); err != nil {
		return Record{}, fmt.Errorf("registering dataset %s: %w", rec.Label, err)
	}

	g.records[rec.Label] = &rec
	g.order = append(g.order, rec.Label)
	return rec, nil
}

// Update replaces the defining fields of an existing record, keeping its
// position, display flags, and kind. The updated definition is re-registered
// remotely before the local record changes; the model arrays are cleared
// because the defining parameters changed.
func (g *Registry) Update(ctx context.Context, fields Fields) (Record, error) {
	if fields.Label == "" {
		return Record{}, ErrMissingLabel
	}
	old, exists := g.records[fields.Label]
	if !exists {
		return Record{}, fmt.Errorf("%w: %s", ErrUnknownLabel, fields.Label)
	}
	if fields.Kind != "" && fields.Kind != old.Kind {
		return Record{}, fmt.Errorf("%w: kind is immutable (dataset %s is %s)", ErrInvalidKind, fields.Label, old.Kind)
	}
	fields.Kind = old.Kind

	rec, err := buildRecord(fields)
	if err != nil {
		return Record{}, err
	}
	rec.ShowData = old.ShowData
	rec.ShowModel = old.ShowModel

	if err := g.remote.RegisterDataset(ctx, definitionFor(&rec)); err != nil {
		return Record{}, fmt.Errorf("re-registering dataset %s: %w", rec.Label, err)
	}

	g.records[rec.Label] = &rec
	return rec, nil
}

// Remove asks the remote solver to drop the dataset and deletes the local
// record only once that succeeds, keeping the registry consistent with
// remote state.
func (g *Registry) Remove(ctx context.Context, label string) error {
	if _, exists := g.records[label]; !exists {
		return fmt.Errorf("%w: %s", ErrUnknownLabel, label)
	}

	if err := g.remote.DropDataset(ctx, label); err != nil {
		return fmt.Errorf("dropping dataset %s: %w", label, err)
	}

	delete(g.records, label)
	g.order = slices.DeleteFunc(g.order, func(l string) bool { return l == label })
	return nil
}

// ReaddAll re-submits every record's defining fields to the remote solver
// unchanged. Used after a structural change invalidates solver-side dataset
// registration. Submitting the same definitions twice yields the same
// remote state.
func (g *Registry) ReaddAll(ctx context.Context) error {
	for _, label := range g.order {
		rec := g.records[label]
		if err := g.remote.RegisterDataset(ctx, definitionFor(rec)); err != nil {
			return fmt.Errorf("re-registering dataset %s: %w", label, err)
		}
	}
	return nil
}

// SetDisplayFlag sets one of the plot toggles in place. No remote call.
func (g *Registry) SetDisplayFlag(label string, flag DisplayFlag, value bool) error {
	rec, exists := g.records[label]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownLabel, label)
	}
	switch flag {
	case FlagShowData:
		rec.ShowData = value
	case FlagShowModel:
		rec.ShowModel = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFlag, flag)
	}
	return nil
}

// ApplyModel installs computed model arrays per label. Labels absent from
// results have their model arrays cleared, mirroring the solver's notion of
// which datasets were computed.
func (g *Registry) ApplyModel(results map[string]ModelValues) {
	for _, rec := range g.records {
		mv, ok := results[rec.Label]
		if !ok {
			rec.ClearModel()
			continue
		}
		rec.ModelFluxes = mv.Fluxes
		rec.ModelRVPrimary = mv.RVPrimary
		rec.ModelRVSecondary = mv.RVSecondary
	}
}

// ClearModels drops the model arrays of every record. Called when an
// ephemeris or adjustable parameter the models depend on changes.
func (g *Registry) ClearModels() {
	for _, rec := range g.records {
		rec.ClearModel()
	}
}

// Restore installs previously persisted records without any remote calls.
// It is the hydration path used by the local store at startup and is
// destructive like the sync pathways.
func (g *Registry) Restore(records []Record) {
	g.records = make(map[string]*Record, len(records))
	g.order = g.order[:0]
	for i := range records {
		rec := records[i]
		if rec.Label == "" {
			continue
		}
		g.records[rec.Label] = &rec
		g.order = append(g.order, rec.Label)
	}
}

// buildRecord merges fields into the template and validates the result.
func buildRecord(fields Fields) (Record, error) {
	rec := newRecord()
	rec.Kind = fields.Kind
	rec.Label = fields.Label
	if fields.Passband != "" {
		rec.Passband = fields.Passband
	}
	if fields.Window != nil {
		rec.Window = *fields.Window
	}
	rec.Times = fields.Times
	rec.Sigmas = fields.Sigmas
	rec.Fluxes = fields.Fluxes
	rec.RVPrimary = fields.RVPrimary
	rec.RVSecondary = fields.RVSecondary

	switch {
	case fields.Source != "":
		rec.Source = fields.Source
	case rec.HasData():
		rec.Source = SourceUpload
	default:
		rec.Source = SourceSynthetic
	}

	if err := rec.validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// definitionFor derives the remote registration request for a record,
// including the synthetic compute-phase grid from its window.
func definitionFor(rec *Record) Definition {
	def := Definition{
		Kind:          rec.Kind,
		Label:         rec.Label,
		Passband:      rec.Passband,
		ComputePhases: rec.Window.Grid(),
		Times:         rec.Times,
		Sigmas:        rec.Sigmas,
		Overwrite:     true,
	}
	switch rec.Kind {
	case KindLightCurve:
		def.Fluxes = rec.Fluxes
	case KindRadialVelocity:
		def.RVPrimary = rec.RVPrimary
		def.RVSecondary = rec.RVSecondary
	}
	return def
}
