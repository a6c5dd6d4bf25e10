package dataset

import "context"

// Remote is the slice of the solver API the registry needs. The registry
// awaits every call to completion before reflecting its result locally; it
// performs no retries and tracks no in-flight calls.
type Remote interface {
	// RegisterDataset submits a dataset definition for future computation.
	// Re-registering an existing label replaces it.
	RegisterDataset(ctx context.Context, def Definition) error

	// DropDataset removes a dataset from the solver side.
	DropDataset(ctx context.Context, label string) error

	// FetchSummary returns one flat summary per dataset label currently
	// known to the solver.
	FetchSummary(ctx context.Context) (map[string]Summary, error)
}

// Definition is the wire form of a dataset registration.
type Definition struct {
	Kind          Kind      `json:"kind"`
	Label         string    `json:"dataset"`
	Passband      string    `json:"passband"`
	ComputePhases []float64 `json:"compute_phases"`
	Times         []float64 `json:"times"`
	Sigmas        []float64 `json:"sigmas"`
	Fluxes        []float64 `json:"fluxes,omitempty"`
	RVPrimary     []float64 `json:"rv1s,omitempty"`
	RVSecondary   []float64 `json:"rv2s,omitempty"`
	Overwrite     bool      `json:"overwrite"`
}

// Summary is the solver's flat per-dataset description. It never carries
// model arrays; models must be recomputed after a summary sync.
type Summary struct {
	Kind        Kind      `json:"kind"`
	Passband    string    `json:"passband"`
	Times       []float64 `json:"times"`
	Sigmas      []float64 `json:"sigmas"`
	Fluxes      []float64 `json:"fluxes"`
	RVPrimary   []float64 `json:"rv1s"`
	RVSecondary []float64 `json:"rv2s"`
}

// Parameter is one descriptor from a full parameter-set snapshot. Each is
// tagged with qualifier/context/component/dataset/kind; Value carries the
// JSON-decoded payload, which for array parameters is a []any of numbers.
type Parameter struct {
	Qualifier string `json:"qualifier"`
	Context   string `json:"context"`
	Component string `json:"component,omitempty"`
	Dataset   string `json:"dataset,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Value     any    `json:"value"`
}

// ModelValues is the computed model output for one dataset label.
type ModelValues struct {
	Fluxes      []float64 `json:"fluxes"`
	RVPrimary   []float64 `json:"rv1s"`
	RVSecondary []float64 `json:"rv2s"`
}
