// Package project reads and writes the portable project file. The project
// file carries the ephemeris and per-dataset definitions so a session can be
// reproduced elsewhere; bulk observation arrays stay out of it and are
// re-fetched from the solver or re-read from observation files.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/cepheid/internal/curve"
	"github.com/papapumpkin/cepheid/internal/dataset"
	"github.com/papapumpkin/cepheid/internal/ephemeris"
)

// DefaultPath is the conventional location for the project file.
const DefaultPath = "cepheid.toml"

// Entry describes one dataset without its bulk arrays.
type Entry struct {
	Label      string  `toml:"label"`
	Kind       string  `toml:"kind"`
	Passband   string  `toml:"passband,omitempty"`
	Source     string  `toml:"source,omitempty"`
	DataFile   string  `toml:"data_file,omitempty"`
	PhaseMin   float64 `toml:"phase_min"`
	PhaseMax   float64 `toml:"phase_max"`
	Resolution int     `toml:"resolution"`
	ShowData   bool    `toml:"show_data"`
	ShowModel  bool    `toml:"show_model"`
}

// Project is the on-disk project description.
type Project struct {
	Period   float64 `toml:"period"`
	T0       float64 `toml:"t0"`
	Datasets []Entry `toml:"datasets"`
}

// Load reads a project file from the given path. If the file does not exist,
// it returns a zero-value Project and no error, allowing callers to proceed
// with an empty project.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Project{}, nil
		}
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	var p Project
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project file: %w", err)
	}
	return &p, nil
}

// Save writes the project to the given path, creating parent directories as
// needed.
func Save(path string, p *Project) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling project file: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing project file: %w", err)
	}
	return nil
}

// FromSession builds a project description from the active ephemeris and
// registry records.
func FromSession(eph ephemeris.Ephemeris, records []dataset.Record) *Project {
	p := &Project{Period: eph.Period, T0: eph.T0}
	for _, rec := range records {
		p.Datasets = append(p.Datasets, Entry{
			Label:      rec.Label,
			Kind:       string(rec.Kind),
			Passband:   rec.Passband,
			Source:     string(rec.Source),
			PhaseMin:   rec.Window.PhaseMin,
			PhaseMax:   rec.Window.PhaseMax,
			Resolution: rec.Window.Resolution,
			ShowData:   rec.ShowData,
			ShowModel:  rec.ShowModel,
		})
	}
	return p
}

// Ephemeris returns the project's orbital ephemeris.
func (p *Project) Ephemeris() ephemeris.Ephemeris {
	return ephemeris.Ephemeris{Period: p.Period, T0: p.T0}
}

// Fields converts an entry back into the registry's plain add form. The
// caller supplies observational arrays separately when the entry names a
// data file.
func (e Entry) Fields() dataset.Fields {
	w := curve.Window{PhaseMin: e.PhaseMin, PhaseMax: e.PhaseMax, Resolution: e.Resolution}
	if w.Validate() != nil {
		w = curve.DefaultWindow()
	}
	return dataset.Fields{
		Kind:     dataset.Kind(e.Kind),
		Label:    e.Label,
		Passband: e.Passband,
		Window:   &w,
	}
}
