package project

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/cepheid/internal/curve"
	"github.com/papapumpkin/cepheid/internal/dataset"
	"github.com/papapumpkin/cepheid/internal/ephemeris"
)

func TestLoad_MissingFileIsEmptyProject(t *testing.T) {
	t.Parallel()
	p, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Period != 0 || len(p.Datasets) != 0 {
		t.Errorf("missing file should load as empty project, got %+v", p)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "cepheid.toml")

	want := &Project{
		Period: 2.5,
		T0:     2459123.4,
		Datasets: []Entry{
			{
				Label:      "lc01",
				Kind:       "lc",
				Passband:   "TESS:T",
				Source:     "upload",
				DataFile:   "obs/lc01.dat",
				PhaseMin:   -0.5,
				PhaseMax:   0.5,
				Resolution: 201,
				ShowData:   true,
				ShowModel:  true,
			},
			{
				Label:      "rv01",
				Kind:       "rv",
				PhaseMin:   -0.5,
				PhaseMax:   0.5,
				Resolution: 101,
			},
		},
	}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("project mismatch (-want +got):\n%s", diff)
	}
}

func TestFromSession_OmitsBulkArrays(t *testing.T) {
	t.Parallel()
	eph := ephemeris.Ephemeris{Period: 3.1, T0: 100}
	records := []dataset.Record{
		{
			Kind:      dataset.KindLightCurve,
			Label:     "lc01",
			Passband:  dataset.DefaultPassband,
			Times:     []float64{1, 2, 3},
			Sigmas:    []float64{0.01, 0.01, 0.01},
			Fluxes:    []float64{1, 0.9, 1},
			Window:    curve.DefaultWindow(),
			Source:    dataset.SourceUpload,
			ShowData:  true,
			ShowModel: false,
		},
	}

	p := FromSession(eph, records)
	if p.Period != 3.1 || p.T0 != 100 {
		t.Errorf("ephemeris = %v/%v, want 3.1/100", p.Period, p.T0)
	}
	if len(p.Datasets) != 1 {
		t.Fatalf("datasets = %d, want 1", len(p.Datasets))
	}
	e := p.Datasets[0]
	if e.Label != "lc01" || e.Kind != "lc" || !e.ShowData {
		t.Errorf("entry = %+v", e)
	}
	if e.Resolution != curve.DefaultWindow().Resolution {
		t.Errorf("resolution = %d, want default", e.Resolution)
	}
}

func TestEntryFields(t *testing.T) {
	t.Parallel()

	t.Run("valid window carried over", func(t *testing.T) {
		t.Parallel()
		e := Entry{Label: "lc01", Kind: "lc", PhaseMin: -0.25, PhaseMax: 0.25, Resolution: 51}
		f := e.Fields()
		if f.Label != "lc01" || f.Kind != dataset.KindLightCurve {
			t.Errorf("fields = %+v", f)
		}
		want := curve.Window{PhaseMin: -0.25, PhaseMax: 0.25, Resolution: 51}
		if f.Window == nil || *f.Window != want {
			t.Errorf("window = %v, want %v", f.Window, want)
		}
	})

	t.Run("invalid window falls back to default", func(t *testing.T) {
		t.Parallel()
		e := Entry{Label: "lc01", Kind: "lc"}
		f := e.Fields()
		if f.Window == nil || *f.Window != curve.DefaultWindow() {
			t.Errorf("window = %v, want default", f.Window)
		}
	})
}
