package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/cepheid/internal/curve"
	"github.com/papapumpkin/cepheid/internal/dataset"
	"github.com/papapumpkin/cepheid/internal/ephemeris"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "state", "cepheid.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	t.Parallel()
	// newTestStore opens under a directory that does not exist yet.
	newTestStore(t)
}

func TestEphemeris_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	_, found, err := s.LoadEphemeris(ctx)
	if err != nil {
		t.Fatalf("LoadEphemeris: %v", err)
	}
	if found {
		t.Fatal("found an ephemeris in an empty store")
	}

	want := ephemeris.Ephemeris{Period: 2.5, T0: 2459123.4}
	if err := s.SaveEphemeris(ctx, want); err != nil {
		t.Fatalf("SaveEphemeris: %v", err)
	}

	got, found, err := s.LoadEphemeris(ctx)
	if err != nil {
		t.Fatalf("LoadEphemeris: %v", err)
	}
	if !found {
		t.Fatal("saved ephemeris not found")
	}
	if got != want {
		t.Errorf("ephemeris = %+v, want %+v", got, want)
	}

	// A second save overwrites the single row.
	want = ephemeris.Ephemeris{Period: 3.1, T0: 2459200.0}
	if err := s.SaveEphemeris(ctx, want); err != nil {
		t.Fatalf("SaveEphemeris (overwrite): %v", err)
	}
	got, _, err = s.LoadEphemeris(ctx)
	if err != nil {
		t.Fatalf("LoadEphemeris: %v", err)
	}
	if got != want {
		t.Errorf("overwritten ephemeris = %+v, want %+v", got, want)
	}
}

func TestRecords_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	records := []dataset.Record{
		{
			Kind:        dataset.KindLightCurve,
			Label:       "lc01",
			Passband:    "TESS:T",
			Times:       []float64{1, 2, 3},
			Sigmas:      []float64{0.01, 0.01, 0.01},
			Fluxes:      []float64{1, 0.8, 1},
			ModelFluxes: []float64{0.99, 0.81, 0.99},
			Window:      curve.Window{PhaseMin: -0.5, PhaseMax: 0.5, Resolution: 101},
			Source:      dataset.SourceUpload,
			ShowData:    true,
			ShowModel:   true,
		},
		{
			Kind:        dataset.KindRadialVelocity,
			Label:       "rv01",
			Passband:    dataset.DefaultPassband,
			Times:       []float64{1, 2},
			Sigmas:      []float64{0.5, 0.5},
			RVPrimary:   []float64{10, -10},
			RVSecondary: []float64{-20, 20},
			Window:      curve.DefaultWindow(),
			Source:      dataset.SourceSnapshot,
		},
	}

	if err := s.SaveRecords(ctx, records); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	got, err := s.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if diff := cmp.Diff(records, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestRecords_OrderSurvivesReload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	labels := []string{"z01", "a01", "m01"}
	var records []dataset.Record
	for _, l := range labels {
		records = append(records, dataset.Record{
			Kind:   dataset.KindLightCurve,
			Label:  l,
			Window: curve.DefaultWindow(),
			Source: dataset.SourceSynthetic,
		})
	}
	if err := s.SaveRecords(ctx, records); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	got, err := s.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	for i, rec := range got {
		if rec.Label != labels[i] {
			t.Errorf("position %d: label = %q, want %q", i, rec.Label, labels[i])
		}
	}
}

func TestSaveRecords_ReplacesPreviousSave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	first := []dataset.Record{
		{Kind: dataset.KindLightCurve, Label: "lc01", Window: curve.DefaultWindow(), Source: dataset.SourceSynthetic},
		{Kind: dataset.KindLightCurve, Label: "lc02", Window: curve.DefaultWindow(), Source: dataset.SourceSynthetic},
	}
	if err := s.SaveRecords(ctx, first); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	second := first[1:]
	if err := s.SaveRecords(ctx, second); err != nil {
		t.Fatalf("SaveRecords (replace): %v", err)
	}

	got, err := s.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(got) != 1 || got[0].Label != "lc02" {
		t.Errorf("records after replace = %+v, want only lc02", got)
	}
}

func TestReopen_KeepsState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cepheid.db")

	s1, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s1.SaveEphemeris(ctx, ephemeris.Ephemeris{Period: 2, T0: 10}); err != nil {
		t.Fatalf("SaveEphemeris: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, found, err := s2.LoadEphemeris(ctx)
	if err != nil {
		t.Fatalf("LoadEphemeris: %v", err)
	}
	if !found || got.Period != 2 || got.T0 != 10 {
		t.Errorf("ephemeris after reopen = %+v found=%v", got, found)
	}
}
