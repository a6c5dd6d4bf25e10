package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/cepheid/internal/dataset"
	"github.com/papapumpkin/cepheid/internal/ephemeris"
)

// fakeRemote accepts every registration so registry mutations succeed
// without a solver.
type fakeRemote struct{}

func (fakeRemote) RegisterDataset(context.Context, dataset.Definition) error { return nil }
func (fakeRemote) DropDataset(context.Context, string) error                 { return nil }
func (fakeRemote) FetchSummary(context.Context) (map[string]dataset.Summary, error) {
	return nil, nil
}

func newTestModel(t *testing.T, labels ...string) Model {
	t.Helper()
	reg := dataset.NewRegistry(fakeRemote{})
	for _, label := range labels {
		if _, err := reg.Add(context.Background(), dataset.Fields{
			Kind:  dataset.KindLightCurve,
			Label: label,
		}); err != nil {
			t.Fatalf("Add(%s): %v", label, err)
		}
	}
	return NewModel(reg, ephemeris.Ephemeris{Period: 2, T0: 10})
}

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestCursor_WrapsBothWays(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, "a", "b", "c")

	updated, _ := m.Update(keyMsg('k'))
	m = updated.(Model)
	if m.Cursor != 2 {
		t.Errorf("cursor after up from 0 = %d, want 2 (wrap)", m.Cursor)
	}

	updated, _ = m.Update(keyMsg('j'))
	m = updated.(Model)
	if m.Cursor != 0 {
		t.Errorf("cursor after down from 2 = %d, want 0 (wrap)", m.Cursor)
	}
}

func TestToggleData_FlipsSelectedRecord(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, "lc01", "lc02")

	updated, _ := m.Update(keyMsg('d'))
	m = updated.(Model)

	rec, _ := m.Registry.Get("lc01")
	if !rec.ShowData {
		t.Error("ShowData should be on after first toggle")
	}
	other, _ := m.Registry.Get("lc02")
	if other.ShowData {
		t.Error("toggle must only touch the selected record")
	}

	updated, _ = m.Update(keyMsg('d'))
	m = updated.(Model)
	rec, _ = m.Registry.Get("lc01")
	if rec.ShowData {
		t.Error("ShowData should be off after second toggle")
	}
}

func TestToggleModel_FlipsSelectedRecord(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, "lc01")

	updated, _ := m.Update(keyMsg('m'))
	m = updated.(Model)

	rec, _ := m.Registry.Get("lc01")
	if !rec.ShowModel {
		t.Error("ShowModel should be on after toggle")
	}
}

func TestQuit(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	_, cmd := m.Update(keyMsg('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("command = %T, want tea.QuitMsg", cmd())
	}
}

func TestView(t *testing.T) {
	t.Parallel()

	t.Run("lists dataset labels", func(t *testing.T) {
		t.Parallel()
		m := newTestModel(t, "lc01", "rv01")
		out := m.View()
		for _, label := range []string{"lc01", "rv01"} {
			if !strings.Contains(out, label) {
				t.Errorf("view missing label %q", label)
			}
		}
	})

	t.Run("empty registry shows a hint", func(t *testing.T) {
		t.Parallel()
		m := newTestModel(t)
		if !strings.Contains(m.View(), "no datasets") {
			t.Error("view should hint at adding a dataset")
		}
	})

	t.Run("invalid ephemeris is called out", func(t *testing.T) {
		t.Parallel()
		m := newTestModel(t, "lc01")
		m.Eph = ephemeris.Ephemeris{}
		if !strings.Contains(m.View(), "no valid ephemeris") {
			t.Error("view should warn about the missing ephemeris")
		}
	})
}

func TestWindowSize(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)
	if m.Width != 120 || m.Height != 40 {
		t.Errorf("size = %dx%d, want 120x40", m.Width, m.Height)
	}
}
