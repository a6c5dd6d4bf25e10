// Package tui is the interactive dataset browser. It renders the registry
// as a navigable list and toggles the per-dataset display flags in place;
// every other mutation goes through the CLI commands.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/cepheid/internal/dataset"
	"github.com/papapumpkin/cepheid/internal/ephemeris"
)

// Model is the root BubbleTea model for the dataset browser.
type Model struct {
	Registry *dataset.Registry
	Eph      ephemeris.Ephemeris

	Cursor int
	Width  int
	Height int
	Err    error

	keys KeyMap
}

// NewModel creates a browser over the given registry and ephemeris.
func NewModel(reg *dataset.Registry, eph ephemeris.Ephemeris) Model {
	return Model{
		Registry: reg,
		Eph:      eph,
		Width:    80,
		Height:   24,
		keys:     DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.ToggleData):
			m.toggleFlag(dataset.FlagShowData)
		case key.Matches(msg, m.keys.ToggleModel):
			m.toggleFlag(dataset.FlagShowModel)
		}
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	n := m.Registry.Len()
	if n == 0 {
		m.Cursor = 0
		return
	}
	m.Cursor = (m.Cursor + delta + n) % n
}

func (m *Model) toggleFlag(flag dataset.DisplayFlag) {
	labels := m.Registry.Labels()
	if m.Cursor >= len(labels) {
		return
	}
	label := labels[m.Cursor]
	rec, ok := m.Registry.Get(label)
	if !ok {
		return
	}
	value := rec.ShowData
	if flag == dataset.FlagShowModel {
		value = rec.ShowModel
	}
	m.Err = m.Registry.SetDisplayFlag(label, flag, !value)
}

// SelectedLabel returns the label under the cursor, or empty when the
// registry is empty.
func (m Model) SelectedLabel() string {
	labels := m.Registry.Labels()
	if m.Cursor >= len(labels) {
		return ""
	}
	return labels[m.Cursor]
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.statusBar())
	b.WriteString("\n")

	records := m.Registry.Records()
	if len(records) == 0 {
		b.WriteString(styleEmptyHint.Render("no datasets; add one with `cepheid dataset add`"))
		b.WriteString("\n")
	} else {
		for i, rec := range records {
			b.WriteString(m.renderRow(i, rec))
			b.WriteString("\n")
		}
	}

	if m.Err != nil {
		b.WriteString(styleRowError.Render(fmt.Sprintf("error: %v", m.Err)))
		b.WriteString("\n")
	}

	footer := Footer{Width: m.Width, Bindings: FooterBindings(m.keys)}
	b.WriteString(footer.View())
	return b.String()
}

func (m Model) statusBar() string {
	eph := styleStatusLabel.Render("P=") + styleStatusValue.Render(fmt.Sprintf("%g", m.Eph.Period)) +
		" " + styleStatusLabel.Render("T0=") + styleStatusValue.Render(fmt.Sprintf("%g", m.Eph.T0))
	count := styleStatusLabel.Render("datasets=") + styleStatusValue.Render(fmt.Sprintf("%d", m.Registry.Len()))
	line := "cepheid  " + eph + "  " + count
	if m.Eph.Validate() != nil {
		line += "  " + styleStatusWarn.Render("no valid ephemeris")
	}
	return styleStatusBar.Width(m.Width).Render(line)
}

func (m Model) renderRow(i int, rec dataset.Record) string {
	indicator := "  "
	rowStyle := styleRowNormal
	if i == m.Cursor {
		indicator = styleSelectionIndicator.Render(selectionIndicator) + " "
		rowStyle = styleRowSelected
	}

	dataIcon, modelIcon := iconOff, iconOff
	if rec.ShowData {
		dataIcon = iconOn
	}
	if rec.ShowModel {
		modelIcon = iconOn
	}

	modelTag := "-"
	if rec.HasModel() {
		modelTag = styleRowModel.Render("model")
	}

	row := fmt.Sprintf("%-12s %-3s %-12s %5d pts  data:%s model:%s  %s",
		rec.Label, rec.Kind, rec.Passband, rec.DataPoints(), dataIcon, modelIcon, modelTag)
	return indicator + rowStyle.Render(row)
}
