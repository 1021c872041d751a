package settings

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
	"github.com/mediashelf/mediashelf/internal/ui"
)

// Render writes the navigation tree next to the active list
func (m *Manager) Render(w io.Writer) error {
	m.mu.Lock()
	nav := m.nav
	active := m.active
	entry := m.entry
	rows := append([]Row(nil), m.rows...)
	loaded := m.loaded
	loadErr := m.loadErr
	m.mu.Unlock()

	fmt.Fprintln(w, ui.TitleStyle.Render("Field Lists"))
	fmt.Fprintln(w, ui.SubtitleStyle.Render("Select a list on the left to view and edit its values"))
	fmt.Fprintln(w)

	var left strings.Builder
	for _, g := range nav {
		left.WriteString(ui.SectionStyle.Render(g.Title) + "\n")
		for _, e := range g.Entries {
			line := "  " + e.Label
			if e.Key == active {
				line = ui.ActiveStyle.Render("▸ " + e.Label)
			}
			left.WriteString(line + ui.MutedStyle.Render("  "+e.Key) + "\n")
		}
	}

	var right strings.Builder
	switch {
	case entry.Key == "":
		ui.EmptyState(&right, "👈", "Select a list", "Choose a field list from the left to manage its values.")
	case loadErr != nil:
		ui.EmptyState(&right, "", "Failed to load", loadErr.Error())
	case !loaded:
		right.WriteString(ui.MutedStyle.Render("Loading…"))
	default:
		right.WriteString(ui.TitleStyle.Render(entry.Label) + "  ")
		right.WriteString(ui.MutedStyle.Render(english.Plural(len(rows), "value", "")) + "\n")
		if len(rows) == 0 {
			right.WriteString(ui.MutedStyle.Render("No values yet — add one below.") + "\n")
		}
		for _, r := range rows {
			if r.State == RowEditing {
				fmt.Fprintf(&right, "%5d  [%s]  %s\n", r.Value.ID, r.Draft, ui.MutedStyle.Render("Save · Cancel"))
			} else {
				fmt.Fprintf(&right, "%5d  %s\n", r.Value.ID, r.Value.Value)
			}
		}
	}

	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().MarginRight(2).Render(left.String()),
		ui.PanelStyle.Render(right.String()),
	))
	return nil
}
