package categories

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
	"github.com/mediashelf/mediashelf/internal/ui"
)

// Render writes the category list
func (m *Manager) Render(w io.Writer) error {
	m.mu.Lock()
	cats := m.categories
	loaded := m.loaded
	m.mu.Unlock()

	fmt.Fprintln(w, ui.TitleStyle.Render("Manage Categories"))
	fmt.Fprintln(w, ui.SubtitleStyle.Render("Built-in categories cannot be deleted"))

	if !loaded {
		fmt.Fprintln(w, ui.MutedStyle.Render("Loading…"))
		return nil
	}
	if len(cats) == 0 {
		ui.EmptyState(w, DefaultIcon, "No categories", "Create one to start organising your collection.")
		return nil
	}

	for _, c := range cats {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("●")
		name := lipgloss.NewStyle().Width(24).Render(c.Icon + " " + c.Name)
		meta := english.Plural(c.ItemCount, "item", "")
		if c.IsSystem {
			meta += " · Built-in"
		}
		fmt.Fprintf(w, "%4d %s %s %s\n", c.ID, swatch, name, ui.MutedStyle.Render(meta))
	}
	return nil
}
