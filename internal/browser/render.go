package browser

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/ui"
)

const cardsPerRow = 3

// Title is the page heading for the current scope
func (b *Browser) Title() string {
	f := b.Filters()
	if f.CategoryID == nil {
		return "All Media"
	}
	if cat, ok := b.store.Category(*f.CategoryID); ok {
		return cat.Name
	}
	return "Library"
}

// Render writes the current page. A failed load is returned so the caller
// can show it in place of the view.
func (b *Browser) Render(w io.Writer) error {
	b.mu.Lock()
	f := b.filters
	view := b.view
	page := b.page
	err := b.err
	b.mu.Unlock()

	if err != nil {
		return err
	}

	fmt.Fprintln(w, ui.TitleStyle.Render(b.Title()))
	fmt.Fprintln(w, ui.SubtitleStyle.Render(filterSummary(f, view)))
	fmt.Fprintln(w)

	if page == nil {
		fmt.Fprintln(w, ui.MutedStyle.Render("Loading…"))
		return nil
	}
	if len(page.Items) == 0 {
		ui.EmptyState(w, "🔍", "No results found", "Try adjusting your filters or add some media.")
		return nil
	}

	if view == ViewList {
		for _, item := range page.Items {
			fmt.Fprintln(w, listRow(item))
		}
	} else {
		renderGrid(w, page.Items)
	}

	if page.Total > f.Limit {
		pages := (page.Total + f.Limit - 1) / f.Limit
		current := f.Offset/f.Limit + 1
		prev, next := "← Prev", "Next →"
		if current == 1 {
			prev = ui.MutedStyle.Render(prev)
		}
		if current >= pages {
			next = ui.MutedStyle.Render(next)
		}
		fmt.Fprintf(w, "\n%s  Page %d of %d (%s items)  %s\n", prev, current, pages, humanize.Comma(int64(page.Total)), next)
	}
	return nil
}

func filterSummary(f Filters, view ViewMode) string {
	parts := []string{}
	if f.Query != "" {
		parts = append(parts, fmt.Sprintf("search %q", f.Query))
	}
	if f.Status != nil {
		parts = append(parts, f.Status.Label())
	} else {
		parts = append(parts, "All Statuses")
	}
	if f.Rating != nil {
		parts = append(parts, "rated "+string(*f.Rating))
	} else {
		parts = append(parts, "Any Rating")
	}
	parts = append(parts, f.SortLabel(), string(view))
	return strings.Join(parts, " · ")
}

func renderGrid(w io.Writer, items []models.MediaItem) {
	for start := 0; start < len(items); start += cardsPerRow {
		end := min(start+cardsPerRow, len(items))
		cards := make([]string, 0, end-start)
		for _, item := range items[start:end] {
			cards = append(cards, card(item))
		}
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
}

func tagChips(item models.MediaItem) string {
	chips := make([]string, 0, 3)
	for i, t := range item.Tags {
		if i == 3 {
			break
		}
		chips = append(chips, ui.TagChip(t))
	}
	return strings.Join(chips, " ")
}

func card(item models.MediaItem) string {
	lines := []string{
		fmt.Sprintf("%s %s", item.CategoryIcon, ui.TitleStyle.Render(item.Title)),
	}
	if creator := item.PrimaryCreator(); creator != "" {
		lines = append(lines, creator)
	}
	meta := ui.StatusBadge(item.Status)
	if item.Rating != nil {
		meta += "  " + ui.GradeBadge(item.Rating)
	}
	lines = append(lines, meta)
	if secondary := item.SecondaryInfo(); secondary != "" {
		lines = append(lines, ui.MutedStyle.Render(secondary))
	}
	if chips := tagChips(item); chips != "" {
		lines = append(lines, chips)
	}
	lines = append(lines, ui.MutedStyle.Render(fmt.Sprintf("#%d", item.ID)))
	return ui.CardStyle.Render(strings.Join(lines, "\n"))
}

func listRow(item models.MediaItem) string {
	subtitle := []string{item.CategoryName}
	if creator := item.PrimaryCreator(); creator != "" {
		subtitle = append(subtitle, creator)
	}
	if secondary := item.SecondaryInfo(); secondary != "" {
		subtitle = append(subtitle, secondary)
	}
	added := ""
	if !item.CreatedAt.IsZero() {
		added = humanize.Time(item.CreatedAt)
	}
	cols := []string{
		lipgloss.NewStyle().Width(6).Render(fmt.Sprintf("#%d", item.ID)),
		lipgloss.NewStyle().Width(3).Render(item.CategoryIcon),
		lipgloss.NewStyle().Width(40).Render(item.Title + "\n" + ui.MutedStyle.Render(strings.Join(subtitle, " · "))),
		lipgloss.NewStyle().Width(12).Render(ui.StatusBadge(item.Status)),
		lipgloss.NewStyle().Width(4).Render(ui.GradeBadge(item.Rating)),
		lipgloss.NewStyle().Width(16).Render(ui.MutedStyle.Render(added)),
		tagChips(item),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}
