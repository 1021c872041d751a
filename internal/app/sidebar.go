package app

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/ui"
)

func renderSidebar(w io.Writer, current Route, cats []models.Category, totalItems int) {
	line := func(route Route, label string, count int, showCount bool) {
		text := label
		if showCount {
			text += ui.MutedStyle.Render(" " + humanize.Comma(int64(count)))
		}
		if route.String() == current.String() {
			fmt.Fprintln(w, ui.ActiveStyle.Render("▸")+" "+text)
			return
		}
		fmt.Fprintln(w, "  "+text)
	}

	fmt.Fprintln(w, ui.TitleStyle.Render("mediashelf"))
	line(Route{Name: RouteDashboard}, "📊 Dashboard", 0, false)
	line(Route{Name: RouteLibrary}, "🗂️ All Media", totalItems, true)

	fmt.Fprintln(w, ui.SectionStyle.Render("Categories"))
	for _, c := range cats {
		id := c.ID
		line(Route{Name: RouteLibrary, CategoryID: &id}, c.Icon+" "+c.Name, c.ItemCount, true)
	}

	fmt.Fprintln(w, ui.SectionStyle.Render("Manage"))
	line(Route{Name: RouteCategories}, "🏷️ Categories", 0, false)
	line(Route{Name: RouteSettings}, "⚙️ Field Lists", 0, false)
}
