package form

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/schema"
	"github.com/mediashelf/mediashelf/internal/ui"
)

var labelStyle = lipgloss.NewStyle().Width(16).Foreground(lipgloss.Color("#94a3b8"))

func row(w io.Writer, label, value string) {
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value))
}

// Render writes the form as text
func (s *Session) Render(w io.Writer) error {
	heading := "Add Media"
	if s.Editing() {
		heading = "Edit Media"
	}
	in := s.Input()
	fields := s.Fields()

	fmt.Fprintln(w, ui.TitleStyle.Render(heading))

	title := in.Title
	if title == "" {
		title = ui.MutedStyle.Render("Enter title…")
	}
	row(w, "Title *", title)

	category := ui.MutedStyle.Render("—")
	var categoryName string
	if id := s.CategoryID(); id != nil {
		if cat, ok := s.deps.Store.Category(*id); ok {
			category = strings.TrimSpace(cat.Icon + " " + cat.Name)
			categoryName = cat.Name
		}
	}
	row(w, "Category", category)
	row(w, "Rating", ui.GradeBadge(in.Rating))

	statuses := make([]string, 0, len(models.EditableStatuses))
	for _, st := range models.EditableStatuses {
		if st == in.Status {
			statuses = append(statuses, ui.ActiveStyle.Render("["+st.Label()+"]"))
		} else {
			statuses = append(statuses, ui.MutedStyle.Render(st.Label()))
		}
	}
	if !in.Status.Editable() {
		statuses = append(statuses, ui.StatusBadge(in.Status))
	}
	row(w, "Status", strings.Join(statuses, "  "))

	cover := ui.MutedStyle.Render("No file chosen")
	if in.CoverImageURL != nil {
		cover = path.Base(*in.CoverImageURL)
	}
	row(w, "Cover Image", cover)

	chips := make([]string, 0)
	for _, t := range s.tags.SelectedTags() {
		chips = append(chips, ui.TagChip(t))
	}
	if len(chips) == 0 {
		chips = append(chips, ui.MutedStyle.Render("Add tag…"))
	}
	row(w, "Tags", strings.Join(chips, " "))

	if len(fields) > 0 {
		fmt.Fprintln(w, ui.SectionStyle.Render(fmt.Sprintf("Details (%s)", categoryName)))
		for _, f := range fields {
			row(w, "  "+f.Label, renderField(f))
		}
	}

	notes := "Your thoughts…"
	if in.Notes != nil {
		notes = *in.Notes
	} else {
		notes = ui.MutedStyle.Render(notes)
	}
	row(w, "Notes / Review", notes)
	return nil
}

func renderField(f Field) string {
	switch f.Kind {
	case schema.KindMultiSelect:
		if len(f.Values) > 0 {
			return strings.Join(f.Values, ", ")
		}
	case schema.KindSingleSelect:
		if f.Value != "" {
			return f.Value
		}
		if len(f.Options) > 0 {
			return ui.MutedStyle.Render(fmt.Sprintf("— Select %s — (%d options)", f.Label, len(f.Options)))
		}
	default:
		if f.Value != "" {
			return f.Value
		}
	}
	return ui.MutedStyle.Render(f.Placeholder)
}
