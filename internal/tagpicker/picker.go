// Package tagpicker implements the searchable multi-select used to attach
// tags to an item, with create-on-miss.
package tagpicker

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync"

	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/ui"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MaxSuggestions caps the tag matches offered for one query
const MaxSuggestions = 8

// TagCreator creates tags on the backend
type TagCreator interface {
	CreateTag(ctx context.Context, in models.TagInput) (*models.Tag, error)
}

// Suggestion is one entry of the suggestion panel: an existing tag, or an
// offer to create a tag named Create.
type Suggestion struct {
	Tag    models.Tag
	Create string
}

// IsCreate reports whether the suggestion offers to create a new tag
func (s Suggestion) IsCreate() bool {
	return s.Create != ""
}

// Picker holds the full tag list, the selection and the panel state
type Picker struct {
	creator  TagCreator
	notifier ui.Notifier

	mu       sync.Mutex
	all      []models.Tag
	selected []int64
	query    string
	open     bool
}

// New creates a picker over all tags with the given initial selection
func New(creator TagCreator, notifier ui.Notifier, all []models.Tag, selected []int64) *Picker {
	p := &Picker{
		creator:  creator,
		notifier: notifier,
		all:      append([]models.Tag(nil), all...),
	}
	for _, id := range selected {
		if !contains(p.selected, id) {
			p.selected = append(p.selected, id)
		}
	}
	return p
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Suggestions yields unselected tags whose name contains query caselessly,
// at most MaxSuggestions of them, followed by a create offer when no tag is
// named exactly query.
func (p *Picker) Suggestions(query string) iter.Seq[Suggestion] {
	p.mu.Lock()
	all := append([]models.Tag(nil), p.all...)
	selected := append([]int64(nil), p.selected...)
	p.mu.Unlock()

	trimmed := strings.TrimSpace(query)
	needle := fold(trimmed)

	return func(yield func(Suggestion) bool) {
		n := 0
		exact := false
		for _, t := range all {
			name := fold(t.Name)
			if needle != "" && name == needle {
				exact = true
			}
			if n >= MaxSuggestions || contains(selected, t.ID) || !strings.Contains(name, needle) {
				continue
			}
			n++
			if !yield(Suggestion{Tag: t}) {
				return
			}
		}
		if trimmed != "" && !exact {
			yield(Suggestion{Create: trimmed})
		}
	}
}

// Type records the query and opens the suggestion panel
func (p *Picker) Type(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = query
	p.open = true
}

// Query returns the text currently typed
func (p *Picker) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Select adds a tag to the selection. Selecting an already selected tag is a no-op.
func (p *Picker) Select(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !contains(p.selected, id) {
		p.selected = append(p.selected, id)
	}
	p.query = ""
	p.open = false
}

// Create makes a new tag and selects it. On failure the user is notified
// and neither the tag list nor the selection changes.
func (p *Picker) Create(ctx context.Context, name string) (models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Tag{}, fmt.Errorf("tag name is required")
	}

	tag, err := p.creator.CreateTag(ctx, models.TagInput{Name: name})
	if err != nil {
		slog.Warn("Failed to create tag", "name", name, "err", err)
		p.notifier.Notify(ui.LevelError, "Failed to create tag: "+err.Error())
		return models.Tag{}, fmt.Errorf("failed to create tag: %w", err)
	}

	p.mu.Lock()
	p.all = append(p.all, *tag)
	if !contains(p.selected, tag.ID) {
		p.selected = append(p.selected, tag.ID)
	}
	p.query = ""
	p.open = false
	p.mu.Unlock()

	p.notifier.Notify(ui.LevelSuccess, fmt.Sprintf("Tag %q created", tag.Name))
	return *tag, nil
}

// Accept applies a suggestion: selecting the tag or creating it
func (p *Picker) Accept(ctx context.Context, s Suggestion) error {
	if s.IsCreate() {
		_, err := p.Create(ctx, s.Create)
		return err
	}
	p.Select(s.Tag.ID)
	return nil
}

// Remove drops a tag from the selection
func (p *Picker) Remove(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.selected[:0]
	for _, v := range p.selected {
		if v != id {
			out = append(out, v)
		}
	}
	p.selected = out
}

// Dismiss closes the suggestion panel, as an interaction outside the picker does
func (p *Picker) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
}

// Open reports whether the suggestion panel is showing
func (p *Picker) Open() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// All returns every known tag, including ones created in this session
func (p *Picker) All() []models.Tag {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Tag(nil), p.all...)
}

// SelectedIDs returns the selected tag ids in selection order
func (p *Picker) SelectedIDs() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int64, len(p.selected))
	copy(out, p.selected)
	return out
}

// SelectedTags resolves the selection against the tag list. Ids with no
// known tag are skipped.
func (p *Picker) SelectedTags() []models.Tag {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Tag, 0, len(p.selected))
	for _, id := range p.selected {
		for _, t := range p.all {
			if t.ID == id {
				out = append(out, t)
				break
			}
		}
	}
	return out
}
