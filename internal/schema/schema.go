// Package schema declares which metadata fields each category has and how
// they are edited.
package schema

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// InputKind is the editor used for a field
type InputKind int

const (
	KindText InputKind = iota
	KindNumber
	KindSingleSelect
	KindMultiSelect
)

func (k InputKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindSingleSelect:
		return "single-select"
	case KindMultiSelect:
		return "multi-select"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsSelect reports whether the kind is backed by a vocabulary
func (k InputKind) IsSelect() bool {
	return k == KindSingleSelect || k == KindMultiSelect
}

// FieldDescriptor declares one metadata field of a category.
// Select kinds name the vocabulary their options come from; ScopedToCategory
// selects the per-category list instead of the shared one.
type FieldDescriptor struct {
	Key              string
	Label            string
	Kind             InputKind
	Vocabulary       string
	ScopedToCategory bool
}

// Text declares a free-text field
func Text(key, label string) FieldDescriptor {
	return FieldDescriptor{Key: key, Label: label, Kind: KindText}
}

// Number declares a numeric field
func Number(key, label string) FieldDescriptor {
	return FieldDescriptor{Key: key, Label: label, Kind: KindNumber}
}

// Select declares a single-choice field backed by a shared vocabulary
func Select(key, label, vocabulary string) FieldDescriptor {
	return FieldDescriptor{Key: key, Label: label, Kind: KindSingleSelect, Vocabulary: vocabulary}
}

// ScopedSelect declares a single-choice field backed by the category's own vocabulary
func ScopedSelect(key, label, vocabulary string) FieldDescriptor {
	return FieldDescriptor{Key: key, Label: label, Kind: KindSingleSelect, Vocabulary: vocabulary, ScopedToCategory: true}
}

// MultiSelect declares a multi-choice field backed by a shared vocabulary
func MultiSelect(key, label, vocabulary string) FieldDescriptor {
	return FieldDescriptor{Key: key, Label: label, Kind: KindMultiSelect, Vocabulary: vocabulary}
}

// Built-in category names
const (
	CategoryBooks   = "Books"
	CategoryMovies  = "Movies"
	CategoryGames   = "Games"
	CategoryAlbums  = "Albums"
	CategoryTVShows = "TV Shows"
)

// Registry maps category names to their ordered field descriptors
type Registry struct {
	fields map[string][]FieldDescriptor
}

// NewRegistry builds a registry from a table
func NewRegistry(table map[string][]FieldDescriptor) *Registry {
	r := &Registry{fields: make(map[string][]FieldDescriptor, len(table))}
	for name, fields := range table {
		cp := make([]FieldDescriptor, len(fields))
		copy(cp, fields)
		r.fields[name] = cp
	}
	return r
}

// DefaultRegistry returns the field table of the built-in categories
func DefaultRegistry() *Registry {
	return NewRegistry(map[string][]FieldDescriptor{
		CategoryBooks: {
			Select("author", "Author", "author"),
			Select("publisher", "Publisher", "publisher"),
			Select("format", "Format", "format_book"),
			Number("year", "Year"),
			Text("isbn", "ISBN"),
			ScopedSelect("genre", "Genre", "genre"),
		},
		CategoryMovies: {
			Select("director", "Director", "director"),
			Select("studio", "Studio", "studio"),
			Select("format", "Format", "format_movie"),
			Number("year", "Year"),
			Number("runtime", "Runtime (min)"),
			ScopedSelect("genre", "Genre", "genre"),
			MultiSelect("cast", "Cast", "cast"),
		},
		CategoryGames: {
			Select("developer", "Developer", "developer"),
			Select("publisher", "Publisher", "publisher"),
			Number("year", "Year"),
			Select("platform", "Platform", "platform"),
			ScopedSelect("genre", "Genre", "genre"),
			Select("format", "Format", "format_game"),
		},
		CategoryAlbums: {
			Select("artist", "Artist", "artist"),
			Select("label", "Label", "label"),
			Number("year", "Year"),
			ScopedSelect("genre", "Genre", "genre"),
			ScopedSelect("sub_genre", "Sub-Genre", "sub_genre"),
			Select("format", "Format", "format_album"),
			Text("label_code", "Label Code"),
		},
		CategoryTVShows: {
			Select("format", "Format", "format_movie"),
			Number("year", "Year"),
			ScopedSelect("genre", "Genre", "genre"),
			MultiSelect("cast", "Cast", "cast"),
		},
	})
}

// FieldsFor returns the ordered descriptors of a category. Unknown names yield an empty list.
func (r *Registry) FieldsFor(categoryName string) []FieldDescriptor {
	fields := r.fields[categoryName]
	out := make([]FieldDescriptor, len(fields))
	copy(out, fields)
	return out
}

// Keys returns the set of field keys declared for a category
func (r *Registry) Keys(categoryName string) map[string]bool {
	keys := make(map[string]bool, len(r.fields[categoryName]))
	for _, f := range r.fields[categoryName] {
		keys[f.Key] = true
	}
	return keys
}

// Categories returns the category names the registry knows, sorted
func (r *Registry) Categories() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Vocabularies returns every vocabulary key referenced by the table, sorted
func (r *Registry) Vocabularies() []string {
	seen := make(map[string]bool)
	for _, fields := range r.fields {
		for _, f := range fields {
			if f.Vocabulary != "" {
				seen[f.Vocabulary] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Validate checks that every descriptor is well formed. Registry entries for
// categories missing from knownCategories are only logged: such fields never
// render, and custom categories simply have none.
func (r *Registry) Validate(knownCategories []string) error {
	var errs []error
	for _, name := range r.Categories() {
		seen := make(map[string]bool)
		for _, f := range r.fields[name] {
			switch {
			case f.Key == "":
				errs = append(errs, fmt.Errorf("%s: field %q has no key", name, f.Label))
			case seen[f.Key]:
				errs = append(errs, fmt.Errorf("%s: duplicate field key %q", name, f.Key))
			case f.Kind.IsSelect() && f.Vocabulary == "":
				errs = append(errs, fmt.Errorf("%s: %s field %q has no vocabulary", name, f.Kind, f.Key))
			case !f.Kind.IsSelect() && f.Vocabulary != "":
				errs = append(errs, fmt.Errorf("%s: %s field %q must not name a vocabulary", name, f.Kind, f.Key))
			case !f.Kind.IsSelect() && f.ScopedToCategory:
				errs = append(errs, fmt.Errorf("%s: %s field %q cannot be category-scoped", name, f.Kind, f.Key))
			}
			seen[f.Key] = true
		}
	}

	if knownCategories != nil {
		known := make(map[string]bool, len(knownCategories))
		for _, c := range knownCategories {
			known[c] = true
		}
		for _, name := range r.Categories() {
			if !known[name] {
				slog.Warn("Field schema declares a category the backend does not have", "category", name)
			}
		}
	}

	return errors.Join(errs...)
}
