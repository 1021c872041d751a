package settings

import (
	"fmt"
	"strings"

	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/schema"
)

// Entry is one vocabulary list in the settings navigation
type Entry struct {
	Key        string
	Label      string
	FieldType  string
	CategoryID *int64
}

// NavGroup is a titled group of entries
type NavGroup struct {
	Title   string
	Entries []Entry
}

// EntryKey identifies a list by field type and category, "null" meaning shared
func EntryKey(fieldType string, categoryID *int64) string {
	if categoryID == nil {
		return fieldType + "|null"
	}
	return fmt.Sprintf("%s|%d", fieldType, *categoryID)
}

func shared(fieldType, label string) Entry {
	return Entry{Key: EntryKey(fieldType, nil), Label: label, FieldType: fieldType}
}

func scoped(fieldType string, cat models.Category) Entry {
	id := models.Int64(cat.ID)
	return Entry{
		Key:        EntryKey(fieldType, id),
		Label:      strings.TrimSpace(cat.Icon + " " + cat.Name),
		FieldType:  fieldType,
		CategoryID: id,
	}
}

func icon(cat *models.Category, fallback string) string {
	if cat == nil {
		return fallback
	}
	return cat.Icon
}

// BuildNav groups the vocabulary lists by which categories exist. Lists of
// absent categories are left out.
func BuildNav(categories []models.Category) []NavGroup {
	byName := func(name string) *models.Category {
		for i := range categories {
			if categories[i].Name == name {
				return &categories[i]
			}
		}
		return nil
	}
	movies := byName(schema.CategoryMovies)
	tv := byName(schema.CategoryTVShows)
	books := byName(schema.CategoryBooks)
	games := byName(schema.CategoryGames)
	albums := byName(schema.CategoryAlbums)

	var groups []NavGroup

	genres := make([]Entry, 0, len(categories))
	for _, cat := range categories {
		genres = append(genres, scoped("genre", cat))
	}
	if len(genres) > 0 {
		groups = append(groups, NavGroup{Title: "Genre (per category)", Entries: genres})
	}

	if albums != nil {
		groups = append(groups, NavGroup{Title: "Sub-Genre", Entries: []Entry{scoped("sub_genre", *albums)}})
	}

	var formats []Entry
	if movies != nil || tv != nil {
		formats = append(formats, shared("format_movie", icon(movies, "🎬")+icon(tv, "📺")+" Movies & TV Shows"))
	}
	if books != nil {
		formats = append(formats, shared("format_book", books.Icon+" Books"))
	}
	if games != nil {
		formats = append(formats, shared("format_game", games.Icon+" Games"))
	}
	if albums != nil {
		formats = append(formats, shared("format_album", albums.Icon+" Albums"))
	}
	if len(formats) > 0 {
		groups = append(groups, NavGroup{Title: "Format (shared)", Entries: formats})
	}

	if movies != nil {
		groups = append(groups, NavGroup{Title: "Cast (shared)", Entries: []Entry{
			shared("cast", movies.Icon+" Movies & TV Shows"),
		}})
	}

	var unique []Entry
	if movies != nil {
		unique = append(unique,
			shared("director", movies.Icon+" Directors"),
			shared("studio", movies.Icon+" Studios"))
	}
	if books != nil {
		unique = append(unique, shared("author", books.Icon+" Authors"))
	}
	if books != nil || games != nil {
		unique = append(unique, shared("publisher", icon(books, "")+icon(games, "")+" Publishers"))
	}
	if games != nil {
		unique = append(unique,
			shared("developer", games.Icon+" Developers"),
			shared("platform", games.Icon+" Platforms"))
	}
	if albums != nil {
		unique = append(unique,
			shared("artist", albums.Icon+" Artists"),
			shared("label", albums.Icon+" Record Labels"))
	}
	if len(unique) > 0 {
		groups = append(groups, NavGroup{Title: "Unique Lists", Entries: unique})
	}

	for gi := range groups {
		for ei := range groups[gi].Entries {
			groups[gi].Entries[ei].Label = strings.TrimSpace(groups[gi].Entries[ei].Label)
		}
	}
	return groups
}

func findEntry(groups []NavGroup, key string) (Entry, bool) {
	for _, g := range groups {
		for _, e := range g.Entries {
			if e.Key == key {
				return e, true
			}
		}
	}
	return Entry{}, false
}
