package storage

import (
	"maps"
	"slices"

	"github.com/mediashelf/mediashelf/internal/models"
)

var builtinCategories = []models.Category{
	{Name: "Movies", Icon: "🎬", Color: "#ef4444"},
	{Name: "TV Shows", Icon: "📺", Color: "#f97316"},
	{Name: "Books", Icon: "📚", Color: "#22c55e"},
	{Name: "Games", Icon: "🎮", Color: "#3b82f6"},
	{Name: "Albums", Icon: "🎵", Color: "#a855f7"},
}

var genreSeeds = map[string][]string{
	"Movies": {"Action", "Adventure", "Animation", "Comedy", "Crime", "Documentary",
		"Drama", "Fantasy", "Horror", "Musical", "Romance", "Sci-Fi",
		"Thriller", "Western"},
	"TV Shows": {"Action", "Anime", "Comedy", "Crime", "Documentary", "Drama",
		"Fantasy", "Horror", "Reality", "Sci-Fi", "Thriller"},
	"Books": {"Biography", "Fantasy", "Fiction", "Graphic Novel", "History",
		"Horror", "Mystery", "Non-Fiction", "Romance", "Sci-Fi",
		"Self-Help", "Thriller", "Travel"},
	"Games": {"Action", "Adventure", "Fighting", "FPS", "Horror", "MMORPG",
		"Platformer", "Puzzle", "Racing", "RPG", "Simulation",
		"Sports", "Strategy"},
	"Albums": {"Blues", "Classical", "Country", "Electronic", "Folk", "Hip-Hop",
		"Jazz", "Metal", "Pop", "Punk", "R&B", "Reggae", "Rock", "Soul"},
}

var subGenreSeeds = map[string][]string{
	"Albums": {"Ambient", "Bebop", "Classic Rock", "Death Metal", "Deep House",
		"Drum & Bass", "Funk", "Gospel", "Hard Rock", "Hardcore",
		"House", "Indie Pop", "Indie Rock", "Lo-fi", "New Wave",
		"Post-Rock", "Progressive Rock", "Synthpop", "Techno", "Trip-Hop"},
}

var sharedSeeds = map[string][]string{
	"author":       {"Unknown Author"},
	"publisher":    {"Penguin Random House", "HarperCollins", "Simon & Schuster", "Macmillan", "Hachette", "Self-Published"},
	"format_book":  {"Hardcover", "Paperback", "eBook", "Audiobook", "Large Print"},
	"director":     {"Unknown Director"},
	"studio":       {"Warner Bros.", "Universal Pictures", "Sony Pictures", "Paramount Pictures", "Walt Disney Studios", "A24", "Netflix", "Amazon Studios", "Apple TV+", "HBO"},
	"format_movie": {"Blu-ray", "DVD", "Digital", "Streaming", "4K UHD", "VHS"},
	"developer":    {"Unknown Developer", "Nintendo", "Valve", "CD Projekt Red", "Rockstar Games", "Naughty Dog", "FromSoftware", "Bethesda", "Ubisoft", "EA", "Activision", "Capcom"},
	"platform":     {"PC", "PlayStation 5", "PlayStation 4", "Xbox Series X", "Xbox One", "Nintendo Switch", "Nintendo 3DS", "iOS", "Android", "Steam Deck"},
	"format_game":  {"Physical", "Digital", "Cartridge", "Disc"},
	"artist":       {"Unknown Artist"},
	"label":        {"Unknown Label", "Columbia Records", "Universal Music", "Warner Music", "Sony Music", "Republic Records", "Atlantic Records", "Def Jam", "Sub Pop", "Domino Records"},
	"format_album": {"Vinyl", "CD", "Cassette", "Digital", "Streaming", "8-Track"},
	"cast":         {},
}

func (s *Store) seed() {
	ids := map[string]int64{}
	for _, c := range builtinCategories {
		c.ID = s.id("category")
		c.IsSystem = true
		s.categories[c.ID] = &c
		ids[c.Name] = c.ID
	}

	scoped := func(fieldType string, seeds map[string][]string) {
		for _, c := range builtinCategories {
			for i, v := range seeds[c.Name] {
				s.addFieldValue(fieldType, models.Int64(ids[c.Name]), v, i)
			}
		}
	}
	scoped("genre", genreSeeds)
	scoped("sub_genre", subGenreSeeds)

	for _, fieldType := range slices.Sorted(maps.Keys(sharedSeeds)) {
		for i, v := range sharedSeeds[fieldType] {
			s.addFieldValue(fieldType, nil, v, i)
		}
	}
}

func (s *Store) addFieldValue(fieldType string, categoryID *int64, value string, sortOrder int) *models.FieldValue {
	fv := &models.FieldValue{
		ID:         s.id("field_value"),
		FieldType:  fieldType,
		CategoryID: categoryID,
		Value:      value,
		SortOrder:  sortOrder,
	}
	s.fieldValues[fv.ID] = fv
	return fv
}
