package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsFor(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name     string
		category string
		keys     []string
	}{
		{"books", CategoryBooks, []string{"author", "publisher", "format", "year", "isbn", "genre"}},
		{"movies", CategoryMovies, []string{"director", "studio", "format", "year", "runtime", "genre", "cast"}},
		{"games", CategoryGames, []string{"developer", "publisher", "year", "platform", "genre", "format"}},
		{"albums", CategoryAlbums, []string{"artist", "label", "year", "genre", "sub_genre", "format", "label_code"}},
		{"tv shows", CategoryTVShows, []string{"format", "year", "genre", "cast"}},
		{"unknown category", "Board Games", []string{}},
		{"empty name", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := r.FieldsFor(tt.category)
			keys := make([]string, 0, len(fields))
			for _, f := range fields {
				keys = append(keys, f.Key)
			}
			assert.Equal(t, tt.keys, keys)
		})
	}
}

func TestFieldsForReturnsCopy(t *testing.T) {
	r := DefaultRegistry()
	fields := r.FieldsFor(CategoryBooks)
	fields[0].Key = "mutated"

	assert.Equal(t, "author", r.FieldsFor(CategoryBooks)[0].Key)
}

func TestScopingRules(t *testing.T) {
	r := DefaultRegistry()
	for _, name := range r.Categories() {
		for _, f := range r.FieldsFor(name) {
			switch f.Vocabulary {
			case "genre", "sub_genre":
				assert.True(t, f.ScopedToCategory, "%s.%s should be category scoped", name, f.Key)
			case "":
				assert.False(t, f.Kind.IsSelect(), "%s.%s select without vocabulary", name, f.Key)
			default:
				assert.False(t, f.ScopedToCategory, "%s.%s should use the shared list", name, f.Key)
			}
		}
	}

	cast := r.FieldsFor(CategoryMovies)[6]
	assert.Equal(t, KindMultiSelect, cast.Kind)
	assert.Equal(t, "cast", cast.Vocabulary)
}

func TestValidate(t *testing.T) {
	t.Run("default registry is valid", func(t *testing.T) {
		known := []string{CategoryBooks, CategoryMovies, CategoryGames, CategoryAlbums, CategoryTVShows}
		require.NoError(t, DefaultRegistry().Validate(known))
	})

	t.Run("missing categories are tolerated", func(t *testing.T) {
		require.NoError(t, DefaultRegistry().Validate([]string{CategoryBooks}))
	})

	t.Run("malformed descriptors are rejected", func(t *testing.T) {
		r := NewRegistry(map[string][]FieldDescriptor{
			"Broken": {
				{Key: "genre", Label: "Genre", Kind: KindSingleSelect},
				{Key: "year", Label: "Year", Kind: KindNumber, Vocabulary: "year"},
				Text("isbn", "ISBN"),
				Text("isbn", "ISBN again"),
			},
		})
		err := r.Validate(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"genre" has no vocabulary`)
		assert.Contains(t, err.Error(), `"year" must not name a vocabulary`)
		assert.Contains(t, err.Error(), `duplicate field key "isbn"`)
	})
}

func TestVocabularies(t *testing.T) {
	vocabs := DefaultRegistry().Vocabularies()
	assert.Contains(t, vocabs, "format_movie")
	assert.Contains(t, vocabs, "cast")
	assert.NotContains(t, vocabs, "")
}
