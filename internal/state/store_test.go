package state

import (
	"context"
	"errors"
	"testing"

	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	categories []models.Category
	tags       []models.Tag
	catErr     error
	tagErr     error
}

func (f *fakeSource) ListCategories(context.Context) ([]models.Category, error) {
	return f.categories, f.catErr
}

func (f *fakeSource) ListTags(context.Context) ([]models.Tag, error) {
	return f.tags, f.tagErr
}

func TestStoreRefresh(t *testing.T) {
	src := &fakeSource{
		categories: []models.Category{{ID: 1, Name: "Movies"}, {ID: 3, Name: "Books"}},
		tags:       []models.Tag{{ID: 1, Name: "Fiction"}},
	}
	s := NewStore()
	require.NoError(t, s.Refresh(context.Background(), src))

	assert.Len(t, s.Categories(), 2)
	assert.Len(t, s.Tags(), 1)

	books, ok := s.CategoryByName("Books")
	require.True(t, ok)
	assert.Equal(t, int64(3), books.ID)

	movies, ok := s.Category(1)
	require.True(t, ok)
	assert.Equal(t, "Movies", movies.Name)

	_, ok = s.Category(42)
	assert.False(t, ok)
}

func TestStoreRefreshKeepsSnapshotsOnFailure(t *testing.T) {
	src := &fakeSource{
		categories: []models.Category{{ID: 1, Name: "Movies"}},
		tags:       []models.Tag{{ID: 1, Name: "Fiction"}},
	}
	s := NewStore()
	require.NoError(t, s.Refresh(context.Background(), src))

	tests := []struct {
		name    string
		catErr  error
		tagErr  error
		message string
	}{
		{"categories fail", errors.New("boom"), nil, "failed to load categories"},
		{"tags fail", nil, errors.New("boom"), "failed to load tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failing := &fakeSource{
				categories: []models.Category{{ID: 9, Name: "Other"}},
				tags:       []models.Tag{{ID: 9, Name: "Other"}},
				catErr:     tt.catErr,
				tagErr:     tt.tagErr,
			}
			err := s.Refresh(context.Background(), failing)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)

			assert.Equal(t, "Movies", s.Categories()[0].Name)
			assert.Equal(t, "Fiction", s.Tags()[0].Name)
		})
	}
}

func TestStoreSnapshotsAreCopies(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Refresh(context.Background(), &fakeSource{
		categories: []models.Category{{ID: 1, Name: "Movies"}},
	}))

	cats := s.Categories()
	cats[0].Name = "mutated"
	assert.Equal(t, "Movies", s.Categories()[0].Name)
}
