package dashboard

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	stats     *models.StatsOverview
	recent    []models.MediaItem
	statsErr  error
	recentErr error
	panics    bool
}

func (f *fakeAPI) StatsOverview(context.Context) (*models.StatsOverview, error) {
	return f.stats, f.statsErr
}

func (f *fakeAPI) RecentItems(context.Context) ([]models.MediaItem, error) {
	if f.panics {
		panic("recent exploded")
	}
	return f.recent, f.recentErr
}

func overview() *models.StatsOverview {
	return &models.StatsOverview{
		TotalItems: 4,
		ByStatus:   map[string]int{"wishlist": 1, "owned": 3},
		ByCategory: []models.CategoryCount{
			{Name: "Books", Icon: "📚", Color: "#22c55e", Count: 3},
			{Name: "Movies", Icon: "🎬", Color: "#ef4444", Count: 1},
		},
		AvgRating:          10.3,
		RatingDistribution: map[string]int{"A-": 2, "B+": 1},
	}
}

func TestLoad(t *testing.T) {
	api := &fakeAPI{
		stats:  overview(),
		recent: []models.MediaItem{{ID: 7, Title: "Dune", CategoryIcon: "📚", UpdatedAt: time.Now()}},
	}
	d := New(api)
	require.NoError(t, d.Load(context.Background()))
	assert.Equal(t, 4, d.Stats().TotalItems)
	assert.Len(t, d.Recent(), 1)
}

func TestLoadFailure(t *testing.T) {
	tests := []struct {
		name    string
		api     *fakeAPI
		message string
	}{
		{"stats", &fakeAPI{statsErr: errors.New("boom")}, "failed to load stats"},
		{"recent", &fakeAPI{stats: overview(), recentErr: errors.New("boom")}, "failed to load recent items"},
		{"panic", &fakeAPI{stats: overview(), panics: true}, "panic: recent exploded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(tt.api)
			err := d.Load(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.Nil(t, d.Stats())
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		n, total, expected int
	}{
		{1, 4, 25},
		{3, 4, 75},
		{1, 3, 33},
		{2, 3, 67},
		{5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Percent(tt.n, tt.total))
	}
}

func TestNearestGrade(t *testing.T) {
	assert.Nil(t, NearestGrade(0))
	assert.Equal(t, models.Grade("A-"), *NearestGrade(10.3))
	assert.Equal(t, models.Grade("A+"), *NearestGrade(12))
	assert.Equal(t, models.Grade("A+"), *NearestGrade(40))
	assert.Equal(t, models.Grade("F"), *NearestGrade(0.2))
}

func TestRender(t *testing.T) {
	t.Run("not loaded", func(t *testing.T) {
		var buf bytes.Buffer
		require.Error(t, New(&fakeAPI{}).Render(&buf))
	})

	t.Run("empty collection", func(t *testing.T) {
		d := New(&fakeAPI{stats: &models.StatsOverview{}})
		require.NoError(t, d.Load(context.Background()))

		var buf bytes.Buffer
		require.NoError(t, d.Render(&buf))
		assert.Contains(t, buf.String(), "0 items tracked")
		assert.Contains(t, buf.String(), "No media yet")
		assert.NotContains(t, buf.String(), "By Category")
	})

	t.Run("full overview", func(t *testing.T) {
		d := New(&fakeAPI{
			stats:  overview(),
			recent: []models.MediaItem{{ID: 7, Title: "Dune", CategoryIcon: "📚", UpdatedAt: time.Now()}},
		})
		require.NoError(t, d.Load(context.Background()))

		var buf bytes.Buffer
		require.NoError(t, d.Render(&buf))
		out := buf.String()
		assert.Contains(t, out, "4 items tracked")
		assert.Contains(t, out, "75% of total")
		assert.Contains(t, out, "25% of total")
		assert.Contains(t, out, "By Category")
		assert.Contains(t, out, "Books")
		assert.Contains(t, out, "Ratings Overview")
		assert.Contains(t, out, "average")
		assert.Contains(t, out, "Recently Owned")
		assert.Contains(t, out, "Dune")
	})

	t.Run("unrated collection hides ratings", func(t *testing.T) {
		s := overview()
		s.AvgRating = 0
		d := New(&fakeAPI{stats: s})
		require.NoError(t, d.Load(context.Background()))

		var buf bytes.Buffer
		require.NoError(t, d.Render(&buf))
		assert.NotContains(t, buf.String(), "Ratings Overview")
		assert.NotContains(t, buf.String(), "Recently Owned")
	})
}
