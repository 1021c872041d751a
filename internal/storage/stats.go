package storage

import (
	"cmp"
	"math"
	"slices"

	"github.com/mediashelf/mediashelf/internal/models"
)

// RecentLimit is the number of items returned by Recent
const RecentLimit = 10

// Overview summarises the collection. AvgRating is the mean grade rank on
// the 0 (F) to 12 (A+) scale, rounded to one decimal, or 0 when nothing is rated.
func (s *Store) Overview() models.StatsOverview {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := models.StatsOverview{
		TotalItems: len(s.media),
		ByStatus: map[string]int{
			string(models.StatusWishlist): 0,
			string(models.StatusOwned):    0,
		},
		ByCategory:         []models.CategoryCount{},
		RatingDistribution: map[string]int{},
	}
	for _, g := range models.Grades() {
		out.RatingDistribution[string(g)] = 0
	}

	rated, sum := 0, 0
	for _, r := range s.media {
		if _, ok := out.ByStatus[string(r.status)]; ok {
			out.ByStatus[string(r.status)]++
		}
		if r.rating != nil && r.rating.Rank() >= 0 {
			out.RatingDistribution[string(*r.rating)]++
			rated++
			sum += r.rating.Rank()
		}
	}
	if rated > 0 {
		out.AvgRating = math.Round(float64(sum)/float64(rated)*10) / 10
	}

	ids := make([]int64, 0, len(s.categories))
	for id := range s.categories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		c := s.categories[id]
		out.ByCategory = append(out.ByCategory, models.CategoryCount{
			ID: c.ID, Name: c.Name, Icon: c.Icon, Color: c.Color, Count: s.itemCount(id),
		})
	}
	return out
}

// Recent returns the most recently updated owned items
func (s *Store) Recent() []models.MediaItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make([]*mediaRecord, 0)
	for _, r := range s.media {
		if r.status == models.StatusOwned {
			owned = append(owned, r)
		}
	}
	slices.SortFunc(owned, func(a, b *mediaRecord) int {
		if c := b.updatedAt.Compare(a.updatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.id, a.id)
	})

	items := make([]models.MediaItem, 0, min(len(owned), RecentLimit))
	for _, r := range owned[:min(len(owned), RecentLimit)] {
		items = append(items, s.expand(r))
	}
	return items
}
