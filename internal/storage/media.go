package storage

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mediashelf/mediashelf/internal/models"
)

const (
	SortCreatedAt = "created_at"
	SortTitle     = "title"
	SortRating    = "rating"
)

// MediaFilter selects one page of the media listing
type MediaFilter struct {
	Query      string
	CategoryID *int64
	Status     *models.Status
	Rating     *models.Grade
	SortBy     string
	SortDir    string
	Limit      int
	Offset     int
}

// MediaPatch is a partial media update; unset fields are left unchanged
type MediaPatch struct {
	Title         Patch[string]          `json:"title"`
	CategoryID    Patch[int64]           `json:"category_id"`
	Status        Patch[models.Status]   `json:"status"`
	Rating        Patch[*models.Grade]   `json:"rating"`
	Notes         Patch[*string]         `json:"notes"`
	CoverImageURL Patch[*string]         `json:"cover_image_url"`
	Metadata      Patch[models.Metadata] `json:"metadata"`
	TagIDs        Patch[[]int64]         `json:"tag_ids"`
}

// expand joins a record with its category and tags. Callers hold the lock.
func (s *Store) expand(r *mediaRecord) models.MediaItem {
	item := models.MediaItem{
		ID:            r.id,
		Title:         r.title,
		CategoryID:    r.categoryID,
		CategoryColor: "#6366f1",
		CategoryIcon:  "📁",
		Status:        r.status,
		Rating:        r.rating,
		Notes:         r.notes,
		CoverImageURL: r.cover,
		Metadata:      r.metadata.Clone(),
		Tags:          []models.Tag{},
		CreatedAt:     r.createdAt,
		UpdatedAt:     r.updatedAt,
	}
	if c, ok := s.categories[r.categoryID]; ok {
		item.CategoryName = c.Name
		item.CategoryColor = c.Color
		item.CategoryIcon = c.Icon
	}
	for _, id := range r.tagIDs {
		if t, ok := s.tags[id]; ok {
			item.Tags = append(item.Tags, models.Tag{ID: t.ID, Name: t.Name, Color: t.Color})
		}
	}
	return item
}

// knownTags keeps the ids that exist, in order and without duplicates
func (s *Store) knownTags(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.tags[id]; ok && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func (s *Store) matches(r *mediaRecord, f MediaFilter, query string) bool {
	if f.CategoryID != nil && r.categoryID != *f.CategoryID {
		return false
	}
	if f.Status != nil && r.status != *f.Status {
		return false
	}
	if f.Rating != nil && (r.rating == nil || *r.rating != *f.Rating) {
		return false
	}
	if query == "" {
		return true
	}
	if strings.Contains(s.key(r.title), query) {
		return true
	}
	return r.notes != nil && strings.Contains(s.key(*r.notes), query)
}

func (s *Store) compare(f MediaFilter) func(a, b *mediaRecord) int {
	desc := f.SortDir != "asc"
	return func(a, b *mediaRecord) int {
		var c int
		switch f.SortBy {
		case SortTitle:
			c = cmp.Compare(s.key(a.title), s.key(b.title))
		case SortRating:
			// unrated items sort last in both directions
			switch {
			case a.rating == nil && b.rating == nil:
				c = 0
			case a.rating == nil:
				return 1
			case b.rating == nil:
				return -1
			default:
				c = cmp.Compare(a.rating.Rank(), b.rating.Rank())
			}
		default:
			c = a.createdAt.Compare(b.createdAt)
		}
		if c == 0 {
			c = cmp.Compare(a.id, b.id)
		}
		if desc {
			return -c
		}
		return c
	}
}

// ListMedia returns one page of matching items and the total match count
func (s *Store) ListMedia(f MediaFilter) ([]models.MediaItem, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := s.key(f.Query)
	matched := make([]*mediaRecord, 0, len(s.media))
	for _, r := range s.media {
		if s.matches(r, f, query) {
			matched = append(matched, r)
		}
	}
	slices.SortFunc(matched, s.compare(f))

	total := len(matched)
	start := min(max(f.Offset, 0), total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}

	items := make([]models.MediaItem, 0, end-start)
	for _, r := range matched[start:end] {
		items = append(items, s.expand(r))
	}
	return items, total
}

// GetMedia returns one item
func (s *Store) GetMedia(id int64) (models.MediaItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.media[id]
	if !ok {
		return models.MediaItem{}, ErrNotFound
	}
	return s.expand(r), nil
}

// CreateMedia adds an item. Unknown tag ids are ignored.
func (s *Store) CreateMedia(in models.MediaInput) (models.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[in.CategoryID]; !ok {
		return models.MediaItem{}, refuse("Category not found")
	}
	if in.Status == "" {
		in.Status = models.StatusWishlist
	}

	now := s.now()
	r := &mediaRecord{
		id:         s.id("media"),
		title:      strings.TrimSpace(in.Title),
		categoryID: in.CategoryID,
		status:     in.Status,
		rating:     in.Rating,
		notes:      in.Notes,
		cover:      in.CoverImageURL,
		metadata:   in.Metadata.Clone(),
		tagIDs:     s.knownTags(in.TagIDs),
		createdAt:  now,
		updatedAt:  now,
	}
	s.media[r.id] = r
	return s.expand(r), nil
}

// UpdateMedia applies the fields present in p and bumps updated_at
func (s *Store) UpdateMedia(id int64, p MediaPatch) (models.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.media[id]
	if !ok {
		return models.MediaItem{}, ErrNotFound
	}
	if p.CategoryID.Set {
		if _, ok := s.categories[p.CategoryID.Value]; !ok {
			return models.MediaItem{}, refuse("Category not found")
		}
		r.categoryID = p.CategoryID.Value
	}
	if p.Title.Set {
		r.title = strings.TrimSpace(p.Title.Value)
	}
	if p.Status.Set {
		r.status = p.Status.Value
	}
	if p.Rating.Set {
		r.rating = p.Rating.Value
	}
	if p.Notes.Set {
		r.notes = p.Notes.Value
	}
	if p.CoverImageURL.Set {
		r.cover = p.CoverImageURL.Value
	}
	if p.Metadata.Set {
		r.metadata = p.Metadata.Value.Clone()
	}
	if p.TagIDs.Set {
		r.tagIDs = s.knownTags(p.TagIDs.Value)
	}
	r.updatedAt = s.now()
	return s.expand(r), nil
}

// SetMediaTags replaces the tags of an item
func (s *Store) SetMediaTags(id int64, tagIDs []int64) (models.MediaItem, error) {
	return s.UpdateMedia(id, MediaPatch{TagIDs: Set(tagIDs)})
}

// DeleteMedia removes an item
func (s *Store) DeleteMedia(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.media[id]; !ok {
		return ErrNotFound
	}
	delete(s.media, id)
	return nil
}
