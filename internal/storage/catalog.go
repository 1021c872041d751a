package storage

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mediashelf/mediashelf/internal/models"
)

const (
	DefaultCategoryIcon  = "📁"
	DefaultCategoryColor = "#6366f1"
	DefaultTagColor      = "#94a3b8"
)

func (s *Store) itemCount(categoryID int64) int {
	n := 0
	for _, r := range s.media {
		if r.categoryID == categoryID {
			n++
		}
	}
	return n
}

func (s *Store) categoryNameTaken(name string, except int64) bool {
	k := s.key(name)
	for _, c := range s.categories {
		if c.ID != except && s.key(c.Name) == k {
			return true
		}
	}
	return false
}

// ListCategories returns every category in id order with its item count
func (s *Store) ListCategories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		cat := *c
		cat.ItemCount = s.itemCount(c.ID)
		out = append(out, cat)
	}
	slices.SortFunc(out, func(a, b models.Category) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// CreateCategory adds a user category
func (s *Store) CreateCategory(in models.CategoryInput) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Category{}, refuse("Name is required")
	}
	if s.categoryNameTaken(name, 0) {
		return models.Category{}, refuse("A category with that name already exists")
	}
	c := &models.Category{
		ID:    s.id("category"),
		Name:  name,
		Icon:  cmp.Or(in.Icon, DefaultCategoryIcon),
		Color: cmp.Or(in.Color, DefaultCategoryColor),
	}
	s.categories[c.ID] = c
	return *c, nil
}

// UpdateCategory changes the non-empty fields of in
func (s *Store) UpdateCategory(id int64, in models.CategoryInput) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return models.Category{}, ErrNotFound
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		if s.categoryNameTaken(name, id) {
			return models.Category{}, refuse("A category with that name already exists")
		}
		c.Name = name
	}
	if in.Icon != "" {
		c.Icon = in.Icon
	}
	if in.Color != "" {
		c.Color = in.Color
	}
	out := *c
	out.ItemCount = s.itemCount(id)
	return out, nil
}

// DeleteCategory removes an empty user category along with its own field values
func (s *Store) DeleteCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return ErrNotFound
	}
	if c.IsSystem {
		return refuse("Cannot delete built-in category")
	}
	if s.itemCount(id) > 0 {
		return refuse("Category has items — move or delete them first")
	}
	delete(s.categories, id)
	for fid, fv := range s.fieldValues {
		if fv.CategoryID != nil && *fv.CategoryID == id {
			delete(s.fieldValues, fid)
		}
	}
	return nil
}

func (s *Store) usageCount(tagID int64) int {
	n := 0
	for _, r := range s.media {
		if slices.Contains(r.tagIDs, tagID) {
			n++
		}
	}
	return n
}

func (s *Store) tagNameTaken(name string, except int64) bool {
	k := s.key(name)
	for _, t := range s.tags {
		if t.ID != except && s.key(t.Name) == k {
			return true
		}
	}
	return false
}

// ListTags returns every tag in id order with its usage count
func (s *Store) ListTags() []models.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		tag := *t
		tag.UsageCount = s.usageCount(t.ID)
		out = append(out, tag)
	}
	slices.SortFunc(out, func(a, b models.Tag) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// CreateTag adds a tag; names are unique regardless of case
func (s *Store) CreateTag(in models.TagInput) (models.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Tag{}, refuse("Name is required")
	}
	if s.tagNameTaken(name, 0) {
		return models.Tag{}, refuse("A tag with that name already exists")
	}
	t := &models.Tag{ID: s.id("tag"), Name: name, Color: cmp.Or(in.Color, DefaultTagColor)}
	s.tags[t.ID] = t
	return *t, nil
}

// UpdateTag renames or recolors a tag
func (s *Store) UpdateTag(id int64, in models.TagInput) (models.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tags[id]
	if !ok {
		return models.Tag{}, ErrNotFound
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		if s.tagNameTaken(name, id) {
			return models.Tag{}, refuse("A tag with that name already exists")
		}
		t.Name = name
	}
	if in.Color != "" {
		t.Color = in.Color
	}
	out := *t
	out.UsageCount = s.usageCount(id)
	return out, nil
}

// DeleteTag removes a tag and detaches it from every item
func (s *Store) DeleteTag(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tags[id]; !ok {
		return ErrNotFound
	}
	delete(s.tags, id)
	for _, r := range s.media {
		r.tagIDs = slices.DeleteFunc(r.tagIDs, func(t int64) bool { return t == id })
	}
	return nil
}
