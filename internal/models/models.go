package models

import (
	"encoding/json"
	"strings"
	"time"
)

// MediaItem represents one entry in the collection as returned by the backend
type MediaItem struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	CategoryID    int64     `json:"category_id"`
	CategoryName  string    `json:"category_name,omitempty"`
	CategoryColor string    `json:"category_color,omitempty"`
	CategoryIcon  string    `json:"category_icon,omitempty"`
	Status        Status    `json:"status"`
	Rating        *Grade    `json:"rating"`
	Notes         *string   `json:"notes"`
	CoverImageURL *string   `json:"cover_image_url"`
	Metadata      Metadata  `json:"metadata"`
	Tags          []Tag     `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TagIDs returns the ids of the item's tags in order
func (m *MediaItem) TagIDs() []int64 {
	ids := make([]int64, 0, len(m.Tags))
	for _, t := range m.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// PrimaryCreator picks the most descriptive creator field for display
func (m *MediaItem) PrimaryCreator() string {
	for _, key := range []string{"artist", "author", "director", "developer"} {
		if v, ok := m.Metadata[key]; ok && !v.IsEmpty() {
			return v.First()
		}
	}
	return ""
}

// SecondaryInfo renders "year · genre" for cards and rows
func (m *MediaItem) SecondaryInfo() string {
	var parts []string
	if v, ok := m.Metadata["year"]; ok && !v.IsEmpty() {
		parts = append(parts, v.First())
	}
	if v, ok := m.Metadata["genre"]; ok && !v.IsEmpty() {
		parts = append(parts, v.First())
	}
	return strings.Join(parts, " · ")
}

// MediaInput is the request body for creating or updating an item
type MediaInput struct {
	Title         string   `json:"title" validate:"required"`
	CategoryID    int64    `json:"category_id" validate:"required,gt=0"`
	Status        Status   `json:"status" validate:"required,oneof=wishlist owned in_progress completed dropped"`
	Rating        *Grade   `json:"rating" validate:"omitempty,oneof=F D- D D+ C- C C+ B- B B+ A- A A+"`
	Notes         *string  `json:"notes"`
	CoverImageURL *string  `json:"cover_image_url"`
	Metadata      Metadata `json:"metadata"`
	TagIDs        []int64  `json:"tag_ids"`
}

// MediaPage is one page of a filtered media listing
type MediaPage struct {
	Items  []MediaItem `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// Category groups media items; built-in categories carry IsSystem
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	ItemCount int    `json:"item_count"`
	IsSystem  bool   `json:"is_system"`
}

// UnmarshalJSON accepts is_system as either a bool or the 0/1 integer the backend stores
func (c *Category) UnmarshalJSON(data []byte) error {
	type alias Category
	var raw struct {
		alias
		IsSystem json.RawMessage `json:"is_system"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Category(raw.alias)
	switch strings.TrimSpace(string(raw.IsSystem)) {
	case "true", "1":
		c.IsSystem = true
	default:
		c.IsSystem = false
	}
	return nil
}

// CategoryInput is the request body for creating or updating a category
type CategoryInput struct {
	Name  string `json:"name,omitempty" validate:"required"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

// Tag is a free-form label attached to media items
type Tag struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	UsageCount int    `json:"usage_count,omitempty"`
}

// TagInput is the request body for creating or updating a tag
type TagInput struct {
	Name  string `json:"name,omitempty" validate:"required"`
	Color string `json:"color,omitempty"`
}

// FieldValue is one entry of a controlled vocabulary.
// A nil CategoryID means the value is shared across all categories.
type FieldValue struct {
	ID         int64  `json:"id"`
	FieldType  string `json:"field_type"`
	CategoryID *int64 `json:"category_id"`
	Value      string `json:"value"`
	SortOrder  int    `json:"sort_order"`
}

// FieldValueInput is the request body for adding a vocabulary value
type FieldValueInput struct {
	FieldType  string `json:"field_type" validate:"required"`
	CategoryID *int64 `json:"category_id"`
	Value      string `json:"value" validate:"required"`
	SortOrder  int    `json:"sort_order"`
}

// FieldValueUpdate is the request body for renaming or reordering a value
type FieldValueUpdate struct {
	Value     *string `json:"value,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

// CategoryCount is one row of the per-category statistics
type CategoryCount struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// StatsOverview summarizes the whole collection for the dashboard
type StatsOverview struct {
	TotalItems         int             `json:"total_items"`
	ByStatus           map[string]int  `json:"by_status"`
	ByCategory         []CategoryCount `json:"by_category"`
	AvgRating          float64         `json:"avg_rating"`
	RatingDistribution map[string]int  `json:"rating_distribution"`
}

// Int64 returns a pointer to v
func Int64(v int64) *int64 {
	return &v
}

// String returns a pointer to v, or nil when v is blank
func String(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

// SameID reports whether two nullable ids are equal
func SameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
