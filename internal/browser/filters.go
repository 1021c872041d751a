package browser

import (
	"fmt"

	"github.com/mediashelf/mediashelf/internal/client"
	"github.com/mediashelf/mediashelf/internal/models"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Sort fields accepted by the backend
const (
	SortCreatedAt = "created_at"
	SortTitle     = "title"
	SortRating    = "rating"
)

// SortOption is one entry of the sort menu
type SortOption struct {
	By    string
	Dir   string
	Label string
}

// SortOptions are the sort orders offered to the user
var SortOptions = []SortOption{
	{SortCreatedAt, "desc", "Newest Added"},
	{SortCreatedAt, "asc", "Oldest Added"},
	{SortTitle, "asc", "Title A–Z"},
	{SortTitle, "desc", "Title Z–A"},
	{SortRating, "desc", "Highest Rated"},
}

// Filters are the query parameters of the library listing
type Filters struct {
	Query      string
	CategoryID *int64
	Status     *models.Status
	Rating     *models.Grade
	SortBy     string
	SortDir    string
	Limit      int
	Offset     int
}

// DefaultFilters lists everything, newest first
func DefaultFilters() Filters {
	return Filters{
		SortBy:  SortCreatedAt,
		SortDir: "desc",
		Limit:   DefaultPageSize,
	}
}

// MediaQuery converts the filters to client parameters
func (f Filters) MediaQuery() client.MediaQuery {
	q := client.MediaQuery{
		Query:   f.Query,
		SortBy:  f.SortBy,
		SortDir: f.SortDir,
		Limit:   f.Limit,
		Offset:  f.Offset,
	}
	if f.CategoryID != nil {
		q.CategoryID = models.Int64(*f.CategoryID)
	}
	if f.Status != nil {
		q.Status = string(*f.Status)
	}
	if f.Rating != nil {
		q.Rating = string(*f.Rating)
	}
	return q
}

// SortLabel names the current sort order
func (f Filters) SortLabel() string {
	for _, o := range SortOptions {
		if o.By == f.SortBy && o.Dir == f.SortDir {
			return o.Label
		}
	}
	return fmt.Sprintf("%s %s", f.SortBy, f.SortDir)
}

func validSort(by, dir string) error {
	switch by {
	case SortCreatedAt, SortTitle, SortRating:
	default:
		return fmt.Errorf("unknown sort field %q", by)
	}
	if dir != "asc" && dir != "desc" {
		return fmt.Errorf("unknown sort direction %q", dir)
	}
	return nil
}
