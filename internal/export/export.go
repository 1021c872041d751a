// Package export writes the collection to parquet, YAML or JSON files.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/mediashelf/mediashelf/internal/client"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// PageSize is the largest page the backend serves
const PageSize = 200

type Format string

const (
	FormatParquet Format = "parquet"
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
)

// ParseFormat accepts a format name or a file path with a known extension
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if ext := filepath.Ext(name); ext != "" {
		name = ext[1:]
	}
	switch name {
	case "parquet":
		return FormatParquet, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use parquet, yaml or json)", s)
	}
}

// Record is one exported item. Parquet has no union type for metadata
// values, so it stores the metadata as JSON text instead.
type Record struct {
	ID            int64           `json:"id" yaml:"id" parquet:"id"`
	Title         string          `json:"title" yaml:"title" parquet:"title"`
	Category      string          `json:"category" yaml:"category" parquet:"category"`
	Status        string          `json:"status" yaml:"status" parquet:"status"`
	Rating        string          `json:"rating,omitempty" yaml:"rating,omitempty" parquet:"rating,optional"`
	Notes         string          `json:"notes,omitempty" yaml:"notes,omitempty" parquet:"notes,optional"`
	CoverImageURL string          `json:"cover_image_url,omitempty" yaml:"cover_image_url,omitempty" parquet:"cover_image_url,optional"`
	Tags          []string        `json:"tags" yaml:"tags" parquet:"tags,list"`
	Metadata      models.Metadata `json:"metadata" yaml:"metadata" parquet:"-"`
	MetadataJSON  string          `json:"-" yaml:"-" parquet:"metadata_json"`
	CreatedAt     time.Time       `json:"created_at" yaml:"created_at" parquet:"created_at,timestamp"`
	UpdatedAt     time.Time       `json:"updated_at" yaml:"updated_at" parquet:"updated_at,timestamp"`
}

// NewRecord flattens an item
func NewRecord(item models.MediaItem) (Record, error) {
	meta, err := json.Marshal(item.Metadata)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode metadata of item %d: %w", item.ID, err)
	}
	r := Record{
		ID:           item.ID,
		Title:        item.Title,
		Category:     item.CategoryName,
		Status:       string(item.Status),
		Metadata:     item.Metadata,
		MetadataJSON: string(meta),
		Tags:         make([]string, 0, len(item.Tags)),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
	if item.Rating != nil {
		r.Rating = string(*item.Rating)
	}
	if item.Notes != nil {
		r.Notes = *item.Notes
	}
	if item.CoverImageURL != nil {
		r.CoverImageURL = *item.CoverImageURL
	}
	for _, t := range item.Tags {
		r.Tags = append(r.Tags, t.Name)
	}
	return r, nil
}

// Lister pages through the collection
type Lister interface {
	ListMedia(ctx context.Context, q client.MediaQuery) (*models.MediaPage, error)
}

// Collect fetches every item matching q, oldest first, one page at a time
func Collect(ctx context.Context, api Lister, q client.MediaQuery) ([]Record, error) {
	q.Limit = PageSize
	q.Offset = 0
	q.SortBy = "created_at"
	q.SortDir = "asc"

	var records []Record
	for {
		page, err := api.ListMedia(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page at offset %d: %w", q.Offset, err)
		}
		for _, item := range page.Items {
			r, err := NewRecord(item)
			if err != nil {
				return nil, err
			}
			records = append(records, r)
		}
		slog.Debug("Fetched export page", "offset", q.Offset, "items", len(page.Items), "total", page.Total)

		q.Offset += len(page.Items)
		if len(page.Items) == 0 || q.Offset >= page.Total {
			break
		}
	}
	return records, nil
}

// Write encodes records to w in the given format
func Write(w io.Writer, format Format, records []Record) error {
	switch format {
	case FormatParquet:
		pw := parquet.NewGenericWriter[Record](w)
		if _, err := pw.Write(records); err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
		if err := pw.Close(); err != nil {
			return fmt.Errorf("failed to finish parquet file: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
