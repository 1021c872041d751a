package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/mediashelf/mediashelf/internal/client"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type pagedLister struct {
	items   []models.MediaItem
	queries []client.MediaQuery
}

func (p *pagedLister) ListMedia(_ context.Context, q client.MediaQuery) (*models.MediaPage, error) {
	p.queries = append(p.queries, q)
	end := min(q.Offset+q.Limit, len(p.items))
	return &models.MediaPage{Items: p.items[q.Offset:end], Total: len(p.items), Limit: q.Limit, Offset: q.Offset}, nil
}

func sampleItem(id int64) models.MediaItem {
	g := models.Grade("B+")
	return models.MediaItem{
		ID:           id,
		Title:        fmt.Sprintf("Item %d", id),
		CategoryName: "Movies",
		Status:       models.StatusOwned,
		Rating:       &g,
		Notes:        models.String("great"),
		Metadata: models.Metadata{
			"director": models.Single("Ridley Scott"),
			"cast":     models.List("Harrison Ford", "Sean Young"),
		},
		Tags:      []models.Tag{{ID: 1, Name: "classic"}, {ID: 2, Name: "noir"}},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"parquet", FormatParquet, false},
		{"collection.parquet", FormatParquet, false},
		{"YAML", FormatYAML, false},
		{"out/library.yml", FormatYAML, false},
		{"backup.json", FormatJSON, false},
		{"library.csv", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestCollectPagesThroughEverything(t *testing.T) {
	lister := &pagedLister{}
	for i := int64(1); i <= 450; i++ {
		lister.items = append(lister.items, sampleItem(i))
	}
	cat := int64(1)

	records, err := Collect(context.Background(), lister, client.MediaQuery{CategoryID: &cat, Limit: 10, Offset: 30})
	require.NoError(t, err)
	assert.Len(t, records, 450)
	require.Len(t, lister.queries, 3)
	assert.Equal(t, []int{0, 200, 400}, []int{lister.queries[0].Offset, lister.queries[1].Offset, lister.queries[2].Offset})
	assert.Equal(t, PageSize, lister.queries[0].Limit)
	assert.Equal(t, &cat, lister.queries[0].CategoryID)
	assert.Equal(t, "asc", lister.queries[0].SortDir)
}

func TestCollectEmpty(t *testing.T) {
	lister := &pagedLister{}
	records, err := Collect(context.Background(), lister, client.MediaQuery{})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Len(t, lister.queries, 1)
}

func TestNewRecord(t *testing.T) {
	r, err := NewRecord(sampleItem(7))
	require.NoError(t, err)
	assert.Equal(t, "B+", r.Rating)
	assert.Equal(t, "great", r.Notes)
	assert.Equal(t, []string{"classic", "noir"}, r.Tags)
	assert.JSONEq(t, `{"director":"Ridley Scott","cast":["Harrison Ford","Sean Young"]}`, r.MetadataJSON)

	bare, err := NewRecord(models.MediaItem{ID: 1, Title: "Bare"})
	require.NoError(t, err)
	assert.Empty(t, bare.Rating)
	assert.Empty(t, bare.Tags)
}

func TestWriteParquet(t *testing.T) {
	r, err := NewRecord(sampleItem(7))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatParquet, []Record{r}))

	pf, err := parquet.OpenFile(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.EqualValues(t, 1, pf.NumRows())

	reader := parquet.NewGenericReader[Record](pf)
	defer reader.Close()
	rows := make([]Record, 1)
	n, _ := reader.Read(rows)
	require.Equal(t, 1, n)
	assert.Equal(t, "Item 7", rows[0].Title)
	assert.Equal(t, []string{"classic", "noir"}, rows[0].Tags)
	assert.Equal(t, r.MetadataJSON, rows[0].MetadataJSON)
	assert.True(t, r.CreatedAt.Equal(rows[0].CreatedAt))
}

func TestWriteYAML(t *testing.T) {
	r, err := NewRecord(sampleItem(7))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, []Record{r}))
	assert.NotContains(t, buf.String(), "metadata_json")

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Item 7", decoded[0]["title"])
	meta := decoded[0]["metadata"].(map[string]any)
	assert.Equal(t, "Ridley Scott", meta["director"])
	assert.Equal(t, []any{"Harrison Ford", "Sean Young"}, meta["cast"])
}

func TestWriteJSON(t *testing.T) {
	r, err := NewRecord(sampleItem(7))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, []Record{r}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "B+", decoded[0]["rating"])
	assert.NotContains(t, decoded[0], "MetadataJSON")
	assert.Equal(t, "Ridley Scott", decoded[0]["metadata"].(map[string]any)["director"])
}
