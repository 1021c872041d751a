package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mediashelf/mediashelf/internal/categories"
	"github.com/mediashelf/mediashelf/internal/handlers"
	"github.com/mediashelf/mediashelf/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	t   *testing.T
	url string
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	t.Setenv("MEDIASHELF_CONFIG", "")
	srv := httptest.NewServer(handlers.New(storage.New(), t.TempDir()).Routes())
	t.Cleanup(srv.Close)
	return &backend{t: t, url: srv.URL + "/api"}
}

// run executes the CLI against the backend and returns everything it printed
func (b *backend) run(args ...string) (string, error) {
	b.t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--api-url", b.url, "--log-level", "error", "--yes"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (b *backend) mustRun(args ...string) string {
	b.t.Helper()
	out, err := b.run(args...)
	require.NoError(b.t, err, out)
	return out
}

func TestItemLifecycle(t *testing.T) {
	b := newBackend(t)

	b.mustRun("vocab", "add", "author", "Frank Herbert")

	out := b.mustRun("item", "add", "-c", "books",
		"--title", "Dune",
		"--status", "owned",
		"--rating", "a",
		"-f", "author=Frank Herbert",
		"-f", "genre=Fantasy",
		"-f", "year=1965",
		"-t", "classic",
	)
	assert.Contains(t, out, "Added successfully")
	assert.Contains(t, out, "#1 Dune")

	out = b.mustRun("item", "show", "1")
	assert.Contains(t, out, "Edit Media")
	assert.Contains(t, out, "Frank Herbert")
	assert.Contains(t, out, "Fantasy")
	assert.Contains(t, out, "classic")

	out = b.mustRun("library", "-c", "Books", "--view", "list")
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "Frank Herbert")

	b.mustRun("item", "edit", "1", "--title", "Dune Messiah", "--untag", "classic")
	out = b.mustRun("library", "-q", "messiah")
	assert.Contains(t, out, "Dune Messiah")
	assert.NotContains(t, out, "classic")

	out = b.mustRun("item", "delete", "1")
	assert.Contains(t, out, "Deleted successfully")

	out = b.mustRun("library")
	assert.Contains(t, out, "No results found")
}

func TestItemCoverFromURL(t *testing.T) {
	b := newBackend(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	art := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(png)
	}))
	t.Cleanup(art.Close)

	b.mustRun("item", "add", "-c", "Games", "--title", "Hades", "--cover-url", art.URL+"/hades.png")

	out := b.mustRun("item", "show", "1")
	assert.Contains(t, out, ".png")
	assert.NotContains(t, out, "No file chosen")

	b.mustRun("item", "edit", "1", "--clear-cover")
	out = b.mustRun("item", "show", "1")
	assert.Contains(t, out, "No file chosen")
}

func TestItemErrors(t *testing.T) {
	b := newBackend(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing title", []string{"item", "add", "-c", "Books"}},
		{"unknown category", []string{"item", "add", "-c", "Comics", "--title", "Saga"}},
		{"unknown field", []string{"item", "add", "-c", "Books", "--title", "Emma", "-f", "platform=PC"}},
		{"option not in list", []string{"item", "add", "-c", "Books", "--title", "Emma", "-f", "genre=Polka"}},
		{"bad grade", []string{"item", "add", "-c", "Books", "--title", "Emma", "--rating", "E"}},
		{"bad id", []string{"item", "show", "abc"}},
		{"missing item", []string{"item", "show", "42"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.run(tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestCategoriesCommand(t *testing.T) {
	b := newBackend(t)

	out := b.mustRun("categories", "create", "Board Games", "--icon", "🎲")
	assert.Contains(t, out, `Category "Board Games" created`)
	assert.Contains(t, out, "Board Games")

	out = b.mustRun("categories", "update", "board games", "--name", "Tabletop")
	assert.Contains(t, out, "Tabletop")

	out = b.mustRun("categories", "delete", "Tabletop")
	assert.Contains(t, out, `Category "Tabletop" deleted`)

	_, err := b.run("categories", "delete", "Books")
	assert.ErrorIs(t, err, categories.ErrSystemCategory)
}

func TestTagsCommand(t *testing.T) {
	b := newBackend(t)

	b.mustRun("tags", "create", "backlog")
	out := b.mustRun("tags")
	assert.Contains(t, out, "backlog")
	assert.Contains(t, out, "0 items")

	b.mustRun("tags", "update", "BACKLOG", "--name", "up next")
	out = b.mustRun("tags")
	assert.Contains(t, out, "up next")

	b.mustRun("tags", "delete", "up next")
	out = b.mustRun("tags")
	assert.Contains(t, out, "No tags yet")

	_, err := b.run("tags", "delete", "nope")
	assert.Error(t, err)
}

func TestVocabCommand(t *testing.T) {
	b := newBackend(t)

	out := b.mustRun("vocab", "add", "genre", "-c", "Games", "Roguelike")
	assert.Contains(t, out, `"Roguelike" added`)
	assert.Contains(t, out, "Roguelike")

	_, err := b.run("vocab", "add", "genre", "-c", "Games", "roguelike")
	assert.Error(t, err)

	out = b.mustRun("vocab")
	assert.Contains(t, out, "Select a list")
}

func TestExportCommand(t *testing.T) {
	b := newBackend(t)
	b.mustRun("item", "add", "-c", "Games", "--title", "Hades", "--rating", "A+")
	b.mustRun("item", "add", "-c", "Books", "--title", "Emma")

	path := filepath.Join(t.TempDir(), "games.json")
	b.mustRun("export", "-c", "Games", "-o", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Hades", records[0]["title"])
	assert.Equal(t, "A+", records[0]["rating"])
}

func TestInvalidConfiguration(t *testing.T) {
	b := newBackend(t)
	_, err := b.run("--page-size", "0", "library")
	assert.Error(t, err)
}
