// Package vocabulary caches the controlled value lists that populate
// metadata dropdowns.
package vocabulary

import (
	"context"
	"fmt"
	"sync"

	"github.com/mediashelf/mediashelf/internal/client"
	"github.com/mediashelf/mediashelf/internal/models"
)

// Lister loads vocabulary entries
type Lister interface {
	ListFieldValues(ctx context.Context, q client.FieldValueQuery) ([]models.FieldValue, error)
}

type key struct {
	fieldType  string
	categoryID int64
	shared     bool
}

func keyFor(fieldType string, categoryID *int64) key {
	if categoryID == nil {
		return key{fieldType: fieldType, shared: true}
	}
	return key{fieldType: fieldType, categoryID: *categoryID}
}

// Cache indexes every vocabulary value by (field type, category or shared).
// It is rebuilt in full by Load and never patched in place.
type Cache struct {
	lister Lister

	mu     sync.RWMutex
	index  map[key][]string
	loaded bool
	count  int
}

// New creates an empty cache
func New(lister Lister) *Cache {
	return &Cache{lister: lister, index: map[key][]string{}}
}

// Load fetches all values and rebuilds the index. On failure the index is left empty.
func (c *Cache) Load(ctx context.Context) error {
	values, err := c.lister.ListFieldValues(ctx, client.FieldValueQuery{})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = map[key][]string{}
	c.count = 0
	c.loaded = false
	if err != nil {
		return fmt.Errorf("failed to load field values: %w", err)
	}

	for _, fv := range values {
		k := keyFor(fv.FieldType, fv.CategoryID)
		c.index[k] = append(c.index[k], fv.Value)
	}
	c.count = len(values)
	c.loaded = true
	return nil
}

// OptionsFor returns the values of a vocabulary in backend order.
// Scoped lookups use the category's own list; the rest use the shared list.
func (c *Cache) OptionsFor(vocabulary string, categoryID *int64, scoped bool) []string {
	k := keyFor(vocabulary, nil)
	if scoped {
		k = keyFor(vocabulary, categoryID)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	values := c.index[k]
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// Loaded reports whether the last Load succeeded
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Len returns the number of values indexed
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}
