// Package state holds the application-wide snapshots of categories and tags
// and the event bus that tells views to reload after a mutation.
package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/mediashelf/mediashelf/internal/models"
	"golang.org/x/sync/errgroup"
)

// Source loads the data the store caches
type Source interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
}

// Store caches categories and tags for the sidebar and the editors
type Store struct {
	mu         sync.RWMutex
	categories []models.Category
	tags       []models.Tag
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Refresh reloads both snapshots. Nothing is replaced unless both loads succeed.
func (s *Store) Refresh(ctx context.Context, src Source) error {
	var cats []models.Category
	var tags []models.Tag

	g, gctx := errgroup.WithContext(ctx)
	Go(g, func() error {
		var err error
		cats, err = src.ListCategories(gctx)
		if err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		return nil
	})
	Go(g, func() error {
		var err error
		tags, err = src.ListTags(gctx)
		if err != nil {
			return fmt.Errorf("failed to load tags: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = cats
	s.tags = tags
	return nil
}

// Categories returns a copy of the category snapshot
func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Tags returns a copy of the tag snapshot
func (s *Store) Tags() []models.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

// Category looks up a category by id
func (s *Store) Category(id int64) (models.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

// CategoryByName looks up a category by its exact name
func (s *Store) CategoryByName(name string) (models.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.Name == name {
			return c, true
		}
	}
	return models.Category{}, false
}
