// Package categories is the category management view.
package categories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/state"
	"github.com/mediashelf/mediashelf/internal/ui"
	"github.com/mediashelf/mediashelf/internal/validation"
)

const (
	DefaultIcon  = "📁"
	DefaultColor = "#6366f1"
)

// ErrSystemCategory is returned when deleting a built-in category
var ErrSystemCategory = errors.New("built-in categories cannot be deleted")

// API is the part of the backend the view uses
type API interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, in models.CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// Manager lists categories and applies mutations, publishing
// EventCategoriesChanged after each one
type Manager struct {
	api       API
	notifier  ui.Notifier
	confirmer ui.Confirmer
	bus       state.Publisher
	validator *validation.Validator

	mu         sync.Mutex
	categories []models.Category
	loaded     bool
}

func New(api API, notifier ui.Notifier, confirmer ui.Confirmer, bus state.Publisher) *Manager {
	return &Manager{
		api:       api,
		notifier:  notifier,
		confirmer: confirmer,
		bus:       bus,
		validator: validation.NewValidator(),
	}
}

// Load fetches the categories with their item counts
func (m *Manager) Load(ctx context.Context) error {
	cats, err := m.api.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	m.mu.Lock()
	m.categories = cats
	m.loaded = true
	m.mu.Unlock()
	return nil
}

// Categories returns the last loaded list
func (m *Manager) Categories() []models.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Category(nil), m.categories...)
}

func (m *Manager) find(id int64) (models.Category, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

// Create adds a category. Blank icon and color fall back to the defaults.
func (m *Manager) Create(ctx context.Context, name, icon, color string) (*models.Category, error) {
	in := models.CategoryInput{
		Name:  strings.TrimSpace(name),
		Icon:  strings.TrimSpace(icon),
		Color: strings.TrimSpace(color),
	}
	if in.Icon == "" {
		in.Icon = DefaultIcon
	}
	if in.Color == "" {
		in.Color = DefaultColor
	}
	if err := m.validator.Validate(in); err != nil {
		m.notifier.Notify(ui.LevelError, err.Error())
		return nil, err
	}

	cat, err := m.api.CreateCategory(ctx, in)
	if err != nil {
		m.notifier.Notify(ui.LevelError, err.Error())
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	slog.Info("Category created", "id", cat.ID, "name", cat.Name)
	m.notifier.Notify(ui.LevelSuccess, fmt.Sprintf("Category %q created", cat.Name))
	m.changed(ctx)
	return cat, nil
}

// Update renames or restyles a category. Empty fields are left unchanged.
func (m *Manager) Update(ctx context.Context, id int64, in models.CategoryInput) (*models.Category, error) {
	current, ok := m.find(id)
	if !ok {
		return nil, fmt.Errorf("unknown category %d", id)
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		in.Name = current.Name
	}

	cat, err := m.api.UpdateCategory(ctx, id, in)
	if err != nil {
		m.notifier.Notify(ui.LevelError, err.Error())
		return nil, fmt.Errorf("failed to update category %d: %w", id, err)
	}
	m.notifier.Notify(ui.LevelSuccess, fmt.Sprintf("Category %q updated", cat.Name))
	m.changed(ctx)
	return cat, nil
}

// Rename changes only the name of a category
func (m *Manager) Rename(ctx context.Context, id int64, name string) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		err := validation.New("Name is required")
		m.notifier.Notify(ui.LevelError, err.Error())
		return nil, err
	}
	return m.Update(ctx, id, models.CategoryInput{Name: name})
}

// Delete removes a category after confirmation. Built-in categories are
// refused without a request; the backend refuses categories that have items.
func (m *Manager) Delete(ctx context.Context, id int64) (bool, error) {
	cat, ok := m.find(id)
	if !ok {
		return false, fmt.Errorf("unknown category %d", id)
	}
	if cat.IsSystem {
		m.notifier.Notify(ui.LevelError, "Cannot delete built-in category")
		return false, ErrSystemCategory
	}
	if !m.confirmer.Confirm(ctx, fmt.Sprintf("Delete category %q? This will fail if it has items.", cat.Name)) {
		return false, nil
	}

	if err := m.api.DeleteCategory(ctx, id); err != nil {
		m.notifier.Notify(ui.LevelError, err.Error())
		return false, fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	m.notifier.Notify(ui.LevelSuccess, fmt.Sprintf("Category %q deleted", cat.Name))
	m.changed(ctx)
	return true, nil
}

func (m *Manager) changed(ctx context.Context) {
	m.bus.Publish(state.EventCategoriesChanged)
	if err := m.Load(ctx); err != nil {
		slog.Warn("Failed to reload categories", "err", err)
	}
}
