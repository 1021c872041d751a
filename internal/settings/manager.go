// Package settings manages the controlled vocabularies ("field lists")
// behind the metadata dropdowns.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mediashelf/mediashelf/internal/client"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/ui"
)

var ErrNoList = errors.New("no field list selected")

// API is the part of the backend the manager uses
type API interface {
	ListFieldValues(ctx context.Context, q client.FieldValueQuery) ([]models.FieldValue, error)
	CreateFieldValue(ctx context.Context, in models.FieldValueInput) (*models.FieldValue, error)
	UpdateFieldValue(ctx context.Context, id int64, in models.FieldValueUpdate) (*models.FieldValue, error)
	DeleteFieldValue(ctx context.Context, id int64) error
}

// RowState is the display state of one value row
type RowState int

const (
	RowDisplay RowState = iota
	RowEditing
)

// Row is one value of the active list
type Row struct {
	Value models.FieldValue
	State RowState
	Draft string
}

// Manager holds the navigation, the active list and its rows. The active
// list survives re-renders for the lifetime of the manager.
type Manager struct {
	api       API
	notifier  ui.Notifier
	confirmer ui.Confirmer

	mu      sync.Mutex
	nav     []NavGroup
	active  string
	entry   Entry
	rows    []Row
	loaded  bool
	loadErr error
}

// New creates a manager with no list selected
func New(api API, notifier ui.Notifier, confirmer ui.Confirmer) *Manager {
	return &Manager{api: api, notifier: notifier, confirmer: confirmer}
}

// Refresh rebuilds the navigation and reloads the active list if it still exists
func (m *Manager) Refresh(ctx context.Context, categories []models.Category) error {
	nav := BuildNav(categories)

	m.mu.Lock()
	m.nav = nav
	entry, ok := findEntry(nav, m.active)
	if !ok {
		m.entry = Entry{}
		m.rows = nil
		m.loaded = false
		m.loadErr = nil
	} else {
		m.entry = entry
	}
	m.mu.Unlock()

	if !ok {
		return nil
	}
	return m.load(ctx)
}

// Nav returns the navigation groups
func (m *Manager) Nav() []NavGroup {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]NavGroup(nil), m.nav...)
}

// Active returns the key of the selected list, or ""
func (m *Manager) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Select makes a list active and loads its values
func (m *Manager) Select(ctx context.Context, key string) error {
	m.mu.Lock()
	entry, ok := findEntry(m.nav, key)
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("unknown field list %q", key)
	}
	m.active = key
	m.entry = entry
	m.mu.Unlock()
	return m.load(ctx)
}

func (m *Manager) load(ctx context.Context) error {
	m.mu.Lock()
	entry := m.entry
	m.mu.Unlock()

	values, err := m.api.ListFieldValues(ctx, client.FieldValueQuery{
		FieldType:  entry.FieldType,
		CategoryID: entry.CategoryID,
		Scoped:     true,
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entry.Key != entry.Key {
		slog.Debug("Discarding field values for a list no longer active", "key", entry.Key)
		return nil
	}
	m.loaded = true
	if err != nil {
		m.rows = nil
		m.loadErr = err
		return fmt.Errorf("failed to load %s: %w", entry.Key, err)
	}
	m.loadErr = nil
	m.rows = make([]Row, 0, len(values))
	for _, v := range values {
		m.rows = append(m.rows, Row{Value: v, Draft: v.Value})
	}
	return nil
}

// reload refreshes the panel after a mutation
func (m *Manager) reload(ctx context.Context) {
	if err := m.load(ctx); err != nil {
		slog.Warn("Failed to reload field list", "err", err)
		m.notifier.Notify(ui.LevelError, "Failed to reload list")
	}
}

// Rows returns the rows of the active list
func (m *Manager) Rows() []Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Row(nil), m.rows...)
}

func (m *Manager) row(id int64) (*Row, error) {
	if m.entry.Key == "" {
		return nil, ErrNoList
	}
	for i := range m.rows {
		if m.rows[i].Value.ID == id {
			return &m.rows[i], nil
		}
	}
	return nil, fmt.Errorf("no value %d in %s", id, m.entry.Key)
}

// BeginRename switches a row to its editor
func (m *Manager) BeginRename(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.row(id)
	if err != nil {
		return err
	}
	r.State = RowEditing
	r.Draft = r.Value.Value
	return nil
}

// SetDraft changes the text of a row being renamed
func (m *Manager) SetDraft(id int64, draft string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.row(id)
	if err != nil {
		return err
	}
	if r.State != RowEditing {
		return fmt.Errorf("value %d is not being renamed", id)
	}
	r.Draft = draft
	return nil
}

// CancelRename leaves the editor without saving
func (m *Manager) CancelRename(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.row(id)
	if err != nil {
		return err
	}
	r.State = RowDisplay
	r.Draft = r.Value.Value
	return nil
}

// SaveRename sends the draft and reloads the list. A blank draft is ignored.
func (m *Manager) SaveRename(ctx context.Context, id int64) error {
	m.mu.Lock()
	r, err := m.row(id)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if r.State != RowEditing {
		m.mu.Unlock()
		return fmt.Errorf("value %d is not being renamed", id)
	}
	draft := strings.TrimSpace(r.Draft)
	m.mu.Unlock()

	if draft == "" {
		return nil
	}
	if _, err := m.api.UpdateFieldValue(ctx, id, models.FieldValueUpdate{Value: &draft}); err != nil {
		m.notifier.Notify(ui.LevelError, messageOr(err, "Failed to rename"))
		return fmt.Errorf("failed to rename value %d: %w", id, err)
	}
	m.notifier.Notify(ui.LevelSuccess, "Renamed successfully")
	m.reload(ctx)
	return nil
}

// Delete removes a value after confirmation and reloads the list
func (m *Manager) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	r, err := m.row(id)
	if err != nil {
		m.mu.Unlock()
		return false, err
	}
	value := r.Value.Value
	m.mu.Unlock()

	if !m.confirmer.Confirm(ctx, fmt.Sprintf("Delete %q?", value)) {
		return false, nil
	}
	if err := m.api.DeleteFieldValue(ctx, id); err != nil {
		m.notifier.Notify(ui.LevelError, messageOr(err, "Failed to delete"))
		return false, fmt.Errorf("failed to delete value %d: %w", id, err)
	}
	m.notifier.Notify(ui.LevelSuccess, fmt.Sprintf("%q deleted", value))
	m.reload(ctx)
	return true, nil
}

// Add appends a value to the active list and reloads it. A blank value is ignored.
func (m *Manager) Add(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)
	m.mu.Lock()
	entry := m.entry
	m.mu.Unlock()

	if entry.Key == "" {
		return ErrNoList
	}
	if value == "" {
		return nil
	}

	in := models.FieldValueInput{FieldType: entry.FieldType, CategoryID: entry.CategoryID, Value: value}
	if _, err := m.api.CreateFieldValue(ctx, in); err != nil {
		m.notifier.Notify(ui.LevelError, messageOr(err, "Failed to add value"))
		return fmt.Errorf("failed to add %q to %s: %w", value, entry.Key, err)
	}
	m.notifier.Notify(ui.LevelSuccess, fmt.Sprintf("%q added", value))
	m.reload(ctx)
	return nil
}

func messageOr(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
