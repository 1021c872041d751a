package storage

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/mediashelf/mediashelf/internal/models"
)

// FieldValueFilter selects vocabulary entries. CategoryID is only applied
// when Scoped is set, and then a nil CategoryID selects the shared list.
type FieldValueFilter struct {
	FieldType  string
	CategoryID *int64
	Scoped     bool
}

func (s *Store) duplicateValue(fieldType string, categoryID *int64, value string, except int64) bool {
	k := s.key(value)
	for _, fv := range s.fieldValues {
		if fv.ID != except && fv.FieldType == fieldType && models.SameID(fv.CategoryID, categoryID) && s.key(fv.Value) == k {
			return true
		}
	}
	return false
}

// ListFieldValues returns matching values ordered by field type, sort order and value
func (s *Store) ListFieldValues(f FieldValueFilter) []models.FieldValue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FieldValue, 0)
	for _, fv := range s.fieldValues {
		if f.FieldType != "" && fv.FieldType != f.FieldType {
			continue
		}
		if f.Scoped && !models.SameID(fv.CategoryID, f.CategoryID) {
			continue
		}
		out = append(out, *fv)
	}
	slices.SortFunc(out, func(a, b models.FieldValue) int {
		return cmp.Or(
			cmp.Compare(a.FieldType, b.FieldType),
			cmp.Compare(a.SortOrder, b.SortOrder),
			cmp.Compare(a.Value, b.Value),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return out
}

// CreateFieldValue adds a value; (field type, category, value) must be unique
func (s *Store) CreateFieldValue(in models.FieldValueInput) (models.FieldValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := strings.TrimSpace(in.Value)
	if value == "" || in.FieldType == "" {
		return models.FieldValue{}, refuse("field_type and value are required")
	}
	if in.CategoryID != nil {
		if _, ok := s.categories[*in.CategoryID]; !ok {
			return models.FieldValue{}, refuse("Category not found")
		}
	}
	if s.duplicateValue(in.FieldType, in.CategoryID, value, 0) {
		return models.FieldValue{}, refuse(fmt.Sprintf("%q already exists in this list", value))
	}
	return *s.addFieldValue(in.FieldType, in.CategoryID, value, in.SortOrder), nil
}

// UpdateFieldValue renames or reorders a value
func (s *Store) UpdateFieldValue(id int64, in models.FieldValueUpdate) (models.FieldValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fv, ok := s.fieldValues[id]
	if !ok {
		return models.FieldValue{}, ErrNotFound
	}
	if in.Value != nil {
		value := strings.TrimSpace(*in.Value)
		if value == "" {
			return models.FieldValue{}, refuse("value must not be empty")
		}
		if s.duplicateValue(fv.FieldType, fv.CategoryID, value, id) {
			return models.FieldValue{}, refuse(fmt.Sprintf("%q already exists in this list", value))
		}
		fv.Value = value
	}
	if in.SortOrder != nil {
		fv.SortOrder = *in.SortOrder
	}
	return *fv, nil
}

// DeleteFieldValue removes a value. Items already using it keep their metadata.
func (s *Store) DeleteFieldValue(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fieldValues[id]; !ok {
		return ErrNotFound
	}
	delete(s.fieldValues, id)
	return nil
}
