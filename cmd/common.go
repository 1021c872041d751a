package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/state"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// resolveCategory accepts a category id or a name, ignoring case
func resolveCategory(store *state.Store, s string) (models.Category, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		if cat, ok := store.Category(id); ok {
			return cat, nil
		}
		return models.Category{}, fmt.Errorf("no category with id %d", id)
	}
	if cat, ok := store.CategoryByName(s); ok {
		return cat, nil
	}
	for _, cat := range store.Categories() {
		if strings.EqualFold(cat.Name, s) {
			return cat, nil
		}
	}
	return models.Category{}, fmt.Errorf("unknown category %q", s)
}

// parseRating treats "" and "none" as no rating
func parseRating(s string) (*models.Grade, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}
	g, err := models.ParseGrade(s)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
