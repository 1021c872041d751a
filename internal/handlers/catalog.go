package handlers

import (
	"net/http"

	"github.com/mediashelf/mediashelf/internal/models"
)

const (
	categoryNotFound = "Category not found"
	tagNotFound      = "Tag not found"
)

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.ListCategories())
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if !h.decode(w, r, &in) || !h.validate(w, in) {
		return
	}
	cat, err := h.store.CreateCategory(in)
	if err != nil {
		h.writeStoreError(w, err, categoryNotFound)
		return
	}
	h.writeJSON(w, http.StatusCreated, cat)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in models.CategoryInput
	if !h.decode(w, r, &in) {
		return
	}
	cat, err := h.store.UpdateCategory(id, in)
	if err != nil {
		h.writeStoreError(w, err, categoryNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, cat)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteCategory(id); err != nil {
		h.writeStoreError(w, err, categoryNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.ListTags())
}

func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var in models.TagInput
	if !h.decode(w, r, &in) || !h.validate(w, in) {
		return
	}
	tag, err := h.store.CreateTag(in)
	if err != nil {
		h.writeStoreError(w, err, tagNotFound)
		return
	}
	h.writeJSON(w, http.StatusCreated, tag)
}

func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in models.TagInput
	if !h.decode(w, r, &in) {
		return
	}
	tag, err := h.store.UpdateTag(id, in)
	if err != nil {
		h.writeStoreError(w, err, tagNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, tag)
}

func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteTag(id); err != nil {
		h.writeStoreError(w, err, tagNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) StatsOverview(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Overview())
}

func (h *Handler) RecentItems(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Recent())
}
