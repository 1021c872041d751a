package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/storage"
)

const mediaNotFound = "Media item not found"

func (h *Handler) parseMediaFilter(w http.ResponseWriter, r *http.Request) (storage.MediaFilter, bool) {
	q := r.URL.Query()
	f := storage.MediaFilter{
		Query:   strings.TrimSpace(q.Get("q")),
		SortBy:  q.Get("sort_by"),
		SortDir: q.Get("sort_dir"),
		Limit:   50,
	}

	switch f.SortBy {
	case "":
		f.SortBy = storage.SortCreatedAt
	case storage.SortCreatedAt, storage.SortTitle, storage.SortRating:
	default:
		h.writeError(w, "sort_by must be one of: created_at title rating", http.StatusUnprocessableEntity)
		return f, false
	}
	switch f.SortDir {
	case "":
		f.SortDir = "desc"
	case "asc", "desc":
	default:
		h.writeError(w, "sort_dir must be asc or desc", http.StatusUnprocessableEntity)
		return f, false
	}

	if v := q.Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.writeError(w, "Invalid category_id", http.StatusUnprocessableEntity)
			return f, false
		}
		f.CategoryID = &id
	}
	if v := q.Get("status"); v != "" {
		st, err := models.ParseStatus(v)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusUnprocessableEntity)
			return f, false
		}
		f.Status = &st
	}
	if v := q.Get("rating"); v != "" {
		g, err := models.ParseGrade(v)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusUnprocessableEntity)
			return f, false
		}
		f.Rating = &g
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			h.writeError(w, "limit must be between 1 and 200", http.StatusUnprocessableEntity)
			return f, false
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, "offset must not be negative", http.StatusUnprocessableEntity)
			return f, false
		}
		f.Offset = n
	}
	return f, true
}

func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	f, ok := h.parseMediaFilter(w, r)
	if !ok {
		return
	}
	items, total := h.store.ListMedia(f)
	h.writeJSON(w, http.StatusOK, models.MediaPage{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset})
}

func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	item, err := h.store.GetMedia(id)
	if err != nil {
		h.writeStoreError(w, err, mediaNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

func (h *Handler) CreateMedia(w http.ResponseWriter, r *http.Request) {
	var in models.MediaInput
	if !h.decode(w, r, &in) {
		return
	}
	if in.Status == "" {
		in.Status = models.StatusWishlist
	}
	in.Title = strings.TrimSpace(in.Title)
	if !h.validate(w, in) {
		return
	}
	item, err := h.store.CreateMedia(in)
	if err != nil {
		h.writeStoreError(w, err, mediaNotFound)
		return
	}
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var p storage.MediaPatch
	if !h.decode(w, r, &p) {
		return
	}
	if p.Title.Set && strings.TrimSpace(p.Title.Value) == "" {
		h.writeError(w, "Title is required", http.StatusUnprocessableEntity)
		return
	}
	if p.Status.Set {
		st, err := models.ParseStatus(string(p.Status.Value))
		if err != nil {
			h.writeError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		p.Status.Value = st
	}
	if p.Rating.Set && p.Rating.Value != nil && p.Rating.Value.Rank() < 0 {
		h.writeError(w, "Rating must be one of: F D- D D+ C- C C+ B- B B+ A- A A+", http.StatusUnprocessableEntity)
		return
	}

	item, err := h.store.UpdateMedia(id, p)
	if err != nil {
		h.writeStoreError(w, err, mediaNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteMedia(id); err != nil {
		h.writeStoreError(w, err, mediaNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetMediaTags takes a bare JSON list of tag ids
func (h *Handler) SetMediaTags(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var tagIDs []int64
	if !h.decode(w, r, &tagIDs) {
		return
	}
	item, err := h.store.SetMediaTags(id, tagIDs)
	if err != nil {
		h.writeStoreError(w, err, mediaNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}
