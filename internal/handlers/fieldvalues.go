package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/storage"
)

const fieldValueNotFound = "Field value not found"

// ListFieldValues filters by field_type, and by category_id only when scoped=true
func (h *Handler) ListFieldValues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := storage.FieldValueFilter{FieldType: q.Get("field_type")}

	if v := q.Get("scoped"); v != "" {
		scoped, err := strconv.ParseBool(v)
		if err != nil {
			h.writeError(w, "Invalid scoped flag", http.StatusUnprocessableEntity)
			return
		}
		f.Scoped = scoped
	}
	if v := q.Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.writeError(w, "Invalid category_id", http.StatusUnprocessableEntity)
			return
		}
		f.CategoryID = &id
	}
	h.writeJSON(w, http.StatusOK, h.store.ListFieldValues(f))
}

func (h *Handler) CreateFieldValue(w http.ResponseWriter, r *http.Request) {
	var in models.FieldValueInput
	if !h.decode(w, r, &in) {
		return
	}
	in.Value = strings.TrimSpace(in.Value)
	if !h.validate(w, in) {
		return
	}
	fv, err := h.store.CreateFieldValue(in)
	if err != nil {
		h.writeStoreError(w, err, fieldValueNotFound)
		return
	}
	h.writeJSON(w, http.StatusCreated, fv)
}

func (h *Handler) UpdateFieldValue(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in models.FieldValueUpdate
	if !h.decode(w, r, &in) {
		return
	}
	fv, err := h.store.UpdateFieldValue(id, in)
	if err != nil {
		h.writeStoreError(w, err, fieldValueNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, fv)
}

func (h *Handler) DeleteFieldValue(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteFieldValue(id); err != nil {
		h.writeStoreError(w, err, fieldValueNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
