// Package handlers serves the collection REST API from an in-memory store.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mediashelf/mediashelf/internal/storage"
	"github.com/mediashelf/mediashelf/internal/validation"
)

type Handler struct {
	store      *storage.Store
	uploadsDir string
	validator  *validation.Validator
}

func New(store *storage.Store, uploadsDir string) *Handler {
	return &Handler{
		store:      store,
		uploadsDir: uploadsDir,
		validator:  validation.NewValidator(),
	}
}

// Routes mounts the API under /api and uploaded covers under /uploads
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	r.Get("/uploads/{name}", h.HandleUploads)

	r.Route("/api", func(r chi.Router) {
		r.Route("/media", func(r chi.Router) {
			r.Get("/", h.ListMedia)
			r.Post("/", h.CreateMedia)
			r.Get("/{id}", h.GetMedia)
			r.Put("/{id}", h.UpdateMedia)
			r.Delete("/{id}", h.DeleteMedia)
			r.Post("/{id}/tags", h.SetMediaTags)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
			r.Put("/{id}", h.UpdateCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})
		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.ListTags)
			r.Post("/", h.CreateTag)
			r.Put("/{id}", h.UpdateTag)
			r.Delete("/{id}", h.DeleteTag)
		})
		r.Route("/field-values", func(r chi.Router) {
			r.Get("/", h.ListFieldValues)
			r.Post("/", h.CreateFieldValue)
			r.Put("/{id}", h.UpdateFieldValue)
			r.Delete("/{id}", h.DeleteFieldValue)
		})
		r.Get("/stats/overview", h.StatsOverview)
		r.Get("/stats/recent", h.RecentItems)
		r.Post("/upload/cover", h.UploadCover)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("Request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Debug("Request refused", "status", code, "detail", message)
	}
	h.writeJSON(w, code, map[string]string{"detail": message})
}

// writeStoreError maps store errors to responses; notFound is the 404 detail
func (h *Handler) writeStoreError(w http.ResponseWriter, err error, notFound string) {
	var rule *storage.RuleError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.writeError(w, notFound, http.StatusNotFound)
	case errors.As(err, &rule):
		h.writeError(w, rule.Detail, http.StatusBadRequest)
	default:
		h.writeError(w, "Internal server error: "+err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) validate(w http.ResponseWriter, v any) bool {
	if err := h.validator.Validate(v); err != nil {
		h.writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return false
	}
	return true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, "Invalid id", http.StatusUnprocessableEntity)
		return 0, false
	}
	return id, true
}
