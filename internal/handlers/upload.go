package handlers

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const maxUploadSize = 10 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

const unsupportedType = "Unsupported file type. Use JPG, PNG, GIF, or WebP."

// UploadCover stores a multipart image under an md5-derived name and returns its URL
func (h *Handler) UploadCover(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		file, header, err = r.FormFile("files")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		h.writeError(w, unsupportedType, http.StatusBadRequest)
		return
	}

	// Limit file size to 10MB
	fileData, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(fileData) > maxUploadSize {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}
	if !allowedMIMETypes[http.DetectContentType(fileData)] {
		h.writeError(w, unsupportedType, http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(h.uploadsDir, 0755); err != nil {
		h.writeError(w, "Failed to create uploads directory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	sum := md5.Sum(fileData)
	name := hex.EncodeToString(sum[:]) + ext
	if err := os.WriteFile(filepath.Join(h.uploadsDir, name), fileData, 0644); err != nil {
		h.writeError(w, "Failed to save image: "+err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("Cover saved", "filename", name, "original", header.Filename, "size", len(fileData))
	h.writeJSON(w, http.StatusOK, map[string]string{"url": "/uploads/" + name})
}
