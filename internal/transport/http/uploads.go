package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"petadoption/internal/domain"
	"petadoption/internal/storage"

	"github.com/go-chi/chi/v5"
)

func (h *handlers) serveUpload(w http.ResponseWriter, r *http.Request) {
	rc, contentType, err := h.files.Open(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			writeError(w, r, domain.ErrNotFound)
			return
		}
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	if !strings.HasPrefix(contentType, "image/") {
		w.Header().Set("Content-Disposition", "attachment")
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}
