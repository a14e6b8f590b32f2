package http

import (
	"errors"
	"log/slog"
	"net/http"

	"petadoption/internal/domain"
	"petadoption/internal/httpx"
	"petadoption/internal/observability/middleware"
)

// writeError maps service errors to status codes. Anything unrecognised is
// logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &ve):
		httpx.Error(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &tooLarge):
		httpx.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, domain.ErrDuplicateKey):
		httpx.Error(w, http.StatusBadRequest, domain.ErrDuplicateKey.Error())
	case errors.Is(err, domain.ErrInvalidOrExpiredToken):
		httpx.Error(w, http.StatusBadRequest, domain.ErrInvalidOrExpiredToken.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		httpx.Error(w, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		httpx.Error(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
	case errors.Is(err, domain.ErrInvalidToken):
		httpx.Error(w, http.StatusForbidden, domain.ErrInvalidToken.Error())
	case errors.Is(err, domain.ErrForbidden):
		httpx.Error(w, http.StatusForbidden, domain.ErrForbidden.Error())
	case errors.Is(err, domain.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, domain.ErrNotFound.Error())
	default:
		slog.Error("request failed", append([]any{"error", err, "method", r.Method, "path", r.URL.Path}, middleware.LogAttrs(r.Context())...)...)
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func badJSON(w http.ResponseWriter) {
	httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
}
