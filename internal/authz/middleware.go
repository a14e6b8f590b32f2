package authz

import (
	"log/slog"
	"net/http"
	"strings"

	"petadoption/internal/domain"
	"petadoption/internal/httpx"
	obsmw "petadoption/internal/observability/middleware"
	"petadoption/internal/service"
)

// RequireBearer authenticates requests with an "Authorization: Bearer" token.
// A missing or non-bearer header is 401; a token that fails verification is 403.
// The token's claims are trusted as-is; no store lookup is made.
func RequireBearer(verifier service.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := obsmw.RequestIDFromContext(r.Context())
			traceID := obsmw.TraceIDFromContext(r.Context())

			tokStr, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				slog.Warn("auth missing bearer", "path", r.URL.Path, "request_id", reqID, "trace_id", traceID)
				httpx.Error(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
				return
			}

			subject, err := verifier.Verify(tokStr)
			if err != nil {
				slog.Warn("auth invalid token", "error", err, "path", r.URL.Path, "request_id", reqID, "trace_id", traceID)
				httpx.Error(w, http.StatusForbidden, domain.ErrInvalidToken.Error())
				return
			}

			p := subject.Principal()
			slog.Debug("auth passed", "user_id", p.UserID, "admin", p.IsAdmin, "request_id", reqID, "trace_id", traceID)
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}
