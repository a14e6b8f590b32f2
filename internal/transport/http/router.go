package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"petadoption/internal/apidoc"
	"petadoption/internal/authz"
	"petadoption/internal/observability/middleware"
	"petadoption/internal/service"
	"petadoption/internal/storage"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultMaxUploadBytes = 5 << 20

type RouterConfig struct {
	Auth     service.AuthService
	Recovery service.RecoveryService
	Pets     service.PetService
	Tokens   service.TokenVerifier
	Files    storage.FileStorage
	// Ready backs /readyz; nil always reports ready.
	Ready func(ctx context.Context) error

	CORSOrigins    []string
	MaxUploadBytes int64
	RequestTimeout time.Duration
	Version        string
}

type handlers struct {
	auth      service.AuthService
	recovery  service.RecoveryService
	pets      service.PetService
	files     storage.FileStorage
	maxUpload int64
}

func NewRouter(cfg RouterConfig) http.Handler {
	h := &handlers{
		auth:      cfg.Auth,
		recovery:  cfg.Recovery,
		pets:      cfg.Pets,
		files:     cfg.Files,
		maxUpload: cfg.MaxUploadBytes,
	}
	if h.maxUpload <= 0 {
		h.maxUpload = defaultMaxUploadBytes
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.WithRequestAndTrace)
	r.Use(chimw.Recoverer)
	r.Use(middleware.WithMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.HeaderRequestID, middleware.HeaderTraceID},
		ExposedHeaders: []string{middleware.HeaderRequestID, middleware.HeaderTraceID},
		MaxAge:         300,
	}))
	r.Use(chimw.Timeout(timeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ready != nil {
			if err := cfg.Ready(r.Context()); err != nil {
				slog.Warn("readiness check failed", append([]any{"error", err}, middleware.LogAttrs(r.Context())...)...)
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api-docs/openapi.yaml", apidoc.Handler(cfg.Version))

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})

	r.Route("/password", func(r chi.Router) {
		r.Post("/forgot", h.forgotPassword)
		r.Post("/reset", h.resetPassword)
	})

	r.Route("/pets", func(r chi.Router) {
		r.Get("/", h.listPets)
		r.Get("/{id}", h.getPet)

		r.Group(func(r chi.Router) {
			r.Use(authz.RequireBearer(cfg.Tokens))
			r.Post("/", h.createPet)
			r.Put("/{id}", h.updatePet)
			r.Delete("/{id}", h.deletePet)
		})
	})

	r.Get("/uploads/{name}", h.serveUpload)

	return r
}
