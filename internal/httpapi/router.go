// Package httpapi is a thin HTTP adapter over CRUD controllers. Each
// resource is mounted under /v{version}/{path} for every configured API
// version, and outcomes are mapped to status codes with JSON bodies.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultVersions is used when no API version is configured.
var DefaultVersions = []string{"1"}

// NewRouter mounts resources under each API version and adds GET /health.
func NewRouter(versions []string, logger *slog.Logger, resources ...Mounter) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(versions) == 0 {
		versions = DefaultVersions
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	for _, v := range versions {
		r.Route("/v"+v, func(api chi.Router) {
			for _, res := range resources {
				res.Mount(api)
			}
		})
	}
	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.DebugContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
