package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/carebridge/carebridge/internal/authz"
	"github.com/carebridge/carebridge/internal/observability"
	"github.com/carebridge/carebridge/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	Principals    *shared.PrincipalStore
	Registry      *authz.Registry
	Introspection *authz.IntrospectionHandler
	Metrics       *observability.Metrics
}

// NewRouter constructs the chi.Router with CareBridge defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:     params.Logger,
		Config:     params.Config,
		Principals: params.Principals,
		Registry:   params.Registry,
		Metrics:    params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Route("/v1/authz", func(r chi.Router) {
		params.Introspection.MountRoutes(r)
	})

	return r
}
