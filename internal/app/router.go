package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/evcharger-search/evcharger-search/internal/auth"
	"github.com/evcharger-search/evcharger-search/internal/importer"
	"github.com/evcharger-search/evcharger-search/internal/observability"
	"github.com/evcharger-search/evcharger-search/internal/prices"
	"github.com/evcharger-search/evcharger-search/internal/searches"
	"github.com/evcharger-search/evcharger-search/internal/shared"
	"github.com/evcharger-search/evcharger-search/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	Translator      *shared.Translator
	Authenticator   auth.Authenticator
	AuthHandler     *auth.Handler
	PricesHandler   *prices.Handler
	ImportHandler   *importer.Handler
	SearchesHandler *searches.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with the service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	if !InTestMode() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.PricesHandler != nil {
		params.PricesHandler.MountLegacyRoutes(r)
	}

	r.Route("/api", func(r chi.Router) {
		if params.PricesHandler != nil {
			params.PricesHandler.MountRoutes(r)
		}
		if params.SearchesHandler != nil {
			params.SearchesHandler.MountRoutes(r)
		}
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.BasicAuth(params.Authenticator, params.Translator, params.Logger))
			if params.AuthHandler != nil {
				params.AuthHandler.MountRoutes(r)
			}
			if params.PricesHandler != nil {
				params.PricesHandler.MountAdminRoutes(r)
			}
			if params.ImportHandler != nil {
				params.ImportHandler.MountRoutes(r)
			}
		})
	})

	return r
}
