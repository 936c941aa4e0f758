package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/greenmart/greenmart/internal/dashboard"
	"github.com/greenmart/greenmart/internal/observability"
	reporthttp "github.com/greenmart/greenmart/internal/reports/http"
	"github.com/greenmart/greenmart/internal/subscriptions"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	ReportHandler       *reporthttp.Handler
	DashboardHandler    *dashboard.Handler
	SubscriptionHandler *subscriptions.Handler
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router with Greenmart defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		params.ReportHandler.MountRoutes(api)
		params.DashboardHandler.MountRoutes(api)
		params.SubscriptionHandler.MountRoutes(api)
	})

	return r
}
