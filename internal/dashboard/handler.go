package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greenmart/greenmart/internal/platform/httpx"
)

// Handler serves dashboard endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/dashboard/stats", h.handleStats)
	r.Get("/customers", h.handleCustomers)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("dashboard stats failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Record Store Unavailable", "could not load records for dashboard stats")
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) handleCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.Customers(r.Context())
	if err != nil {
		h.logger.Error("customer aggregation failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Record Store Unavailable", "could not load records for customers")
		return
	}
	httpx.JSON(w, http.StatusOK, customers)
}
