package subscriptions

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/greenmart/greenmart/internal/platform/httpx"
	"github.com/greenmart/greenmart/internal/records"
)

// Handler serves subscription delivery schedules.
type Handler struct {
	logger *slog.Logger
	store  records.Store
	now    func() time.Time
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, store records.Store) *Handler {
	return &Handler{logger: logger, store: store, now: time.Now}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

// MountRoutes registers subscription routes.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/subscriptions/schedule", h.handleSchedule)
	r.Get("/stock-prep", h.handleStockPrep)
}

// CustomerSchedule is one active subscription with its planned deliveries.
type CustomerSchedule struct {
	SubscriptionID string     `json:"subscriptionId"`
	Name           string     `json:"name"`
	Plan           string     `json:"plan"`
	Deliveries     []Delivery `json:"deliveries"`
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	subs, err := h.store.ListSubscriptions(r.Context())
	if err != nil {
		h.logger.Error("list subscriptions failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Record Store Unavailable", "could not load subscriptions")
		return
	}

	from := h.now().UTC()
	schedules := make([]CustomerSchedule, 0, len(subs))
	for _, sub := range subs {
		if sub.Status != records.SubscriptionActive {
			continue
		}
		deliveries := Schedule(sub, from)
		if len(deliveries) == 0 {
			continue
		}
		schedules = append(schedules, CustomerSchedule{
			SubscriptionID: sub.ID,
			Name:           sub.Name,
			Plan:           sub.Plan,
			Deliveries:     deliveries,
		})
	}
	httpx.JSON(w, http.StatusOK, schedules)
}

func (h *Handler) handleStockPrep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subs, err := h.store.ListSubscriptions(ctx)
	if err != nil {
		h.logger.Error("list subscriptions failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Record Store Unavailable", "could not load subscriptions")
		return
	}
	retail, err := h.store.ListSales(ctx)
	if err != nil {
		h.logger.Error("list sales failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Record Store Unavailable", "could not load sales")
		return
	}
	wholesale, err := h.store.ListWholesaleSales(ctx)
	if err != nil {
		h.logger.Error("list wholesale sales failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Record Store Unavailable", "could not load wholesale sales")
		return
	}

	httpx.JSON(w, http.StatusOK, BuildStockPrep(subs, retail, wholesale, h.now().UTC()))
}
