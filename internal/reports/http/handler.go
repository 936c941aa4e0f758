// Package reporthttp exposes the report engine over HTTP.
package reporthttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/greenmart/greenmart/internal/platform/httpx"
	"github.com/greenmart/greenmart/internal/reports"
)

const requestTimeout = 15 * time.Second

// ReportEngine is the engine contract the handler depends on.
type ReportEngine interface {
	Generate(ctx context.Context, kind reports.Kind, start, end time.Time) (*reports.Report, error)
	State() reports.State
}

// ReportObserver records generation outcomes for monitoring.
type ReportObserver interface {
	ObserveReport(kind string, err error)
}

// Handler serves report generation requests.
type Handler struct {
	logger   *slog.Logger
	engine   ReportEngine
	observer ReportObserver
	validate *validator.Validate
	group    singleflight.Group
}

// NewHandler constructs the report HTTP handler. The observer is optional.
func NewHandler(logger *slog.Logger, engine ReportEngine, observer ReportObserver) *Handler {
	return &Handler{
		logger:   logger,
		engine:   engine,
		observer: observer,
		validate: validator.New(),
	}
}

// MountRoutes registers report endpoints onto the router. Generation is
// rate limited per client; the engine does real work per call.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(30, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "report generation is rate limited")
		}),
	)

	r.Get("/reports/kinds", h.handleKinds)
	r.Get("/reports/state", h.handleState)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/reports/{kind}", h.handleGenerate)
	})
}

type generateParams struct {
	Kind  string `validate:"required"`
	Start string `validate:"required,datetime=2006-01-02"`
	End   string `validate:"required,datetime=2006-01-02"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	params := generateParams{
		Kind:  chi.URLParam(r, "kind"),
		Start: strings.TrimSpace(r.URL.Query().Get("start")),
		End:   strings.TrimSpace(r.URL.Query().Get("end")),
	}
	if err := h.validate.Struct(params); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "kind, start and end (YYYY-MM-DD) are required")
		return
	}
	kind, err := reports.ParseKind(params.Kind)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	start, _ := time.Parse("2006-01-02", params.Start)
	end, _ := time.Parse("2006-01-02", params.End)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	// Identical in-flight requests share one generation pass.
	key := fmt.Sprintf("%s:%s:%s", kind, params.Start, params.End)
	result, err, shared := h.generateShared(ctx, key, kind, start, end)
	if h.observer != nil {
		h.observer.ObserveReport(string(kind), err)
	}
	if err != nil {
		if errors.Is(err, reports.ErrInvalidRange) {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Range", err.Error())
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			httpx.Problem(w, http.StatusGatewayTimeout, "Timeout", "report generation timed out")
			return
		}
		h.logger.Error("generate report failed",
			slog.String("kind", string(kind)),
			slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Record Store Unavailable", "could not load records for the report")
		return
	}
	if shared {
		h.logger.Debug("report request coalesced", slog.String("key", key))
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) generateShared(ctx context.Context, key string, kind reports.Kind, start, end time.Time) (*reports.Report, error, bool) {
	resultChan := h.group.DoChan(key, func() (interface{}, error) {
		return h.engine.Generate(ctx, kind, start, end)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err, res.Shared
		}
		return res.Val.(*reports.Report), nil, res.Shared
	}
}

func (h *Handler) handleKinds(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, reports.Kinds())
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"state": string(h.engine.State())})
}
