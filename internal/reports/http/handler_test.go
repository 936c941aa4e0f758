package reporthttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmart/greenmart/internal/reports"
)

type mockEngine struct {
	report   *reports.Report
	err      error
	state    reports.State
	calls    int
	lastKind reports.Kind
}

func (m *mockEngine) Generate(ctx context.Context, kind reports.Kind, start, end time.Time) (*reports.Report, error) {
	m.calls++
	m.lastKind = kind
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	p, err := reports.NewPeriod(start, end)
	if err != nil {
		return nil, err
	}
	return &reports.Report{Kind: kind, Period: p, Days: p.Days()}, nil
}

func (m *mockEngine) State() reports.State {
	if m.state == "" {
		return reports.StateIdle
	}
	return m.state
}

func newTestRouter(engine *mockEngine) http.Handler {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), engine, nil)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func TestHandleKinds(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/kinds", nil)
	newTestRouter(&mockEngine{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var kinds []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &kinds))
	assert.Len(t, kinds, 6)
	assert.Contains(t, kinds, "profit-and-loss")
}

func TestHandleState(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/state", nil)
	newTestRouter(&mockEngine{state: reports.StateReady}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["state"])
}

func TestHandleGenerateValidInput(t *testing.T) {
	engine := &mockEngine{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/sales?start=2025-01-01&end=2025-01-31", nil)
	newTestRouter(engine).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, engine.calls)
	assert.Equal(t, reports.KindSales, engine.lastKind)

	var report reports.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 31, report.Days)
}

func TestHandleGenerateRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		path string
	}{
		{"missing dates", "/reports/sales"},
		{"malformed date", "/reports/sales?start=Jan-1&end=2025-01-31"},
		{"unknown kind", "/reports/balance-sheet?start=2025-01-01&end=2025-01-31"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := &mockEngine{}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			newTestRouter(engine).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, 0, engine.calls, "engine must not run on invalid input")
		})
	}
}

func TestHandleGenerateInvalidRange(t *testing.T) {
	engine := &mockEngine{err: reports.ErrInvalidRange}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/sales?start=2025-01-31&end=2025-01-01", nil)
	newTestRouter(engine).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid Range")
}

func TestHandleGenerateStoreFailure(t *testing.T) {
	engine := &mockEngine{err: errors.New("pg down")}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/credits?start=2025-01-01&end=2025-01-31", nil)
	newTestRouter(engine).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Record Store Unavailable")
}
