package reports

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/greenmart/greenmart/internal/records"
)

// State tracks the dispatcher lifecycle for one engine.
type State string

const (
	StateIdle       State = "idle"
	StateGenerating State = "generating"
	StateReady      State = "ready"
	StateFailed     State = "failed"
)

// Engine generates reports on demand. Generation itself is a pure batch
// computation over a snapshot of the record store: the same records and
// window always produce the same report. The engine keeps only the most
// recent result; a new call discards the previous one.
type Engine struct {
	store  records.Store
	cache  *Cache
	logger *slog.Logger

	mu    sync.Mutex
	state State
	last  *Report
}

// NewEngine wires the record store with an optional cache.
func NewEngine(store records.Store, cache *Cache, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, cache: cache, logger: logger, state: StateIdle}
}

// State returns the dispatcher state after the most recent Generate call.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Last returns the most recently generated report, nil unless Ready.
func (e *Engine) Last() *Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Generate validates the window, loads a full snapshot, and assembles the
// requested report kind. The date range is inclusive on both ends; an end
// before the start fails with ErrInvalidRange.
func (e *Engine) Generate(ctx context.Context, kind Kind, start, end time.Time) (*Report, error) {
	e.setState(StateGenerating, nil)

	period, err := NewPeriod(start, end)
	if err != nil {
		e.setState(StateFailed, nil)
		return nil, err
	}
	if _, err := ParseKind(string(kind)); err != nil {
		e.setState(StateFailed, nil)
		return nil, err
	}

	loader := func(ctx context.Context) (interface{}, error) {
		return e.build(ctx, kind, period)
	}

	var report *Report
	if e.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			e.setState(StateFailed, nil)
			return nil, err
		}
		report = value.(*Report)
	} else {
		key, err := e.cache.BuildKey(ctx, keyReport(kind, period))
		if err != nil {
			e.setState(StateFailed, nil)
			return nil, err
		}
		report = &Report{}
		if err := e.cache.FetchJSON(ctx, key, report, loader); err != nil {
			e.setState(StateFailed, nil)
			return nil, err
		}
	}

	e.setState(StateReady, report)
	return report, nil
}

func (e *Engine) build(ctx context.Context, kind Kind, period Period) (*Report, error) {
	started := time.Now()
	snap, err := LoadSnapshot(ctx, e.store)
	if err != nil {
		return nil, fmt.Errorf("reports: load records: %w", err)
	}
	d := BuildDataset(snap, period)

	report := &Report{Kind: kind, Period: period, Days: period.Days()}
	switch kind {
	case KindSales:
		report.Sales = buildSalesAnalysis(d)
	case KindProfitAndLoss:
		report.ProfitAndLoss = buildProfitAndLoss(d)
	case KindReturns:
		report.Returns = buildReturnsAnalysis(d)
	case KindWarehouseOverview:
		report.Warehouses = buildWarehouseOverview(d)
	case KindCredits:
		credits := BuildCreditAging(d)
		report.Credits = &credits
	case KindAdvanced:
		report.Advanced = buildAdvanced(d)
	default:
		return nil, fmt.Errorf("reports: unknown report kind %q", kind)
	}

	e.logger.Debug("report assembled",
		slog.String("kind", string(kind)),
		slog.Int("days", period.Days()),
		slog.Int("sales", len(d.Sales)),
		slog.Duration("elapsed", time.Since(started)))
	return report, nil
}

func (e *Engine) setState(state State, report *Report) {
	e.mu.Lock()
	e.state = state
	e.last = report
	e.mu.Unlock()
}
