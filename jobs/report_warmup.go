package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/greenmart/greenmart/internal/jobs"
	"github.com/greenmart/greenmart/internal/reports"
)

// ReportWarmupJob pre-populates the report cache for the windows the
// dashboard requests most: the current month and the trailing week.
type ReportWarmupJob struct {
	Engine  *reports.Engine
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(engine *reports.Engine, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportWarmupJob {
	return &ReportWarmupJob{
		Engine:  engine,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Engine == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskReportWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	start, end := j.window(payload)
	kinds := reports.Kinds()
	if len(payload.Kinds) > 0 {
		kinds = kinds[:0]
		for _, raw := range payload.Kinds {
			kind, err := reports.ParseKind(raw)
			if err != nil {
				j.logger().Warn("skipping unknown report kind", slog.String("kind", raw))
				continue
			}
			kinds = append(kinds, kind)
		}
	}

	for _, kind := range kinds {
		if _, err := j.Engine.Generate(ctx, kind, start, end); err != nil {
			j.logger().Error("report warmup failed",
				slog.String("kind", string(kind)),
				slog.Any("error", err))
			resultErr = err
			return resultErr
		}
	}
	j.logger().Info("report cache warmed",
		slog.Int("kinds", len(kinds)),
		slog.Time("start", start),
		slog.Time("end", end))
	return nil
}

func (j *ReportWarmupJob) window(payload ReportWarmupPayload) (time.Time, time.Time) {
	now := j.clock()
	if payload.Days > 0 {
		return now.AddDate(0, 0, -(payload.Days - 1)), now
	}
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), now
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *ReportWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}
