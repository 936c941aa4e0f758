// Package jobs defines the background task catalog and the Asynq worker.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup pre-generates reports so dashboard loads hit cache.
	TaskReportWarmup = "reports:warmup"
)

// ReportWarmupPayload scopes a warmup run. Days selects the trailing
// window length ending today; zero means the current calendar month.
type ReportWarmupPayload struct {
	Days  int      `json:"days,omitempty"`
	Kinds []string `json:"kinds,omitempty"`
}

// NewReportWarmupTask constructs an Asynq task.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}
