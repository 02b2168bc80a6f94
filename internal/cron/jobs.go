package cron

import (
	"context"
	"log/slog"
)

// StatsSource is the subset of the stream runner needed by StatsJob.
type StatsSource interface {
	Stats() Stats
}

// Stats is a point-in-time view of stream counters.
type Stats struct {
	Processed int64
	Failed    int64
	Inflated  int64
	Directory int
}

// StatsJob logs stream counters and the delta since its previous run.
type StatsJob struct {
	Source       StatsSource
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "@every 1m"

	last Stats
}

// Compile-time interface check.
var _ Job = (*StatsJob)(nil)

// Name implements Job.
func (j *StatsJob) Name() string { return "stats" }

// Schedule implements Job.
func (j *StatsJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "@every 1m"
}

// Run logs the current counters.
func (j *StatsJob) Run(_ context.Context) error {
	logger := j.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cur := j.Source.Stats()
	logger.Info("stream stats",
		"processed", cur.Processed,
		"processed_delta", cur.Processed-j.last.Processed,
		"failed", cur.Failed,
		"failed_delta", cur.Failed-j.last.Failed,
		"inflated", cur.Inflated,
		"directory", cur.Directory,
	)
	j.last = cur
	return nil
}
