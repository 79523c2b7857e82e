package task

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ==================== TaskManager ====================

// TaskManager owns the cron scheduler and the background jobs registered on it.
type TaskManager struct {
	cron    *cron.Cron
	log     *zap.Logger
	entries map[string]cron.EntryID

	statsTask *StatsSnapshotTask
}

// TaskManagerDeps dependencies of the jobs.
type TaskManagerDeps struct {
	Stats StatsSource
}

// TaskManagerConfig cron specs. An empty spec leaves the job out.
type TaskManagerConfig struct {
	StatsCron string
}

// NewTaskManager registers the enabled jobs. It fails on an unparsable spec.
func NewTaskManager(deps *TaskManagerDeps, cfg TaskManagerConfig, log *zap.Logger) (*TaskManager, error) {
	tm := &TaskManager{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		log:     log,
		entries: make(map[string]cron.EntryID),
	}

	if cfg.StatsCron != "" && deps.Stats != nil {
		tm.statsTask = NewStatsSnapshotTask(deps.Stats, log.Named("stats_snapshot"))
		id, err := tm.cron.AddJob(cfg.StatsCron, tm.statsTask)
		if err != nil {
			return nil, fmt.Errorf("schedule stats snapshot %q: %w", cfg.StatsCron, err)
		}
		tm.entries["stats_snapshot"] = id
	}

	return tm, nil
}

// ==================== Lifecycle ====================

// Start runs every job once in the background, then starts the scheduler.
func (tm *TaskManager) Start() {
	if tm.statsTask != nil {
		go tm.statsTask.Run()
	}
	tm.cron.Start()
	tm.log.Info("background tasks started", zap.Int("jobs", len(tm.entries)))
}

// Stop halts the scheduler and waits for running jobs until ctx expires.
func (tm *TaskManager) Stop(ctx context.Context) error {
	done := tm.cron.Stop()
	select {
	case <-done.Done():
		tm.log.Info("background tasks stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status reports which jobs are scheduled.
func (tm *TaskManager) Status() map[string]bool {
	_, stats := tm.entries["stats_snapshot"]
	return map[string]bool{
		"stats_snapshot": stats,
	}
}
