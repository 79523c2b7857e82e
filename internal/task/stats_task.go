package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"store_rating/internal/metrics"
	"store_rating/internal/model"
)

// StatsSource counts the platform entities.
type StatsSource interface {
	PlatformStats(ctx context.Context) (*model.PlatformStats, error)
}

// StatsSnapshotTask publishes the platform totals as gauges. It only reads.
type StatsSnapshotTask struct {
	stats   StatsSource
	log     *zap.Logger
	timeout time.Duration
}

func NewStatsSnapshotTask(stats StatsSource, log *zap.Logger) *StatsSnapshotTask {
	return &StatsSnapshotTask{
		stats:   stats,
		log:     log,
		timeout: 30 * time.Second,
	}
}

// Run implements cron.Job.
func (t *StatsSnapshotTask) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	if err := t.Snapshot(ctx); err != nil {
		metrics.TaskRuns.WithLabelValues("stats_snapshot", "error").Inc()
		t.log.Warn("stats snapshot failed", zap.Error(err))
		return
	}
	metrics.TaskRuns.WithLabelValues("stats_snapshot", "ok").Inc()
}

// Snapshot reads the totals once and updates the gauges.
func (t *StatsSnapshotTask) Snapshot(ctx context.Context) error {
	stats, err := t.stats.PlatformStats(ctx)
	if err != nil {
		return err
	}

	metrics.PlatformTotals.WithLabelValues("users").Set(float64(stats.TotalUsers))
	metrics.PlatformTotals.WithLabelValues("stores").Set(float64(stats.TotalStores))
	metrics.PlatformTotals.WithLabelValues("ratings").Set(float64(stats.TotalRatings))

	t.log.Debug("stats snapshot",
		zap.Int64("users", stats.TotalUsers),
		zap.Int64("stores", stats.TotalStores),
		zap.Int64("ratings", stats.TotalRatings),
	)
	return nil
}
