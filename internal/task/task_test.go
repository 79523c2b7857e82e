package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"store_rating/internal/metrics"
	"store_rating/internal/model"
)

type fakeStats struct {
	calls atomic.Int32
	stats model.PlatformStats
	err   error
}

func (f *fakeStats) PlatformStats(ctx context.Context) (*model.PlatformStats, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	s := f.stats
	return &s, nil
}

func TestStatsSnapshotTask_Snapshot(t *testing.T) {
	src := &fakeStats{stats: model.PlatformStats{TotalUsers: 4, TotalStores: 2, TotalRatings: 7}}
	task := NewStatsSnapshotTask(src, zap.NewNop())

	require.NoError(t, task.Snapshot(context.Background()))

	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.PlatformTotals.WithLabelValues("users")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.PlatformTotals.WithLabelValues("stores")))
	assert.Equal(t, 7.0, testutil.ToFloat64(metrics.PlatformTotals.WithLabelValues("ratings")))
}

func TestStatsSnapshotTask_RunCountsResult(t *testing.T) {
	okBefore := testutil.ToFloat64(metrics.TaskRuns.WithLabelValues("stats_snapshot", "ok"))
	errBefore := testutil.ToFloat64(metrics.TaskRuns.WithLabelValues("stats_snapshot", "error"))

	NewStatsSnapshotTask(&fakeStats{}, zap.NewNop()).Run()
	NewStatsSnapshotTask(&fakeStats{err: errors.New("db down")}, zap.NewNop()).Run()

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.TaskRuns.WithLabelValues("stats_snapshot", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(metrics.TaskRuns.WithLabelValues("stats_snapshot", "error")))
}

func TestNewTaskManager(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
		want    bool
	}{
		{"descriptor", "@every 1m", false, true},
		{"six fields", "0 */5 * * * *", false, true},
		{"disabled", "", false, false},
		{"invalid", "every minute", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, err := NewTaskManager(&TaskManagerDeps{Stats: &fakeStats{}}, TaskManagerConfig{StatsCron: tt.spec}, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tm.Status()["stats_snapshot"])
		})
	}
}

func TestTaskManager_StartRunsOnceThenStops(t *testing.T) {
	src := &fakeStats{}
	tm, err := NewTaskManager(&TaskManagerDeps{Stats: src}, TaskManagerConfig{StatsCron: "@every 1h"}, zap.NewNop())
	require.NoError(t, err)

	tm.Start()
	assert.Eventually(t, func() bool { return src.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, tm.Stop(ctx))
}
