package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store_rating/internal/api/dto"
	"store_rating/internal/policy"
)

func TestStatsService_PlatformStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stats, err := env.stats.PlatformStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalUsers)
	assert.Zero(t, stats.TotalStores)
	assert.Zero(t, stats.TotalRatings)

	alice := env.user(t, "alice", policy.RoleUser)
	bob := env.user(t, "bob", policy.RoleUser)
	env.user(t, "admin", policy.RoleAdmin)
	s1 := env.store(t, "one", nil)
	s2 := env.store(t, "two", nil)

	for _, p := range []policy.Principal{alice, bob} {
		for _, sid := range []int64{s1, s2} {
			_, err := env.ratings.SubmitRating(ctx, p, &dto.SubmitRatingRequest{StoreID: sid, Score: 3})
			require.NoError(t, err)
		}
	}
	// resubmission does not add a row
	_, err = env.ratings.SubmitRating(ctx, alice, &dto.SubmitRatingRequest{StoreID: s1, Score: 1})
	require.NoError(t, err)

	stats, err = env.stats.PlatformStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalStores)
	assert.Equal(t, int64(4), stats.TotalRatings)
}

func TestStatsService_StoreAverage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.stats.StoreAverage(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotFound)

	storeID := env.store(t, "quiet", nil)
	agg, err := env.stats.StoreAverage(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, storeID, agg.StoreID)
	assert.Equal(t, 0.0, agg.Average)
	assert.Equal(t, int64(0), agg.Count)
}

func TestStatsService_UserRatingHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice", policy.RoleUser)
	bob := env.user(t, "bob", policy.RoleUser)
	admin := env.user(t, "admin", policy.RoleAdmin)
	owner := env.user(t, "owner", policy.RoleStoreOwner)
	s1 := env.store(t, "first", nil)
	s2 := env.store(t, "second", nil)

	empty, err := env.stats.UserRatingHistory(ctx, alice, alice.UserID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	t0 := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	submit := func(storeID int64, score int, at time.Time) {
		env.ratings.now = func() time.Time { return at }
		_, err := env.ratings.SubmitRating(ctx, alice, &dto.SubmitRatingRequest{StoreID: storeID, Score: score})
		require.NoError(t, err)
	}
	submit(s1, 2, t0)
	submit(s2, 4, t0.Add(time.Minute))
	submit(s1, 5, t0.Add(2*time.Minute)) // s1 moves back to the top

	history, err := env.stats.UserRatingHistory(ctx, alice, alice.UserID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, s1, history[0].StoreID)
	assert.Equal(t, "first", history[0].StoreName)
	assert.Equal(t, 5, history[0].Score)
	assert.Equal(t, s2, history[1].StoreID)

	// admins may read anyone's history
	history, err = env.stats.UserRatingHistory(ctx, admin, alice.UserID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = env.stats.UserRatingHistory(ctx, bob, alice.UserID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.stats.UserRatingHistory(ctx, owner, owner.UserID)
	assert.ErrorIs(t, err, ErrForbidden)

	// non-admins cannot probe ids: forbidden before not found
	_, err = env.stats.UserRatingHistory(ctx, bob, 9999)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.stats.UserRatingHistory(ctx, admin, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatsService_Summary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice", policy.RoleUser)

	var stores []int64
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		stores = append(stores, env.store(t, name, nil))
	}

	t0 := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, sid := range stores[:6] {
		at := t0.Add(time.Duration(i) * time.Minute)
		env.ratings.now = func() time.Time { return at }
		score := 2
		if i%2 == 0 {
			score = 4
		}
		_, err := env.ratings.SubmitRating(ctx, alice, &dto.SubmitRatingRequest{StoreID: sid, Score: score})
		require.NoError(t, err)
	}

	summary, err := env.stats.Summary(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(6), summary.RatingCount)
	assert.InDelta(t, 3.0, summary.AverageGiven, 1e-9)
	assert.Equal(t, int64(7), summary.TotalStores)
	require.Len(t, summary.Recent, recentRatings)
	assert.Equal(t, stores[5], summary.Recent[0].StoreID)

	owner := env.user(t, "owner", policy.RoleStoreOwner)
	_, err = env.stats.Summary(ctx, owner)
	assert.ErrorIs(t, err, ErrForbidden)
}
