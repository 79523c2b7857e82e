package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store_rating/internal/api/dto"
	"store_rating/internal/model"
	"store_rating/internal/policy"
)

func TestRatingService_RejectsOutOfRangeScore(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", policy.RoleUser)
	storeID := env.store(t, "corner", nil)

	for _, score := range []int{0, -1, 6, 100} {
		_, err := env.ratings.SubmitRating(context.Background(), alice, &dto.SubmitRatingRequest{StoreID: storeID, Score: score})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("score %d: err = %v, want ErrValidation", score, err)
		}
	}
	assert.Equal(t, int64(0), env.ratingCount(t))
}

func TestRatingService_ResubmitOverwrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice", policy.RoleUser)
	storeID := env.store(t, "corner", nil)

	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	env.ratings.now = func() time.Time { return t0 }

	first, err := env.ratings.SubmitRating(ctx, alice, &dto.SubmitRatingRequest{StoreID: storeID, Score: 3})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "corner", first.StoreName)
	assert.Equal(t, alice.UserID, first.UserID)

	env.ratings.now = func() time.Time { return t0.Add(time.Hour) }
	second, err := env.ratings.SubmitRating(ctx, alice, &dto.SubmitRatingRequest{StoreID: storeID, Score: 5})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Score)
	assert.True(t, second.CreatedAt.Equal(t0), "created_at preserved, got %v", second.CreatedAt)
	assert.True(t, second.UpdatedAt.Equal(t0.Add(time.Hour)), "updated_at moved, got %v", second.UpdatedAt)

	assert.Equal(t, int64(1), env.ratingCount(t))

	agg, err := env.stats.StoreAverage(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, agg.Average)
	assert.Equal(t, int64(1), agg.Count)
}

func TestRatingService_Policy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice", policy.RoleUser)
	bob := env.user(t, "bob", policy.RoleUser)
	owner := env.user(t, "owner", policy.RoleStoreOwner)
	admin := env.user(t, "admin", policy.RoleAdmin)
	storeID := env.store(t, "corner", &owner)

	tests := []struct {
		name   string
		caller policy.Principal
		userID *int64
	}{
		{"store owner rates own store", owner, nil},
		{"admin rates", admin, nil},
		{"admin rates on behalf of user", admin, &alice.UserID},
		{"user rates as somebody else", bob, &alice.UserID},
		{"anonymous", policy.Principal{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.ratings.SubmitRating(ctx, tt.caller, &dto.SubmitRatingRequest{UserID: tt.userID, StoreID: storeID, Score: 4})
			if !errors.Is(err, ErrForbidden) {
				t.Errorf("err = %v, want ErrForbidden", err)
			}
		})
	}
	assert.Equal(t, int64(0), env.ratingCount(t))

	// explicit user_id equal to the caller is fine
	_, err := env.ratings.SubmitRating(ctx, alice, &dto.SubmitRatingRequest{UserID: &alice.UserID, StoreID: storeID, Score: 4})
	assert.NoError(t, err)
}

func TestRatingService_StoredRoleWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice", policy.RoleUser)
	storeID := env.store(t, "corner", nil)

	owner := string(policy.RoleStoreOwner)
	_, err := env.users.UpdateUser(ctx, alice.UserID, &dto.UpdateUserRequest{Role: owner})
	require.NoError(t, err)

	// alice still presents a principal issued while she was a user
	_, err = env.ratings.SubmitRating(ctx, alice, &dto.SubmitRatingRequest{StoreID: storeID, Score: 4})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, int64(0), env.ratingCount(t))
}

func TestRatingService_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice", policy.RoleUser)

	_, err := env.ratings.SubmitRating(ctx, alice, &dto.SubmitRatingRequest{StoreID: 404, Score: 4})
	assert.ErrorIs(t, err, ErrStoreNotFound)

	ghost := policy.Principal{UserID: 999, Role: policy.RoleUser}
	storeID := env.store(t, "corner", nil)
	_, err = env.ratings.SubmitRating(ctx, ghost, &dto.SubmitRatingRequest{StoreID: storeID, Score: 4})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRatingService_AverageAcrossUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	storeID := env.store(t, "corner", nil)

	for i, score := range []int{4, 5, 3} {
		p := env.user(t, string(rune('a'+i))+"user", policy.RoleUser)
		_, err := env.ratings.SubmitRating(ctx, p, &dto.SubmitRatingRequest{StoreID: storeID, Score: score})
		require.NoError(t, err)
	}

	agg, err := env.stats.StoreAverage(ctx, storeID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, agg.Average, 1e-9)
	assert.Equal(t, int64(3), agg.Count)
}

func TestRatingService_ConcurrentSubmissionsKeepOneRow(t *testing.T) {
	env := newTestEnvOn(t, setupConcurrentTestDB(t))
	ctx := context.Background()
	alice := env.user(t, "alice", policy.RoleUser)
	storeID := env.store(t, "corner", nil)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			<-start
			_, err := env.ratings.SubmitRating(ctx, alice, &dto.SubmitRatingRequest{StoreID: storeID, Score: score})
			errs <- err
		}(i%model.MaxScore + 1)
	}
	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil && !errors.Is(err, ErrConflict) {
			t.Errorf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, int64(1), env.ratingCount(t))
	stored, err := env.ratingRepo.GetByUserAndStore(ctx, alice.UserID, storeID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, model.ValidScore(stored.Score))
}
