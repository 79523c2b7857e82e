package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store_rating/internal/api/dto"
	"store_rating/internal/policy"
)

func TestUserService_CreateAnyRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, role := range policy.Roles {
		info, err := env.users.CreateUser(ctx, &dto.CreateUserRequest{
			Name:     "Made by admin",
			Email:    string(role) + "@example.com",
			Password: goodPassword,
			Role:     string(role),
		})
		require.NoError(t, err)
		assert.Equal(t, string(role), info.Role)
	}

	_, err := env.users.CreateUser(ctx, &dto.CreateUserRequest{Name: "x", Email: "bad@example.com", Password: goodPassword, Role: "superuser"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = env.users.CreateUser(ctx, &dto.CreateUserRequest{Name: "dup", Email: "ADMIN@example.com", Password: goodPassword, Role: "user"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserService_UpdateAndReset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice", policy.RoleUser)

	info, err := env.users.UpdateUser(ctx, alice.UserID, &dto.UpdateUserRequest{Role: string(policy.RoleStoreOwner)})
	require.NoError(t, err)
	assert.Equal(t, string(policy.RoleStoreOwner), info.Role)
	assert.Equal(t, "alice", info.Name, "empty name leaves it unchanged")

	_, err = env.users.UpdateUser(ctx, alice.UserID, &dto.UpdateUserRequest{Role: "root"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.users.UpdateUser(ctx, 999, &dto.UpdateUserRequest{Name: "ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, env.users.ResetPassword(ctx, alice.UserID, goodPassword))
	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: goodPassword})
	assert.NoError(t, err)

	assert.ErrorIs(t, env.users.ResetPassword(ctx, 999, goodPassword), ErrNotFound)
}

func TestUserService_ListAndDetail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice", policy.RoleUser)
	bob := env.user(t, "bob", policy.RoleUser)
	owner := env.user(t, "owner", policy.RoleStoreOwner)
	s1 := env.store(t, "one", &owner)
	s2 := env.store(t, "two", &owner)

	for _, r := range []struct {
		p       policy.Principal
		storeID int64
		score   int
	}{
		{alice, s1, 5}, {bob, s1, 3}, {alice, s2, 1},
	} {
		_, err := env.ratings.SubmitRating(ctx, r.p, &dto.SubmitRatingRequest{StoreID: r.storeID, Score: r.score})
		require.NoError(t, err)
	}

	list, err := env.users.ListUsers(ctx, &dto.UserListRequest{Role: "user", SortBy: "name", SortOrder: "desc", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), list.Total)
	assert.Equal(t, "bob", list.List[0].Name)

	detail, err := env.users.GetUser(ctx, owner.UserID)
	require.NoError(t, err)
	require.NotNil(t, detail.StoreAverage)
	assert.InDelta(t, 3.0, *detail.StoreAverage, 1e-9) // (5+3+1)/3
	assert.Len(t, detail.Stores, 2)

	plain, err := env.users.GetUser(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Nil(t, plain.StoreAverage)

	_, err = env.users.GetUser(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
