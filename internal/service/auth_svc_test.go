package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store_rating/internal/api/dto"
	"store_rating/internal/middleware"
	"store_rating/internal/policy"
)

const goodPassword = "Secret#123"

func register(t *testing.T, env *testEnv, name, email string) *dto.UserInfo {
	t.Helper()
	info, err := env.auth.Register(context.Background(), &dto.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: goodPassword,
		Address:  "somewhere",
	})
	require.NoError(t, err)
	return info
}

func TestAuthService_RegisterForcesUserRole(t *testing.T) {
	env := newTestEnv(t)
	info := register(t, env, "Alice Person", "  Alice@Example.com ")

	assert.Equal(t, string(policy.RoleUser), info.Role)
	assert.Equal(t, "alice@example.com", info.Email)

	stored, err := env.userRepo.GetByID(context.Background(), info.ID)
	require.NoError(t, err)
	assert.NotEqual(t, goodPassword, stored.Password, "password must be hashed")
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "Alice Person", "alice@example.com")

	_, err := env.auth.Register(context.Background(), &dto.RegisterRequest{
		Name: "Other", Email: "ALICE@example.com", Password: goodPassword,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthService_LoginAndRefresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	register(t, env, "Alice Person", "alice@example.com")

	_, err := env.auth.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: goodPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := env.auth.Login(ctx, &dto.LoginRequest{Email: "Alice@Example.com", Password: goodPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := middleware.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, policy.RoleUser, claims.Role)

	_, err = env.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: resp.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken, "access token is not a refresh token")

	refreshed, err := env.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestAuthService_ProfileAndPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	info := register(t, env, "Alice Person", "alice@example.com")
	me := policy.Principal{UserID: info.ID, Role: policy.RoleUser}

	updated, err := env.auth.UpdateProfile(ctx, me, &dto.UpdateProfileRequest{Name: "Alice Renamed", Address: "elsewhere"})
	require.NoError(t, err)
	assert.Equal(t, "Alice Renamed", updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email)

	err = env.auth.ChangePassword(ctx, me, &dto.ChangePasswordRequest{OldPassword: "nope", NewPassword: "Another#456"})
	assert.ErrorIs(t, err, ErrValidation)

	err = env.auth.ChangePassword(ctx, me, &dto.ChangePasswordRequest{OldPassword: goodPassword, NewPassword: "Another#456"})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: goodPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "Another#456"})
	assert.NoError(t, err)

	profile, err := env.auth.GetProfile(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", profile.Address)

	_, err = env.auth.GetProfile(ctx, policy.Principal{UserID: 404, Role: policy.RoleUser})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.auth.EnsureAdmin(ctx, "System Admin", "Admin@Store.local", goodPassword)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = env.auth.EnsureAdmin(ctx, "System Admin", "admin@store.local", goodPassword)
	require.NoError(t, err)
	assert.False(t, created, "second call is a no-op")

	admin, err := env.userRepo.GetByEmail(ctx, "admin@store.local")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, policy.RoleAdmin, admin.Role)

	created, err = env.auth.EnsureAdmin(ctx, "x", "", "")
	assert.NoError(t, err)
	assert.False(t, created)
}
