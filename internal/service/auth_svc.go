package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"store_rating/internal/api/dto"
	"store_rating/internal/middleware"
	"store_rating/internal/model"
	"store_rating/internal/policy"
	"store_rating/internal/repository"
)

// passwordCost is lowered by tests.
var passwordCost = bcrypt.DefaultCost

func hashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func checkPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// ==================== AuthService ====================

// AuthService handles sign-up, login, tokens and self-service profile changes.
type AuthService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, log *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, log: log}
}

// Register creates a "user" account. The caller cannot pick a role.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserInfo, error) {
	email := normalizeEmail(req.Email)

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     req.Name,
		Email:    email,
		Password: hashed,
		Address:  req.Address,
		Role:     policy.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", user.ID))
	return ToUserInfo(user), nil
}

// Login verifies the credentials and issues a token pair.
// Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !checkPassword(user.Password, req.Password) {
		s.log.Warn("login failed", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := middleware.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(middleware.GetJWTConfig().AccessTokenTTL),
		User:         ToUserInfo(user),
	}, nil
}

// RefreshToken exchanges a refresh token for a new pair. The role is re-read
// from storage so a role change takes effect on the next refresh.
func (s *AuthService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	claims, err := middleware.ParseToken(req.RefreshToken)
	if err != nil || !claims.IsRefresh() {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	access, refresh, err := middleware.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshTokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(middleware.GetJWTConfig().AccessTokenTTL),
	}, nil
}

// ==================== profile ====================

func (s *AuthService) GetProfile(ctx context.Context, p policy.Principal) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return ToUserInfo(user), nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, p policy.Principal, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	if !policy.AuthorizeOwned(p, policy.ActionUpdateOwnProfile, &p.UserID) {
		return nil, ErrNotAllowed
	}

	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.Name = req.Name
	user.Address = req.Address
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserInfo(user), nil
}

func (s *AuthService) ChangePassword(ctx context.Context, p policy.Principal, req *dto.ChangePasswordRequest) error {
	if !policy.AuthorizeOwned(p, policy.ActionUpdateOwnProfile, &p.UserID) {
		return ErrNotAllowed
	}

	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !checkPassword(user.Password, req.OldPassword) {
		return ErrInvalidOldPassword
	}

	hashed, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, hashed)
}

// ==================== bootstrap ====================

// EnsureAdmin creates the configured admin account unless the email is taken.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil || exists {
		return false, err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return false, err
	}

	admin := &model.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     policy.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}

	s.log.Info("admin account seeded", zap.Int64("user_id", admin.ID), zap.String("email", email))
	return true, nil
}
