package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"store_rating/internal/metrics"
	"store_rating/internal/model"
	"store_rating/internal/policy"
)

// ==================== JWT config ====================

// JWTConfig token settings.
type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
}

// DefaultJWTConfig is only meant for tests; main always installs the loaded config.
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey:       "store-rating-secret-key-change-in-production",
		AccessTokenTTL:  2 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "store-rating",
	}
}

var jwtConfig = DefaultJWTConfig()

// SetJWTConfig installs the process-wide token settings.
func SetJWTConfig(cfg *JWTConfig) {
	jwtConfig = cfg
}

// GetJWTConfig returns the process-wide token settings.
func GetJWTConfig() *JWTConfig {
	return jwtConfig
}

// ==================== Claims ====================

const (
	subjectAccess  = "access"
	subjectRefresh = "refresh"
)

// UserClaims carries the caller identity inside a token.
type UserClaims struct {
	UserID int64       `json:"user_id"`
	Email  string      `json:"email"`
	Role   policy.Role `json:"role"`
	jwt.RegisteredClaims
}

// IsRefresh reports whether the token was issued as a refresh token.
func (c *UserClaims) IsRefresh() bool {
	return c.Subject == subjectRefresh
}

// Principal converts the claims to the explicit caller passed to services.
func (c *UserClaims) Principal() policy.Principal {
	return policy.Principal{UserID: c.UserID, Role: c.Role}
}

// ==================== Token generation ====================

func generateToken(subject string, ttl time.Duration, userID int64, email string, role policy.Role) (string, error) {
	now := time.Now()
	claims := &UserClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtConfig.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.SecretKey))
}

// GenerateTokenPair issues an access token and a refresh token.
func GenerateTokenPair(userID int64, email string, role policy.Role) (accessToken, refreshToken string, err error) {
	accessToken, err = generateToken(subjectAccess, jwtConfig.AccessTokenTTL, userID, email, role)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = generateToken(subjectRefresh, jwtConfig.RefreshTokenTTL, userID, email, role)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ==================== Token parsing ====================

// ParseToken validates signature, issuer and expiry.
func ParseToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(jwtConfig.SecretKey), nil
	}, jwt.WithIssuer(jwtConfig.Issuer))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ==================== Gin middleware ====================

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"
	ContextKeyClaims = "claims"
)

func abortJSON(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code":    status,
		"message": message,
	})
}

// JWTAuth requires a valid access token in "Authorization: Bearer <token>".
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortJSON(c, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortJSON(c, http.StatusUnauthorized, "authorization header must be: Bearer {token}")
			return
		}

		claims, err := ParseToken(parts[1])
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "token is invalid or expired")
			return
		}

		if claims.Subject != subjectAccess {
			abortJSON(c, http.StatusUnauthorized, "wrong token type")
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, claims.Role)
		c.Set(ContextKeyClaims, claims)

		c.Next()
	}
}

// UserLookup loads an account by id; (nil, nil) when it does not exist.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// CurrentRole replaces the role carried by the token with the account's stored
// role, so role changes apply before the token expires. Runs after JWTAuth.
func CurrentRole(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetUserClaims(c)
		if claims == nil {
			abortJSON(c, http.StatusUnauthorized, "not authenticated")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			_ = c.Error(err)
			abortJSON(c, http.StatusInternalServerError, "internal server error")
			return
		}
		if user == nil {
			abortJSON(c, http.StatusUnauthorized, "account no longer exists")
			return
		}

		if user.Role != claims.Role {
			current := *claims
			current.Role = user.Role
			c.Set(ContextKeyRole, current.Role)
			c.Set(ContextKeyClaims, &current)
		}
		c.Next()
	}
}

// RequireAction consults the authorization policy for a coarse action.
// Own-scoped checks that need the resource owner happen in the services.
func RequireAction(action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetUserClaims(c)
		if claims == nil {
			abortJSON(c, http.StatusUnauthorized, "not authenticated")
			return
		}

		if !policy.Authorize(claims.Role, action) {
			metrics.PolicyDenials.WithLabelValues(string(claims.Role), string(action)).Inc()
			abortJSON(c, http.StatusForbidden, "not authorized for this action")
			return
		}

		c.Next()
	}
}

// ==================== helpers ====================

// GetUserID returns the authenticated user id, 0 when anonymous.
func GetUserID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyUserID); exists {
		return id.(int64)
	}
	return 0
}

// GetUserClaims returns the parsed claims, nil when anonymous.
func GetUserClaims(c *gin.Context) *UserClaims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		return claims.(*UserClaims)
	}
	return nil
}

// GetPrincipal returns the caller as a policy.Principal. Anonymous callers get
// the zero Principal, which every policy check denies.
func GetPrincipal(c *gin.Context) policy.Principal {
	if claims := GetUserClaims(c); claims != nil {
		return claims.Principal()
	}
	return policy.Principal{}
}
