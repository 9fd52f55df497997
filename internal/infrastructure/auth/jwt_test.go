package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerdesk/backend/internal/infrastructure/config"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{Secret: "test-secret", Issuer: "sellerdesk"})
}

func signToken(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims(tenantID uuid.UUID) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "sellerdesk",
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TenantID: tenantID.String(),
		UserID:   uuid.NewString(),
	}
}

func TestJWTService_ValidateToken(t *testing.T) {
	svc := newTestService()
	tenantID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, "test-secret", validClaims(tenantID))

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, tenantID.String(), claims.TenantID)

		parsed, err := claims.TenantIDUUID()
		require.NoError(t, err)
		assert.Equal(t, tenantID, parsed)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", validClaims(tenantID))
		_, err := svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims(tenantID)
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		token := signToken(t, "test-secret", claims)

		_, err := svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := validClaims(tenantID)
		claims.Issuer = "someone-else"
		token := signToken(t, "test-secret", claims)

		_, err := svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing tenant claim", func(t *testing.T) {
		claims := validClaims(tenantID)
		claims.TenantID = ""
		token := signToken(t, "test-secret", claims)

		_, err := svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrMissingTenantID)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
