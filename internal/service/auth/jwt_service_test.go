package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrackhq/tasktrack-api/internal/config"
	"github.com/tasktrackhq/tasktrack-api/internal/service/auth"
)

const testSecret = "test-secret-key-thats-at-least-32-chars"

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()

		_, err := auth.NewJWTService(config.AuthConfig{
			JWTSecret:                   "too-short",
			TokenLifetimeMinutes:        60,
			RefreshTokenLifetimeMinutes: 120,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("accepts valid config", func(t *testing.T) {
		t.Parallel()

		svc, err := auth.NewJWTService(config.AuthConfig{
			JWTSecret:                   testSecret,
			TokenLifetimeMinutes:        60,
			RefreshTokenLifetimeMinutes: 120,
		})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := auth.NewTestJWTService(testSecret, time.Hour, nil)
	userID := uuid.New()

	token, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := auth.NewTestJWTService(testSecret, time.Hour, nil)
	userID := uuid.New()

	token, err := svc.GenerateRefreshToken(ctx, userID)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestTokenTypeEnforcement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := auth.NewTestJWTService(testSecret, time.Hour, nil)
	userID := uuid.New()

	accessToken, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)
	refreshToken, err := svc.GenerateRefreshToken(ctx, userID)
	require.NoError(t, err)

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		t.Parallel()

		_, err := svc.ValidateToken(ctx, refreshToken)
		assert.ErrorIs(t, err, auth.ErrWrongTokenType)
	})

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		t.Parallel()

		_, err := svc.ValidateRefreshToken(ctx, accessToken)
		assert.ErrorIs(t, err, auth.ErrWrongTokenType)
	})
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	issuedAt := time.Now()
	currentTime := issuedAt
	svc := auth.NewTestJWTService(testSecret, time.Minute, func() time.Time {
		return currentTime
	})

	accessToken, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)
	refreshToken, err := svc.GenerateRefreshToken(ctx, userID)
	require.NoError(t, err)

	// Still valid just before expiry.
	currentTime = issuedAt.Add(59 * time.Second)
	_, err = svc.ValidateToken(ctx, accessToken)
	assert.NoError(t, err)

	// Access token expires after one minute.
	currentTime = issuedAt.Add(61 * time.Second)
	_, err = svc.ValidateToken(ctx, accessToken)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)

	// The refresh token outlives the access token.
	_, err = svc.ValidateRefreshToken(ctx, refreshToken)
	assert.NoError(t, err)

	// And expires at three times the access lifetime.
	currentTime = issuedAt.Add(3*time.Minute + time.Second)
	_, err = svc.ValidateRefreshToken(ctx, refreshToken)
	assert.ErrorIs(t, err, auth.ErrExpiredRefreshToken)
}

func TestTokenSignatureVerification(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	svc := auth.NewTestJWTService(testSecret, time.Hour, nil)
	otherSvc := auth.NewTestJWTService("another-secret-key-of-sufficient-len", time.Hour, nil)

	token, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)

	t.Run("wrong signing key", func(t *testing.T) {
		t.Parallel()

		_, err := otherSvc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()

		_, err := svc.ValidateToken(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage refresh token uses refresh sentinel", func(t *testing.T) {
		t.Parallel()

		_, err := svc.ValidateRefreshToken(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	})

	t.Run("tampered payload", func(t *testing.T) {
		t.Parallel()

		tampered := token[:len(token)-4] + "AAAA"
		_, err := svc.ValidateToken(ctx, tampered)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
