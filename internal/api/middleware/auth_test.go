package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrackhq/tasktrack-api/internal/api/middleware"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/mocks"
	"github.com/tasktrackhq/tasktrack-api/internal/service/auth"
)

const testSecret = "test-secret-key-thats-at-least-32-chars"

type authFixture struct {
	jwtService auth.JWTService
	userStore  *mocks.MockUserStore
	handler    http.Handler
	user       *domain.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	f := &authFixture{
		jwtService: auth.NewTestJWTService(testSecret, time.Hour, nil),
		userStore:  mocks.NewMockUserStore(),
	}

	user, err := domain.NewUser("ada@example.com", "Ada", "", `Str0ng!Pass`)
	require.NoError(t, err)
	user.HashedPassword = "irrelevant-hash"
	require.NoError(t, f.userStore.Create(context.Background(), user))
	f.user = user

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r)
		require.True(t, ok)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(userID.String()))
	})
	f.handler = middleware.NewAuthMiddleware(f.jwtService, f.userStore).Authenticate(next)
	return f
}

func (f *authFixture) request(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestAuthMiddlewareAllowsValidToken(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	token, err := f.jwtService.GenerateToken(context.Background(), f.user.ID)
	require.NoError(t, err)

	rec := f.request(t, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, f.user.ID.String(), rec.Body.String())
}

func TestAuthMiddlewareUniformRejection(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	refreshToken, err := f.jwtService.GenerateRefreshToken(ctx, f.user.ID)
	require.NoError(t, err)

	unknownUserToken, err := f.jwtService.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	expiredService := auth.NewTestJWTService(testSecret, time.Hour, func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	})
	expiredToken, err := expiredService.GenerateToken(ctx, f.user.ID)
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
	}{
		{name: "missing header", authorization: ""},
		{name: "malformed header", authorization: "Token abc"},
		{name: "empty bearer value", authorization: "Bearer "},
		{name: "garbage token", authorization: "Bearer not.a.jwt"},
		{name: "expired token", authorization: "Bearer " + expiredToken},
		{name: "refresh token on an access route", authorization: "Bearer " + refreshToken},
		{name: "token for an unknown user", authorization: "Bearer " + unknownUserToken},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := f.request(t, tt.authorization)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			// Every failure mode shares one body: callers cannot probe
			// which check failed.
			assert.Equal(t, middleware.UnauthorizedMessage, errorMessage(t, rec))
		})
	}
}
