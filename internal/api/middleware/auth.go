package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/api/shared"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
	"github.com/tasktrackhq/tasktrack-api/internal/service/auth"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// UnauthorizedMessage is the single message returned for every
// authentication failure: missing or malformed header, bad signature,
// expiry, wrong token kind, missing subject, or a subject that no longer
// resolves to a user. Callers must not be able to tell which check failed.
const UnauthorizedMessage = "Invalid or expired token"

// AuthMiddleware resolves the caller's identity from a bearer access token.
// The token is verified, its subject extracted, and the corresponding user
// loaded; only then is the request considered authenticated.
type AuthMiddleware struct {
	jwtService auth.JWTService
	userStore  store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, userStore store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userStore:  userStore,
	}
}

// Authenticate validates the access token from the Authorization header,
// resolves the user it names, and adds the user ID to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		token, ok := BearerToken(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, UnauthorizedMessage)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			log.Debug("access token rejected", "error", err)
			shared.RespondWithError(w, r, http.StatusUnauthorized, UnauthorizedMessage)
			return
		}

		if claims.UserID == uuid.Nil {
			log.Debug("access token missing subject")
			shared.RespondWithError(w, r, http.StatusUnauthorized, UnauthorizedMessage)
			return
		}

		user, err := m.userStore.GetByID(r.Context(), claims.UserID)
		if err != nil {
			// Not-found and store failures alike stay behind the uniform
			// message; only the log distinguishes them.
			log.Debug("could not resolve token subject",
				"error", err,
				"user_id", claims.UserID)
			shared.RespondWithError(w, r, http.StatusUnauthorized, UnauthorizedMessage)
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken extracts the credential from an "Authorization: Bearer"
// header. It reports false for a missing or malformed header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetUserID extracts the authenticated user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok
}
