package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tasktrackhq/tasktrack-api/internal/api/middleware"
	"github.com/tasktrackhq/tasktrack-api/internal/api/shared"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
	"github.com/tasktrackhq/tasktrack-api/internal/service/auth"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// invalidCredentialsMessage is returned for both unknown-email and
// wrong-password login failures so callers cannot probe which emails exist.
const invalidCredentialsMessage = "Invalid email or password"

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore      store.UserStore
	jwtService     auth.JWTService
	passwordHasher auth.PasswordManager
	validator      *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordHasher auth.PasswordManager,
) *AuthHandler {
	return &AuthHandler{
		userStore:      userStore,
		jwtService:     jwtService,
		passwordHasher: passwordHasher,
		validator:      validator.New(),
	}
}

// Register handles POST /auth/register. A successful registration returns
// the created account without its credential hash.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req RegisterRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if !h.validateRequest(w, r, req) {
		return
	}

	user, err := domain.NewUser(req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	// The unique index on email still catches a concurrent registration
	// between this read and the insert.
	if _, err := h.userStore.GetByEmail(r.Context(), req.Email); err == nil {
		shared.RespondWithError(w, r, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(err, store.ErrUserNotFound) {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create user", err)
		return
	}

	hashed, err := h.passwordHasher.Hash(req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create user", err)
		return
	}
	user.HashedPassword = hashed

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already registered")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create user", err)
		return
	}

	log.Info("user registered", "user_id", user.ID)
	shared.RespondWithJSON(w, r, http.StatusCreated, NewUserResponse(user))
}

// Login handles POST /auth/login. Valid credentials yield an access and
// refresh token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if !h.validateRequest(w, r, req) {
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, invalidCredentialsMessage)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to authenticate user", err)
		return
	}

	if err := h.passwordHasher.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, invalidCredentialsMessage)
		return
	}

	h.respondWithTokenPair(w, r, user.ID, http.StatusOK)
}

// Refresh handles POST /auth/refresh. The refresh token is presented as a
// bearer credential; a valid one yields a brand-new token pair. Every
// failure mode returns the same 401 body.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	token, ok := middleware.BearerToken(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, middleware.UnauthorizedMessage)
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), token)
	if err != nil {
		log.Debug("refresh token rejected", "error", err)
		shared.RespondWithError(w, r, http.StatusUnauthorized, middleware.UnauthorizedMessage)
		return
	}
	if claims.UserID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, middleware.UnauthorizedMessage)
		return
	}

	// The account may have been deleted since the token was minted.
	if _, err := h.userStore.GetByID(r.Context(), claims.UserID); err != nil {
		log.Debug("refresh token subject not found", "error", err, "user_id", claims.UserID)
		shared.RespondWithError(w, r, http.StatusUnauthorized, middleware.UnauthorizedMessage)
		return
	}

	h.respondWithTokenPair(w, r, claims.UserID, http.StatusOK)
}

func (h *AuthHandler) respondWithTokenPair(
	w http.ResponseWriter,
	r *http.Request,
	userID uuid.UUID,
	status int,
) {
	accessToken, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, status, NewTokenResponse(accessToken, refreshToken))
}

// validateRequest runs struct-tag validation and, on failure, writes a 422
// response naming the first offending field.
func (h *AuthHandler) validateRequest(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	err := h.validator.Struct(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := jsonFieldName(fe.Field())
		shared.RespondWithFieldError(w, r, http.StatusUnprocessableEntity,
			validationMessage(field, fe.Tag()), field)
		return false
	}

	shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Validation error")
	return false
}

// jsonFieldName converts a Go struct field name to its snake_case JSON name.
func jsonFieldName(field string) string {
	var b strings.Builder
	for i, rn := range field {
		if rn >= 'A' && rn <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(rn + ('a' - 'A'))
			continue
		}
		b.WriteRune(rn)
	}
	return b.String()
}

func validationMessage(field, tag string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " is too short"
	case "max":
		return field + " is too long"
	default:
		return field + " is invalid"
	}
}
