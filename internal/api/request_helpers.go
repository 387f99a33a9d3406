package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/api/middleware"
	"github.com/tasktrackhq/tasktrack-api/internal/api/shared"
)

// DecodeJSON decodes the request body into dst. On failure it writes a
// 400 response and reports false; the caller should return immediately.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// requireUserID extracts the authenticated user ID placed in the context by
// the auth middleware. A missing ID means the route was wired without the
// middleware; respond 401 and report false.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, middleware.UnauthorizedMessage)
		return uuid.Nil, false
	}
	return userID, true
}

// pathUUID parses the named chi URL parameter as a UUID. On failure it
// writes a 400 response and reports false.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps a service-layer error onto a status code and a
// sanitized body, attaching the offending field for validation failures.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if field := validationField(err); field != "" {
		shared.RespondWithFieldErrorAndLog(w, r, status, message, field, err)
		return
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
