package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrackhq/tasktrack-api/internal/api"
	"github.com/tasktrackhq/tasktrack-api/internal/api/shared"
	"github.com/tasktrackhq/tasktrack-api/internal/mocks"
	"github.com/tasktrackhq/tasktrack-api/internal/service"
)

// newTaskRouter builds a router with the task routes mounted and every
// request attributed to userID, bypassing token validation.
func newTaskRouter(t *testing.T, userID uuid.UUID) chi.Router {
	t.Helper()

	taskService := service.NewTestTaskService(
		mocks.NewMockTaskStore(),
		mocks.NewMockCategoryStore(),
		nil,
	)
	handler := api.NewTaskHandler(taskService)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/tasks", handler.Create)
	r.Get("/tasks", handler.List)
	r.Get("/tasks/{id}", handler.Get)
	r.Put("/tasks/{id}", handler.Update)
	r.Delete("/tasks/{id}", handler.Delete)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func createTask(t *testing.T, r http.Handler, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/tasks", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody(t, rec)
}

func TestTaskHandlerCreate(t *testing.T) {
	t.Parallel()

	r := newTaskRouter(t, uuid.New())

	t.Run("defaults to the personal category", func(t *testing.T) {
		t.Parallel()

		created := createTask(t, r, map[string]interface{}{"title": "Buy milk"})
		assert.Equal(t, "personal", created["category_name"])
		assert.Equal(t, "pending", created["status"])
		assert.Equal(t, "medium", created["priority"])
	})

	t.Run("missing title is a validation error", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, r, http.MethodPost, "/tasks", map[string]interface{}{"title": ""})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "title", decodeBody(t, rec)["field"])
	})

	t.Run("unknown priority is a validation error", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, r, http.MethodPost, "/tasks", map[string]interface{}{
			"title":    "Buy milk",
			"priority": "urgent",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestTaskHandlerListQueryParamWhitelist(t *testing.T) {
	t.Parallel()

	r := newTaskRouter(t, uuid.New())

	t.Run("allowed parameters pass", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, r, http.MethodGet,
			"/tasks?status=pending&priority=high&due_from=2025-06-01&due_to=2025-06-30", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown parameter is rejected by name", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, r, http.MethodGet, "/tasks?bogus=1", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["error"], "bogus")
	})

	t.Run("all unknown parameters are named", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, r, http.MethodGet, "/tasks?bogus=1&status=pending&wat=2", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		message, ok := decodeBody(t, rec)["error"].(string)
		require.True(t, ok)
		assert.Contains(t, message, "bogus")
		assert.Contains(t, message, "wat")
		assert.NotContains(t, message, "status")
	})

	t.Run("invalid status value is a validation error", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, r, http.MethodGet, "/tasks?status=done", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("invalid due bound is a validation error", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, r, http.MethodGet, "/tasks?due_from=tomorrow", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestTaskHandlerGetUpdateDelete(t *testing.T) {
	t.Parallel()

	r := newTaskRouter(t, uuid.New())
	created := createTask(t, r, map[string]interface{}{
		"title":         "File taxes",
		"category_name": "Finance",
	})
	taskID, ok := created["id"].(string)
	require.True(t, ok)

	t.Run("get returns the task", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/tasks/"+taskID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "File taxes", body["title"])
		assert.Equal(t, "finance", body["category_name"])
	})

	t.Run("get with unknown id is not found", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/tasks/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("get with malformed id is a bad request", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/tasks/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update completes the task and stamps completed_at", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPut, "/tasks/"+taskID, map[string]interface{}{
			"status": "completed",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "completed", body["status"])
		assert.NotEmpty(t, body["completed_at"])
	})

	t.Run("update with unknown status is a validation error", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPut, "/tasks/"+taskID, map[string]interface{}{
			"status": "done",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("update with empty priority is a validation error", func(t *testing.T) {
		// The empty string only means "default to medium" at create time.
		rec := doJSON(t, r, http.MethodPut, "/tasks/"+taskID, map[string]interface{}{
			"priority": "",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("delete removes the task", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodDelete, "/tasks/"+taskID, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, strings.TrimSpace(rec.Body.String()))

		rec = doJSON(t, r, http.MethodDelete, "/tasks/"+taskID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
