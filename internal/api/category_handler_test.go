package api_test

import (
	"context"
	"encoding/json"
	"net/http"
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

func newCategoryRouter(t *testing.T) chi.Router {
	t.Helper()

	categoryService, err := service.NewCategoryService(mocks.NewMockCategoryStore(), nil)
	require.NoError(t, err)
	handler := api.NewCategoryHandler(categoryService)

	userID := uuid.New()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/categories", handler.Create)
	r.Get("/categories", handler.List)
	return r
}

func TestCategoryHandlerCreate(t *testing.T) {
	t.Parallel()

	r := newCategoryRouter(t)

	t.Run("creates with normalized name", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/categories", map[string]string{
			"name":  "  Work  ",
			"color": "#336699",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "work", body["name"])
		assert.Equal(t, "#336699", body["color"])
	})

	t.Run("case variant of an existing name is a conflict", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/categories", map[string]string{
			"name": " WORK ",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("short name is a validation error", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/categories", map[string]string{
			"name": "ab",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "name", decodeBody(t, rec)["field"])
	})

	t.Run("bad color is a validation error", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/categories", map[string]string{
			"name":  "errands",
			"color": "blue",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "color", decodeBody(t, rec)["field"])
	})
}

func TestCategoryHandlerList(t *testing.T) {
	t.Parallel()

	r := newCategoryRouter(t)
	for _, name := range []string{"work", "errands"} {
		rec := doJSON(t, r, http.MethodPost, "/categories", map[string]string{"name": name})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, r, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	require.Len(t, categories, 2)
	assert.Equal(t, "errands", categories[0]["name"])
	assert.Equal(t, "work", categories[1]["name"])
}
