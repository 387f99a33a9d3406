package api

import (
	"net/http"

	"github.com/tasktrackhq/tasktrack-api/internal/api/shared"
	"github.com/tasktrackhq/tasktrack-api/internal/service"
)

// CategoryHandler handles category API requests. Categories are shared
// across users, so these routes only require an authenticated caller.
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req CategoryCreateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	category, err := h.categoryService.Create(r.Context(), req.Name, req.Color)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewCategoryResponse(category))
}

// List handles GET /categories, returning all categories ordered by name.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewCategoryListResponse(categories))
}
