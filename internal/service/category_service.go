// Package service orchestrates stores into the task and category operations
// exposed by the API.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// CategoryService provides category operations. Categories are global:
// every user sees and shares the same set.
type CategoryService struct {
	categories store.CategoryStore
	logger     *slog.Logger
}

// NewCategoryService creates a CategoryService.
// It returns an error if the category store is nil.
func NewCategoryService(categories store.CategoryStore, log *slog.Logger) (*CategoryService, error) {
	if categories == nil {
		return nil, domain.NewValidationError("categories", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}
	return &CategoryService{
		categories: categories,
		logger:     log.With(slog.String("component", "category_service")),
	}, nil
}

// Create creates a new category from caller-supplied input. Unlike
// GetOrCreate, an existing category with the same normalized name is a
// conflict, surfaced as store.ErrCategoryExists.
func (s *CategoryService) Create(ctx context.Context, name, color string) (*domain.Category, error) {
	category, err := domain.NewCategory(name, color)
	if err != nil {
		return nil, err
	}

	// Check-then-insert keeps the common duplicate case cheap; the unique
	// constraint backstops the race.
	if _, err := s.categories.GetByName(ctx, category.Name); err == nil {
		return nil, fmt.Errorf("%w: %q", store.ErrCategoryExists, category.Name)
	} else if !errors.Is(err, store.ErrCategoryNotFound) {
		return nil, err
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

// GetOrCreate resolves a category by name, creating it when absent. The
// result is idempotent across calls and whitespace/case variants of the
// same name.
func (s *CategoryService) GetOrCreate(ctx context.Context, name string) (*domain.Category, error) {
	return GetOrCreateCategory(ctx, s.categories, name)
}

// GetOrCreateCategory implements the idempotent get-or-create contract over
// any CategoryStore, including transaction-scoped ones. When two concurrent
// callers race on the same new name, the store's unique constraint rejects
// the losing insert; the loser then re-reads the winner's row instead of
// surfacing a conflict.
func GetOrCreateCategory(ctx context.Context, categories store.CategoryStore, name string) (*domain.Category, error) {
	log := logger.FromContext(ctx)

	normalized := domain.NormalizeCategoryName(name)
	if err := domain.ValidateCategoryName(normalized); err != nil {
		return nil, err
	}

	category, err := categories.GetByName(ctx, normalized)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, store.ErrCategoryNotFound) {
		return nil, err
	}

	category, err = domain.NewCategory(normalized, "")
	if err != nil {
		return nil, err
	}

	createErr := categories.Create(ctx, category)
	if createErr == nil {
		return category, nil
	}
	if !store.IsDuplicateError(createErr) {
		return nil, createErr
	}

	// Lost the insert race; the row now exists.
	log.Debug("category insert lost race, re-reading",
		slog.String("category_name", normalized))
	category, err = categories.GetByName(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("category %q conflicted on insert but could not be re-read: %w", normalized, err)
	}
	return category, nil
}

// categoryNamesByID returns a name lookup for response enrichment, built
// from a single List call to avoid a per-task query.
func categoryNamesByID(ctx context.Context, categories store.CategoryStore) (map[string]string, error) {
	all, err := categories.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(all))
	for _, c := range all {
		names[c.ID.String()] = c.Name
	}
	return names, nil
}
