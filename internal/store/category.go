package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
)

// CategoryStore defines the interface for category data persistence.
// Names are held in normalized (trimmed, lowercase) form; implementations
// enforce uniqueness on that form.
type CategoryStore interface {
	// Create saves a new category. Returns ErrCategoryExists if a category
	// with the same normalized name already exists. There is no implicit
	// upsert here; get-or-create semantics live in the category service.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// GetByName retrieves a category by name after normalization.
	// Returns ErrCategoryNotFound if no category matches.
	GetByName(ctx context.Context, name string) (*domain.Category, error)

	// List returns all categories ordered lexicographically by name.
	List(ctx context.Context) ([]*domain.Category, error)

	// WithTx returns a new CategoryStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) CategoryStore
}
