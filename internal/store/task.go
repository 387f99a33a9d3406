package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
)

// TaskFilter narrows a task listing. Nil fields are not applied; set fields
// combine with logical AND. The due-date bounds are inclusive.
type TaskFilter struct {
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	CategoryID  *uuid.UUID
	DueDateFrom *time.Time
	DueDateTo   *time.Time
}

// TaskStore defines the interface for task data persistence. Every read and
// write is scoped by the owning user's ID; a task belonging to another user
// is reported as not found, never as forbidden.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID, scoped to the given owner.
	// Returns ErrTaskNotFound if the task does not exist or is not owned
	// by ownerID.
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// List returns the owner's tasks matching the filter, ordered by
	// creation time descending.
	List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// Update persists the full state of an owned task.
	// Returns ErrTaskNotFound if the task does not exist or is not owned
	// by task.UserID.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task scoped to the given owner. It reports whether a
	// row was removed; false is not an error condition.
	Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) TaskStore
}
