package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// TaskCreateInput carries validated task-creation fields. An empty
// CategoryName resolves to the default category.
type TaskCreateInput struct {
	Title        string
	Description  string
	Priority     domain.TaskPriority
	DueDate      *time.Time
	CategoryName string
}

// TaskUpdateInput carries a partial update. Nil fields are not applied.
// CategoryName distinguishes "field omitted" (nil, no change) from "field
// present and empty" (pointer to empty string, resolves to the default
// category).
type TaskUpdateInput struct {
	Title        *string
	Description  *string
	Status       *domain.TaskStatus
	Priority     *domain.TaskPriority
	DueDate      *time.Time
	CategoryName *string
}

// TaskView pairs a task with its resolved category name for responses.
type TaskView struct {
	Task         *domain.Task
	CategoryName string
}

// TaskService provides ownership-scoped task operations. Category
// resolution during create/update runs in the same transaction as the task
// write.
type TaskService struct {
	db         *sql.DB
	tasks      store.TaskStore
	categories store.CategoryStore
	logger     *slog.Logger
	now        func() time.Time // Injectable for testing
}

// NewTaskService creates a TaskService. db may be nil only in tests backed
// by non-transactional fakes; in that case operations run without a
// transaction boundary.
func NewTaskService(
	db *sql.DB,
	tasks store.TaskStore,
	categories store.CategoryStore,
	log *slog.Logger,
) (*TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if categories == nil {
		return nil, domain.NewValidationError("categories", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &TaskService{
		db:         db,
		tasks:      tasks,
		categories: categories,
		logger:     log.With(slog.String("component", "task_service")),
		now:        time.Now,
	}, nil
}

// Create makes a new task for the owner. The category is resolved by name
// with get-or-create semantics; an absent name resolves to the default
// category. Both the resolution and the insert commit atomically.
func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, in TaskCreateInput) (*TaskView, error) {
	task, err := domain.NewTask(ownerID, in.Title, in.Description, in.Priority, in.DueDate)
	if err != nil {
		return nil, err
	}

	categoryName := in.CategoryName
	if domain.NormalizeCategoryName(categoryName) == "" {
		categoryName = domain.DefaultCategoryName
	}

	var view *TaskView
	err = s.inTransaction(ctx, func(ctx context.Context, tasks store.TaskStore, categories store.CategoryStore) error {
		category, err := GetOrCreateCategory(ctx, categories, categoryName)
		if err != nil {
			return err
		}
		task.CategoryID = &category.ID

		if err := tasks.Create(ctx, task); err != nil {
			return err
		}
		view = &TaskView{Task: task, CategoryName: category.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", ownerID.String()))
	return view, nil
}

// Get retrieves an owned task with its category name.
// Returns store.ErrTaskNotFound when the task is absent or owned by
// another user.
func (s *TaskService) Get(ctx context.Context, id, ownerID uuid.UUID) (*TaskView, error) {
	task, err := s.tasks.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, task)
}

// List returns the owner's tasks matching the filter, newest first, with
// category names resolved.
func (s *TaskService) List(ctx context.Context, ownerID uuid.UUID, filter store.TaskFilter) ([]*TaskView, error) {
	tasks, err := s.tasks.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	names, err := categoryNamesByID(ctx, s.categories)
	if err != nil {
		return nil, err
	}

	views := make([]*TaskView, 0, len(tasks))
	for _, task := range tasks {
		view := &TaskView{Task: task}
		if task.CategoryID != nil {
			view.CategoryName = names[task.CategoryID.String()]
		}
		views = append(views, view)
	}
	return views, nil
}

// Update applies the supplied fields to an owned task. Status transitions
// into completed set the completion time only when it is not already set;
// transitions to any other status clear it unconditionally. A supplied
// category name (including the empty string, which resolves to the default
// category) replaces the category reference via get-or-create.
func (s *TaskService) Update(ctx context.Context, id, ownerID uuid.UUID, in TaskUpdateInput) (*TaskView, error) {
	if in.Title != nil {
		if err := domain.ValidateTaskTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, domain.NewValidationError("status", domain.ErrInvalidTaskStatus.Error(), domain.ErrInvalidTaskStatus)
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return nil, domain.NewValidationError("priority", domain.ErrInvalidTaskPriority.Error(), domain.ErrInvalidTaskPriority)
	}

	var view *TaskView
	err := s.inTransaction(ctx, func(ctx context.Context, tasks store.TaskStore, categories store.CategoryStore) error {
		task, err := tasks.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}

		categoryName := ""
		if in.Title != nil {
			task.Title = *in.Title
		}
		if in.Description != nil {
			task.Description = *in.Description
		}
		if in.Priority != nil {
			task.Priority = *in.Priority
		}
		if in.DueDate != nil {
			task.DueDate = in.DueDate
		}
		if in.Status != nil {
			s.applyStatus(task, *in.Status)
		}
		if in.CategoryName != nil {
			name := *in.CategoryName
			if domain.NormalizeCategoryName(name) == "" {
				name = domain.DefaultCategoryName
			}
			category, err := GetOrCreateCategory(ctx, categories, name)
			if err != nil {
				return err
			}
			task.CategoryID = &category.ID
			categoryName = category.Name
		}

		task.UpdatedAt = s.now().UTC()
		if err := tasks.Update(ctx, task); err != nil {
			return err
		}

		if categoryName == "" && task.CategoryID != nil {
			category, err := categories.GetByID(ctx, *task.CategoryID)
			if err != nil && !errors.Is(err, store.ErrCategoryNotFound) {
				return err
			}
			if category != nil {
				categoryName = category.Name
			}
		}
		view = &TaskView{Task: task, CategoryName: categoryName}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task updated",
		slog.String("task_id", id.String()),
		slog.String("user_id", ownerID.String()))
	return view, nil
}

// Delete removes an owned task. It reports whether a task was removed;
// false means not found or not owned, which callers surface as 404.
func (s *TaskService) Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	deleted, err := s.tasks.Delete(ctx, id, ownerID)
	if err != nil {
		return false, err
	}
	if deleted {
		logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
			slog.String("task_id", id.String()),
			slog.String("user_id", ownerID.String()))
	}
	return deleted, nil
}

// applyStatus sets the status and maintains the completion-timestamp
// coupling: entering completed stamps the time once, leaving completed
// clears it.
func (s *TaskService) applyStatus(task *domain.Task, status domain.TaskStatus) {
	if status == domain.StatusCompleted {
		if task.CompletedAt == nil {
			completedAt := s.now().UTC()
			task.CompletedAt = &completedAt
		}
	} else {
		task.CompletedAt = nil
	}
	task.Status = status
}

// enrich attaches the category name to a single task.
func (s *TaskService) enrich(ctx context.Context, task *domain.Task) (*TaskView, error) {
	view := &TaskView{Task: task}
	if task.CategoryID == nil {
		return view, nil
	}
	category, err := s.categories.GetByID(ctx, *task.CategoryID)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return view, nil
		}
		return nil, err
	}
	view.CategoryName = category.Name
	return view, nil
}

// inTransaction runs fn with transaction-scoped stores. Without a database
// handle (fake-backed tests) fn runs over the base stores directly.
func (s *TaskService) inTransaction(
	ctx context.Context,
	fn func(ctx context.Context, tasks store.TaskStore, categories store.CategoryStore) error,
) error {
	if s.db == nil {
		return fn(ctx, s.tasks, s.categories)
	}
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.tasks.WithTx(tx), s.categories.WithTx(tx))
	})
}
