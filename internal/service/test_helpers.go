package service

import (
	"log/slog"
	"time"

	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// NewTestTaskService creates a TaskService backed by the given stores with
// an injectable clock and no transaction boundary, for tests running
// against in-memory fakes. A nil now falls back to time.Now.
func NewTestTaskService(
	tasks store.TaskStore,
	categories store.CategoryStore,
	now func() time.Time,
) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{
		tasks:      tasks,
		categories: categories,
		logger:     slog.Default(),
		now:        now,
	}
}
