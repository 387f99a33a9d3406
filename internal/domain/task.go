package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a task. Any status may transition to
// any other; only transitions into and out of StatusCompleted carry the
// completed-at side effect, which is applied by the task service.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// TaskPriority is the urgency level of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

var (
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
	ErrEmptyTaskTitle      = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong    = errors.New("task title must be at most 255 characters long")
)

// ParseTaskStatus converts a string to a TaskStatus, rejecting unknown
// values rather than coercing them.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTaskStatus, s)
}

// ParseTaskPriority converts a string to a TaskPriority. The empty string
// resolves to PriorityMedium, matching the create-time default.
func ParseTaskPriority(s string) (TaskPriority, error) {
	if s == "" {
		return PriorityMedium, nil
	}
	switch TaskPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return TaskPriority(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTaskPriority, s)
}

// Valid reports whether the status is one of the known values.
func (s TaskStatus) Valid() bool {
	_, err := ParseTaskStatus(string(s))
	return err == nil
}

// Valid reports whether the priority is one of the known values.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a unit of work owned by exactly one user. The owner reference is
// an access-control boundary: every read and write is scoped by it.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	UserID      uuid.UUID    `json:"user_id"`
	CategoryID  *uuid.UUID   `json:"category_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates a Task for the given owner with defaults applied: status
// pending, priority medium when unspecified. The category is resolved
// separately by the task service.
func NewTask(userID uuid.UUID, title, description string, priority TaskPriority, dueDate *time.Time) (*Task, error) {
	if err := ValidateTaskTitle(title); err != nil {
		return nil, err
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return nil, NewValidationError("priority", ErrInvalidTaskPriority.Error(), ErrInvalidTaskPriority)
	}
	if userID == uuid.Nil {
		return nil, NewValidationError("user_id", "owner ID cannot be empty", ErrInvalidID)
	}

	now := time.Now().UTC()
	return &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      StatusPending,
		Priority:    priority,
		DueDate:     dueDate,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ValidateTaskTitle checks the 1-255 character title constraint.
func ValidateTaskTitle(title string) error {
	if title == "" {
		return NewValidationError("title", ErrEmptyTaskTitle.Error(), ErrEmptyTaskTitle)
	}
	if len(title) > 255 {
		return NewValidationError("title", ErrTaskTitleTooLong.Error(), ErrTaskTitleTooLong)
	}
	return nil
}

// Validate checks that a task is internally consistent, including the
// coupling between status and completion timestamp.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "task ID cannot be empty", ErrInvalidID)
	}
	if err := ValidateTaskTitle(t.Title); err != nil {
		return err
	}
	if !t.Status.Valid() {
		return NewValidationError("status", ErrInvalidTaskStatus.Error(), ErrInvalidTaskStatus)
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", ErrInvalidTaskPriority.Error(), ErrInvalidTaskPriority)
	}
	if t.UserID == uuid.Nil {
		return NewValidationError("user_id", "owner ID cannot be empty", ErrInvalidID)
	}
	if t.Status == StatusCompleted && t.CompletedAt == nil {
		return NewValidationError("completed_at", "completed task must have a completion time", ErrValidation)
	}
	if t.Status != StatusCompleted && t.CompletedAt != nil {
		return NewValidationError("completed_at", "only completed tasks may have a completion time", ErrValidation)
	}
	return nil
}
