package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/service"
)

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required,min=3"`
	LastName  string `json:"last_name"`
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries a freshly issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// NewTokenResponse creates a TokenResponse for the given pair. The token
// type is always "bearer".
func NewTokenResponse(accessToken, refreshToken string) TokenResponse {
	return TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}
}

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse converts a domain user into its API representation.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}

// CategoryCreateRequest is the payload for creating a category.
type CategoryCreateRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
}

// CategoryResponse is the public view of a category.
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCategoryResponse converts a domain category into its API representation.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		CreatedAt: category.CreatedAt,
	}
}

// NewCategoryListResponse converts a slice of categories.
func NewCategoryListResponse(categories []*domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, NewCategoryResponse(c))
	}
	return out
}

// TaskCreateRequest is the payload for creating a task. Category is
// referenced by name and resolved (or created) server-side; an omitted or
// empty name falls back to the default category.
type TaskCreateRequest struct {
	Title        string     `json:"title" validate:"required"`
	Description  string     `json:"description"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	CategoryName string     `json:"category_name"`
}

// TaskUpdateRequest is the payload for a partial task update. Pointer
// fields distinguish "absent" from "present but empty": only fields the
// caller supplied are applied.
type TaskUpdateRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	Priority     *string    `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	CategoryName *string    `json:"category_name"`
}

// TaskResponse is the public view of a task, with its category name
// denormalized for callers.
type TaskResponse struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	CategoryName string     `json:"category_name,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewTaskResponse converts a service task view into its API representation.
func NewTaskResponse(view *service.TaskView) TaskResponse {
	task := view.Task
	return TaskResponse{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       string(task.Status),
		Priority:     string(task.Priority),
		DueDate:      task.DueDate,
		CompletedAt:  task.CompletedAt,
		CategoryID:   task.CategoryID,
		CategoryName: view.CategoryName,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

// NewTaskListResponse converts a slice of task views.
func NewTaskListResponse(views []*service.TaskView) []TaskResponse {
	out := make([]TaskResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewTaskResponse(v))
	}
	return out
}
