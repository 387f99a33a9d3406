package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// MockCategoryStore implements store.CategoryStore for testing.
type MockCategoryStore struct {
	// Function fields for customizable behavior
	CreateFn    func(ctx context.Context, category *domain.Category) error
	GetByIDFn   func(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	GetByNameFn func(ctx context.Context, name string) (*domain.Category, error)
	ListFn      func(ctx context.Context) ([]*domain.Category, error)

	// Data for default implementation, keyed by normalized name
	mu         sync.Mutex
	Categories map[string]*domain.Category
}

// NewMockCategoryStore creates a new mock store with initialized defaults.
func NewMockCategoryStore() *MockCategoryStore {
	return &MockCategoryStore{
		Categories: make(map[string]*domain.Category),
	}
}

// Create implements the CategoryStore interface. Like the real store it
// enforces uniqueness on the normalized name.
func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := domain.NormalizeCategoryName(category.Name)
	if _, exists := m.Categories[key]; exists {
		return store.ErrCategoryExists
	}
	m.Categories[key] = category
	return nil
}

// GetByID implements the CategoryStore interface.
func (m *MockCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, category := range m.Categories {
		if category.ID == id {
			return category, nil
		}
	}
	return nil, store.ErrCategoryNotFound
}

// GetByName implements the CategoryStore interface.
func (m *MockCategoryStore) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	category, exists := m.Categories[domain.NormalizeCategoryName(name)]
	if !exists {
		return nil, store.ErrCategoryNotFound
	}
	return category, nil
}

// List implements the CategoryStore interface, ordered by name.
func (m *MockCategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Category, 0, len(m.Categories))
	for _, category := range m.Categories {
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// WithTx implements the CategoryStore interface; the mock has no
// transaction state, so it returns itself.
func (m *MockCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return m
}
