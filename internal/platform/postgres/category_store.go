package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// PostgresCategoryStore implements the store.CategoryStore interface
// using a PostgreSQL database as the storage backend. Category names are
// stored in normalized form; the unique index on name is what makes the
// service-level get-or-create safe under concurrent inserts.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a new PostgreSQL implementation of the
// CategoryStore interface. If logger is nil, a default logger will be used.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

// Ensure PostgresCategoryStore implements store.CategoryStore interface
var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// WithTx implements store.CategoryStore.WithTx
func (s *PostgresCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return &PostgresCategoryStore{db: tx, logger: s.logger}
}

// Create implements store.CategoryStore.Create
// Returns store.ErrCategoryExists if the normalized name is already taken.
// The conflict is detected with ON CONFLICT DO NOTHING rather than by
// letting the unique index raise: a raised 23505 would abort the enclosing
// transaction, and callers inside a task write still need to re-read the
// winning row on the same tx.
func (s *PostgresCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO categories (id, name, color, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.Name,
		nullString(category.Color),
		category.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create category",
			slog.String("error", err.Error()),
			slog.String("category_name", category.Name))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check category insert result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: name %q", store.ErrCategoryExists, category.Name)
	}

	log.Info("category created",
		slog.String("category_id", category.ID.String()),
		slog.String("category_name", category.Name))
	return nil
}

// GetByID implements store.CategoryStore.GetByID
func (s *PostgresCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `
		SELECT id, name, color, created_at
		FROM categories
		WHERE id = $1
	`
	return scanCategory(s.db.QueryRowContext(ctx, query, id))
}

// GetByName implements store.CategoryStore.GetByName
// The name is normalized before matching, so lookups are case-insensitive
// with respect to the caller's input.
func (s *PostgresCategoryStore) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	query := `
		SELECT id, name, color, created_at
		FROM categories
		WHERE lower(name) = $1
	`
	return scanCategory(s.db.QueryRowContext(ctx, query, domain.NormalizeCategoryName(name)))
}

// List implements store.CategoryStore.List
func (s *PostgresCategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, color, created_at
		FROM categories
		ORDER BY name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return categories, nil
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var (
		category domain.Category
		color    sql.NullString
	)
	err := row.Scan(
		&category.ID,
		&category.Name,
		&color,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCategoryNotFound
		}
		return nil, MapError(err)
	}
	category.Color = color.String
	return &category, nil
}
