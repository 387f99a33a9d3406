package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryName is assigned to tasks created without an explicit
// category. The row is shared globally, not per user.
const DefaultCategoryName = "personal"

var (
	ErrCategoryNameTooShort = errors.New("category name must be at least 3 characters long")
	ErrCategoryNameTooLong  = errors.New("category name must be at most 100 characters long")
	ErrInvalidCategoryColor = errors.New("category color must be a 6-digit hex value prefixed with #")
)

var categoryColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Category is a global label tasks can reference. Names are stored lowercase
// and compared case-insensitively; deleting a category detaches its tasks
// rather than deleting them.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeCategoryName applies the canonical form used for both lookups and
// writes: surrounding whitespace trimmed, then lowercased.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateCategoryName checks a normalized category name against the length
// rules. Callers should normalize first.
func ValidateCategoryName(name string) error {
	if len(name) < 3 {
		return NewValidationError("name", ErrCategoryNameTooShort.Error(), ErrCategoryNameTooShort)
	}
	if len(name) > 100 {
		return NewValidationError("name", ErrCategoryNameTooLong.Error(), ErrCategoryNameTooLong)
	}
	return nil
}

// NewCategory creates a Category with the normalized name and, when set, a
// validated color.
func NewCategory(name, color string) (*Category, error) {
	name = NormalizeCategoryName(name)
	if err := ValidateCategoryName(name); err != nil {
		return nil, err
	}
	if color != "" && !categoryColorPattern.MatchString(color) {
		return nil, NewValidationError("color", ErrInvalidCategoryColor.Error(), ErrInvalidCategoryColor)
	}

	return &Category{
		ID:        uuid.New(),
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}, nil
}
