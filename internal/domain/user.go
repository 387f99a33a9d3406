package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Password policy violations. Each maps to a field-level validation message
// so registration failures tell the caller exactly what is missing.
var (
	ErrEmptyEmail         = errors.New("email cannot be empty")
	ErrEmptyFirstName     = errors.New("first name cannot be empty")
	ErrFirstNameTooShort  = errors.New("first name must be at least 3 characters long")
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNoUpper    = errors.New("password must contain at least one uppercase letter")
	ErrPasswordNoLower    = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoDigit    = errors.New("password must contain at least one digit")
	ErrPasswordNoSpecial  = errors.New("password must contain at least one special character")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// passwordSpecialChars is the fixed punctuation set accepted by the password
// policy. Characters outside this set do not count as special.
const passwordSpecialChars = `!@#$%^&*(),.?":{}|<>`

// User represents a registered account. A user owns zero or more tasks;
// deleting a user cascades to its tasks at the storage layer.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name,omitempty"`
	HashedPassword string    `json:"-"` // never serialized
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a User with a fresh ID and timestamps after validating the
// registration input. The caller is responsible for hashing the password and
// setting HashedPassword before the user is stored.
func NewUser(email, firstName, lastName, password string) (*User, error) {
	if err := ValidateRegistration(email, firstName, password); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateRegistration checks registration input against the account rules:
// a parseable email address, a first name of at least 3 characters, and a
// password satisfying ValidatePassword.
func ValidateRegistration(email, firstName, password string) error {
	if email == "" {
		return NewValidationError("email", ErrEmptyEmail.Error(), ErrEmptyEmail)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return NewValidationError("email", ErrInvalidEmail.Error(), ErrInvalidEmail)
	}

	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return NewValidationError("first_name", ErrEmptyFirstName.Error(), ErrEmptyFirstName)
	}
	if len(firstName) < 3 {
		return NewValidationError("first_name", ErrFirstNameTooShort.Error(), ErrFirstNameTooShort)
	}

	return ValidatePassword(password)
}

// ValidatePassword enforces the password policy: at least 8 characters with
// at least one uppercase letter, one lowercase letter, one digit, and one
// special character from the accepted punctuation set. The first unmet rule
// is reported.
func ValidatePassword(password string) error {
	if password == "" {
		return NewValidationError("password", ErrEmptyPassword.Error(), ErrEmptyPassword)
	}
	if len(password) < 8 {
		return NewValidationError("password", ErrPasswordTooShort.Error(), ErrPasswordTooShort)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
		if strings.ContainsRune(passwordSpecialChars, r) {
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return NewValidationError("password", ErrPasswordNoUpper.Error(), ErrPasswordNoUpper)
	case !hasLower:
		return NewValidationError("password", ErrPasswordNoLower.Error(), ErrPasswordNoLower)
	case !hasDigit:
		return NewValidationError("password", ErrPasswordNoDigit.Error(), ErrPasswordNoDigit)
	case !hasSpecial:
		return NewValidationError("password", ErrPasswordNoSpecial.Error(), ErrPasswordNoSpecial)
	}

	return nil
}

// Validate checks that a stored user is internally consistent.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "user ID cannot be empty", ErrInvalidID)
	}
	if u.Email == "" {
		return NewValidationError("email", ErrEmptyEmail.Error(), ErrEmptyEmail)
	}
	if u.HashedPassword == "" {
		return NewValidationError("password", ErrEmptyHashedPassword.Error(), ErrEmptyHashedPassword)
	}
	return nil
}
