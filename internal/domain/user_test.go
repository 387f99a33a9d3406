package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrackhq/tasktrack-api/internal/domain"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{
			name:     "valid password",
			password: `Str0ng!Pass`,
			wantErr:  nil,
		},
		{
			name:     "empty password",
			password: "",
			wantErr:  domain.ErrEmptyPassword,
		},
		{
			name:     "too short",
			password: "Ab1!xyz",
			wantErr:  domain.ErrPasswordTooShort,
		},
		{
			name:     "missing uppercase",
			password: "weakpass1!",
			wantErr:  domain.ErrPasswordNoUpper,
		},
		{
			name:     "missing lowercase",
			password: "WEAKPASS1!",
			wantErr:  domain.ErrPasswordNoLower,
		},
		{
			name:     "missing digit",
			password: "Weakpass!",
			wantErr:  domain.ErrPasswordNoDigit,
		},
		{
			name:     "missing special character",
			password: "Weakpass1",
			wantErr:  domain.ErrPasswordNoSpecial,
		},
		{
			name:     "special character outside accepted set does not count",
			password: "Weakpass1~",
			wantErr:  domain.ErrPasswordNoSpecial,
		},
		{
			name:     "all rules satisfied with different special char",
			password: `Complex#Pass99`,
			wantErr:  nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := domain.ValidatePassword(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, "password", ve.Field)
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	t.Parallel()

	const goodPassword = `Str0ng!Pass`

	tests := []struct {
		name      string
		email     string
		firstName string
		password  string
		wantErr   error
		wantField string
	}{
		{
			name:      "valid input",
			email:     "user@example.com",
			firstName: "Ada",
			password:  goodPassword,
		},
		{
			name:      "empty email",
			email:     "",
			firstName: "Ada",
			password:  goodPassword,
			wantErr:   domain.ErrEmptyEmail,
			wantField: "email",
		},
		{
			name:      "unparseable email",
			email:     "not-an-email",
			firstName: "Ada",
			password:  goodPassword,
			wantErr:   domain.ErrInvalidEmail,
			wantField: "email",
		},
		{
			name:      "empty first name",
			email:     "user@example.com",
			firstName: "   ",
			password:  goodPassword,
			wantErr:   domain.ErrEmptyFirstName,
			wantField: "first_name",
		},
		{
			name:      "first name too short",
			email:     "user@example.com",
			firstName: "Al",
			password:  goodPassword,
			wantErr:   domain.ErrFirstNameTooShort,
			wantField: "first_name",
		},
		{
			name:      "weak password",
			email:     "user@example.com",
			firstName: "Ada",
			password:  "weak",
			wantErr:   domain.ErrPasswordTooShort,
			wantField: "password",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := domain.ValidateRegistration(tt.email, tt.firstName, tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("creates user with trimmed names and fresh identity", func(t *testing.T) {
		t.Parallel()

		user, err := domain.NewUser("user@example.com", "  Ada  ", " Lovelace ", `Str0ng!Pass`)
		require.NoError(t, err)

		assert.NotEqual(t, [16]byte{}, [16]byte(user.ID))
		assert.Equal(t, "user@example.com", user.Email)
		assert.Equal(t, "Ada", user.FirstName)
		assert.Equal(t, "Lovelace", user.LastName)
		assert.Empty(t, user.HashedPassword, "plaintext password must not be stored")
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	t.Run("rejects invalid registration input", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewUser("user@example.com", "Ada", "", "short")
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})
}
