package user

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/mflix/pkg/docstore"
)

var (
	// ErrUserAlreadyExists is returned by AddUser when the email is taken.
	ErrUserAlreadyExists = fmt.Errorf("user.already_exists: %w", docstore.ErrDuplicateEntity)

	// ErrUserNotFound is returned when no user has the requested email.
	ErrUserNotFound = fmt.Errorf("user.not_found: %w", docstore.ErrEntityNotFound)

	// ErrInvalidEmail indicates an empty email.
	ErrInvalidEmail = errors.New("user.invalid_email")

	// ErrNilPreferences indicates a nil preferences map was passed for update.
	ErrNilPreferences = errors.New("user.nil_preferences")

	// ErrInvalidRegistration indicates Register input failed validation.
	ErrInvalidRegistration = errors.New("user.invalid_registration")

	// ErrPasswordRequired indicates an empty password was passed for hashing.
	ErrPasswordRequired = errors.New("user.password_required")
)
