package session

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/mflix/pkg/docstore"
)

var (
	// ErrSessionNotFound indicates no session exists for the user.
	ErrSessionNotFound = fmt.Errorf("session.not_found: %w", docstore.ErrEntityNotFound)

	// ErrInvalidSession indicates an empty user id or token.
	ErrInvalidSession = errors.New("session.invalid")
)
