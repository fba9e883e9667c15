package actor

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/mflix/pkg/docstore"
)

var (
	// ErrMissingID is returned by ID for an actor that was never assigned an identifier.
	ErrMissingID = fmt.Errorf("actor.missing_id: %w", docstore.ErrInvariantViolation)

	// ErrInvalidDocument indicates a stored field has an unexpected type.
	ErrInvalidDocument = errors.New("actor.invalid_document")
)
