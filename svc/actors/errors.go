package actors

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/mflix/pkg/docstore"
)

var (
	ErrActorNotFound      = fmt.Errorf("actor.not_found: %w", docstore.ErrEntityNotFound)
	ErrActorAlreadyExists = fmt.Errorf("actor.already_exists: %w", docstore.ErrDuplicateEntity)
	ErrNilActor           = errors.New("actor.nil")
)
