package docstore

import "errors"

// Storage-level errors returned by Store implementations.
var (
	// ErrNoDocument indicates that no document matched the filter.
	ErrNoDocument = errors.New("docstore.no_document")

	// ErrDuplicateKey indicates a write violated a unique index.
	ErrDuplicateKey = errors.New("docstore.duplicate_key")

	// ErrInvalidDocument indicates a value could not be converted to a BSON document.
	ErrInvalidDocument = errors.New("docstore.invalid_document")

	// ErrUnsupportedQuery indicates a filter uses operators the store does not understand.
	ErrUnsupportedQuery = errors.New("docstore.unsupported_query")

	// ErrUnsupportedUpdate indicates an update uses operators the store does not understand.
	ErrUnsupportedUpdate = errors.New("docstore.unsupported_update")

	// ErrInvalidIndex indicates an index definition is missing its collection or field.
	ErrInvalidIndex = errors.New("docstore.invalid_index")
)

// Entity-level errors shared by the stores built on top of Store.
// Domain packages wrap these so callers can match either the specific
// sentinel or the category with errors.Is.
var (
	// ErrDuplicateEntity is returned when creating an entity whose unique key is taken.
	ErrDuplicateEntity = errors.New("entity.duplicate")

	// ErrEntityNotFound is returned when an operation requires an entity that does not exist.
	ErrEntityNotFound = errors.New("entity.not_found")

	// ErrInvariantViolation signals a programming error, such as reading the
	// identifier of an entity that was never assigned one. Never retry it.
	ErrInvariantViolation = errors.New("entity.invariant_violation")
)
