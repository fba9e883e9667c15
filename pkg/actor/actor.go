package actor

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Document field names.
const (
	FieldID          = "_id"
	FieldName        = "name"
	FieldDateOfBirth = "date_of_birth"
	FieldAwards      = "awards"
	FieldNumMovies   = "num_movies"
)

// Actor is a cast member as stored in the actors collection.
//
// Optional fields use nil to mean "absent". An empty, non-nil Awards slice
// is present and is persisted as an empty array. A NumMovies pointing at 0
// is persisted as 0. DateOfBirth is stored as a BSON datetime and reads
// back in UTC with millisecond precision (see NormalizeTime).
type Actor struct {
	ID          bson.ObjectID
	Name        string
	DateOfBirth *time.Time
	Awards      []any
	NumMovies   *int
}

// HasID reports whether a carries an identifier.
func HasID(a *Actor) bool {
	return a != nil && !a.ID.IsZero()
}

// GenerateIDIfAbsent assigns a new ObjectID to a unless it already has one,
// and returns a. Calling it again is a no-op.
func GenerateIDIfAbsent(a *Actor) *Actor {
	if a != nil && !HasID(a) {
		a.ID = bson.NewObjectID()
	}
	return a
}

// ID returns the identifier of a. It fails with ErrMissingID when the
// actor has none; that is a programming error, not a condition to retry.
func ID(a *Actor) (bson.ObjectID, error) {
	if !HasID(a) {
		return bson.ObjectID{}, ErrMissingID
	}
	return a.ID, nil
}
