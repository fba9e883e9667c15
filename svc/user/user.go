package user

import (
	"context"

	"github.com/dmitrymomot/mflix/pkg/docstore"
)

// Collection is the name of the users collection.
const Collection = "users"

// Document field names.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldPreferences = "preferences"
)

// Indexes lists the indexes the store relies on. Email uniqueness is
// enforced only by this index.
var Indexes = []docstore.Index{
	{Collection: Collection, Field: FieldEmail, Unique: true},
}

// User is an account identified by its email.
//
// Preferences read back from the store hold nested documents as bson.M and
// arrays as bson.A; scalars keep their BSON types (int32, int64, float64,
// string, bool).
type User struct {
	Name           string         `bson:"name"`
	Email          string         `bson:"email"`
	HashedPassword string         `bson:"password"`
	Preferences    map[string]any `bson:"preferences,omitempty"`
}

// SessionRemover deletes the sessions of a user. The session store implements it.
type SessionRemover interface {
	DeleteSessions(ctx context.Context, userID string) (bool, error)
}
