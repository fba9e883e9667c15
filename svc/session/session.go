package session

import "github.com/dmitrymomot/mflix/pkg/docstore"

// Collection is the name of the sessions collection.
const Collection = "sessions"

// Document field names.
const (
	FieldUserID = "user_id"
	FieldJWT    = "jwt"
)

// Indexes lists the indexes the store relies on. The unique index on
// user_id prevents concurrent logins from leaving two documents for one user.
var Indexes = []docstore.Index{
	{Collection: Collection, Field: FieldUserID, Unique: true},
}

// Session binds a user to the token issued at login.
type Session struct {
	UserID string `bson:"user_id"`
	JWT    string `bson:"jwt"`
}
