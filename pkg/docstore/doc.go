// Package docstore defines the document database surface used by the
// mflix stores, together with an in-memory implementation.
//
// The Store interface mirrors the handful of MongoDB collection calls the
// data-access layer needs: FindOne, InsertOne, UpdateOne and DeleteOne.
// Options are plain values passed per call, so there is no shared mutable
// configuration between requests.
//
// # Usage
//
//	store := docstore.NewMemoryStore(
//		docstore.Index{Collection: "users", Field: "email", Unique: true},
//	)
//
//	_, err := store.UpdateOne(ctx, "sessions",
//		docstore.Eq("user_id", "a@b.com"),
//		docstore.Set(bson.M{"user_id": "a@b.com", "jwt": token}),
//		docstore.Upsert(),
//	)
//
// The MongoDB implementation lives in pkg/mongo.
//
// # Error Handling
//
// Storage errors (ErrNoDocument, ErrDuplicateKey) describe what happened in
// the database. Entity errors (ErrDuplicateEntity, ErrEntityNotFound,
// ErrInvariantViolation) form the taxonomy that domain packages wrap, so
// callers can match on the category with errors.Is.
package docstore
