package docstore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Store is the minimal document database surface the data-access layer depends on.
//
// Filters, documents and updates are any value the BSON encoder accepts
// (bson.D, bson.M, tagged structs, types implementing bson.Marshaler).
// FindOne returns ErrNoDocument when nothing matches; unique index
// violations surface as ErrDuplicateKey. Every other error is returned
// as produced by the underlying database.
type Store interface {
	FindOne(ctx context.Context, collection string, filter any, opts FindOptions) (bson.Raw, error)
	InsertOne(ctx context.Context, collection string, document any) (InsertResult, error)
	UpdateOne(ctx context.Context, collection string, filter, update any, opts UpdateOptions) (UpdateResult, error)
	DeleteOne(ctx context.Context, collection string, filter any) (DeleteResult, error)
}

// IndexManager is implemented by stores that can create indexes.
type IndexManager interface {
	EnsureIndexes(ctx context.Context, indexes ...Index) error
}

// Index describes a single-field ascending index.
type Index struct {
	Collection string
	Field      string
	Unique     bool
}

// FindOptions configures a single FindOne call.
// The zero value returns whole documents.
type FindOptions struct {
	// Projection lists the top-level fields to return. _id is always included.
	Projection []string
}

// UpdateOptions configures a single UpdateOne call.
type UpdateOptions struct {
	// Upsert inserts a new document built from the filter and the update
	// when no document matches.
	Upsert bool
}

// InsertResult reports the outcome of InsertOne.
type InsertResult struct {
	InsertedID any
}

// UpdateResult reports the outcome of UpdateOne.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	UpsertedCount int64
	UpsertedID    any
}

// Created reports whether the update inserted a new document.
func (r UpdateResult) Created() bool {
	return r.UpsertedCount > 0
}

// DeleteResult reports the outcome of DeleteOne.
type DeleteResult struct {
	DeletedCount int64
}
