package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/mflix/pkg/docstore"
)

// Store implements docstore.Store on top of a MongoDB database.
type Store struct {
	db *mongo.Database
}

var (
	_ docstore.Store        = (*Store)(nil)
	_ docstore.IndexManager = (*Store)(nil)
)

// NewStore wraps db. The caller owns the client and is responsible for disconnecting it.
func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Database returns the wrapped database.
func (s *Store) Database() *mongo.Database {
	return s.db
}

func (s *Store) FindOne(ctx context.Context, collection string, filter any, opts docstore.FindOptions) (bson.Raw, error) {
	findOpts := options.FindOne()
	if len(opts.Projection) > 0 {
		findOpts.SetProjection(projection(opts.Projection))
	}

	raw, err := s.db.Collection(collection).FindOne(ctx, orEmpty(filter), findOpts).Raw()
	if err != nil {
		return nil, mapError(err)
	}
	return raw, nil
}

func (s *Store) InsertOne(ctx context.Context, collection string, document any) (docstore.InsertResult, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, document)
	if err != nil {
		return docstore.InsertResult{}, mapError(err)
	}
	return docstore.InsertResult{InsertedID: res.InsertedID}, nil
}

func (s *Store) UpdateOne(ctx context.Context, collection string, filter, update any, opts docstore.UpdateOptions) (docstore.UpdateResult, error) {
	res, err := s.db.Collection(collection).UpdateOne(ctx, orEmpty(filter), update,
		options.UpdateOne().SetUpsert(opts.Upsert))
	if err != nil {
		return docstore.UpdateResult{}, mapError(err)
	}
	return docstore.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (s *Store) DeleteOne(ctx context.Context, collection string, filter any) (docstore.DeleteResult, error) {
	res, err := s.db.Collection(collection).DeleteOne(ctx, orEmpty(filter))
	if err != nil {
		return docstore.DeleteResult{}, mapError(err)
	}
	return docstore.DeleteResult{DeletedCount: res.DeletedCount}, nil
}

// CountDocuments returns how many documents in collection match filter.
func (s *Store) CountDocuments(ctx context.Context, collection string, filter any) (int64, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, orEmpty(filter))
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// EnsureIndexes creates single-field ascending indexes. Creating an index
// that already exists with the same definition is a no-op on the server.
func (s *Store) EnsureIndexes(ctx context.Context, indexes ...docstore.Index) error {
	byCollection := make(map[string][]mongo.IndexModel)
	var order []string
	for _, idx := range indexes {
		if idx.Collection == "" || idx.Field == "" {
			return docstore.ErrInvalidIndex
		}
		if _, seen := byCollection[idx.Collection]; !seen {
			order = append(order, idx.Collection)
		}
		byCollection[idx.Collection] = append(byCollection[idx.Collection], mongo.IndexModel{
			Keys:    bson.D{{Key: idx.Field, Value: 1}},
			Options: options.Index().SetUnique(idx.Unique),
		})
	}

	for _, name := range order {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, byCollection[name]); err != nil {
			return mapError(err)
		}
	}
	return nil
}

// mapError translates driver errors into docstore sentinels.
// Anything else is returned untouched.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return docstore.ErrNoDocument
	case mongo.IsDuplicateKeyError(err):
		return errors.Join(docstore.ErrDuplicateKey, err)
	default:
		return err
	}
}

func projection(fields []string) bson.D {
	p := make(bson.D, 0, len(fields))
	for _, f := range fields {
		p = append(p, bson.E{Key: f, Value: 1})
	}
	return p
}

func orEmpty(filter any) any {
	if filter == nil {
		return bson.D{}
	}
	return filter
}
