package session_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/mflix/pkg/docstore"
)

// MockDocStore is a mock implementation of docstore.Store.
type MockDocStore struct {
	mock.Mock
}

func (m *MockDocStore) FindOne(ctx context.Context, collection string, filter any, opts docstore.FindOptions) (bson.Raw, error) {
	args := m.Called(ctx, collection, filter, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(bson.Raw), args.Error(1)
}

func (m *MockDocStore) InsertOne(ctx context.Context, collection string, document any) (docstore.InsertResult, error) {
	args := m.Called(ctx, collection, document)
	return args.Get(0).(docstore.InsertResult), args.Error(1)
}

func (m *MockDocStore) UpdateOne(ctx context.Context, collection string, filter, update any, opts docstore.UpdateOptions) (docstore.UpdateResult, error) {
	args := m.Called(ctx, collection, filter, update, opts)
	return args.Get(0).(docstore.UpdateResult), args.Error(1)
}

func (m *MockDocStore) DeleteOne(ctx context.Context, collection string, filter any) (docstore.DeleteResult, error) {
	args := m.Called(ctx, collection, filter)
	return args.Get(0).(docstore.DeleteResult), args.Error(1)
}
