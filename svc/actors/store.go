package actors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/mflix/pkg/actor"
	"github.com/dmitrymomot/mflix/pkg/docstore"
	"github.com/dmitrymomot/mflix/pkg/logger"
)

// Collection is the name of the actors collection.
const Collection = "actors"

// Store persists actors through the actor codec.
type Store struct {
	db     docstore.Store
	logger *slog.Logger
}

// Option configures a Store during construction.
type Option func(*Store)

// WithLogger sets the logger used for store diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an actor store on top of db.
func New(db docstore.Store, opts ...Option) *Store {
	s := &Store{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("actor_store"))
	return s
}

// Create assigns an identifier to a if it has none and inserts it.
// The identifier is set on a before the write, so it is available to the
// caller even when the insert fails.
func (s *Store) Create(ctx context.Context, a *actor.Actor) (bson.ObjectID, error) {
	if a == nil {
		return bson.ObjectID{}, ErrNilActor
	}
	id, err := actor.ID(actor.GenerateIDIfAbsent(a))
	if err != nil {
		return bson.ObjectID{}, err
	}

	if _, err := s.db.InsertOne(ctx, Collection, a); err != nil {
		if errors.Is(err, docstore.ErrDuplicateKey) {
			return id, ErrActorAlreadyExists
		}
		s.logger.ErrorContext(ctx, "failed to insert actor",
			slog.String("actor_id", id.Hex()),
			logger.Error(err),
		)
		return id, fmt.Errorf("failed to insert actor: %w", err)
	}

	s.logger.DebugContext(ctx, "actor created", slog.String("actor_id", id.Hex()))
	return id, nil
}

// Save writes the present fields of a under its identifier, generating one
// first if needed. Fields absent from a are left untouched on an existing
// document. An actor carrying only its identifier is inserted if missing.
func (s *Store) Save(ctx context.Context, a *actor.Actor) (bson.ObjectID, error) {
	if a == nil {
		return bson.ObjectID{}, ErrNilActor
	}
	id, err := actor.ID(actor.GenerateIDIfAbsent(a))
	if err != nil {
		return bson.ObjectID{}, err
	}

	fields := actor.ToDocument(a)[1:]
	if len(fields) == 0 {
		_, err := s.db.InsertOne(ctx, Collection, bson.D{{Key: actor.FieldID, Value: id}})
		if err != nil && !errors.Is(err, docstore.ErrDuplicateKey) {
			return id, fmt.Errorf("failed to save actor: %w", err)
		}
		return id, nil
	}

	res, err := s.db.UpdateOne(ctx, Collection,
		docstore.Eq(actor.FieldID, id),
		docstore.Set(fields),
		docstore.Upsert(),
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save actor",
			slog.String("actor_id", id.Hex()),
			logger.Error(err),
		)
		return id, fmt.Errorf("failed to save actor: %w", err)
	}

	s.logger.DebugContext(ctx, "actor saved",
		slog.String("actor_id", id.Hex()),
		slog.Bool("created", res.Created()),
	)
	return id, nil
}

// Get returns the actor with the given identifier or ErrActorNotFound.
func (s *Store) Get(ctx context.Context, id bson.ObjectID) (*actor.Actor, error) {
	raw, err := s.db.FindOne(ctx, Collection, docstore.Eq(actor.FieldID, id), docstore.FindOptions{})
	if errors.Is(err, docstore.ErrNoDocument) {
		return nil, ErrActorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find actor: %w", err)
	}
	return actor.Decode(raw)
}

// Delete removes the actor with the given identifier.
// It reports false when no such actor exists.
func (s *Store) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	res, err := s.db.DeleteOne(ctx, Collection, docstore.Eq(actor.FieldID, id))
	if err != nil {
		return false, fmt.Errorf("failed to delete actor: %w", err)
	}
	return res.DeletedCount > 0, nil
}
