package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/mflix/pkg/docstore"
	"github.com/dmitrymomot/mflix/pkg/logger"
)

// Store keeps at most one session document per user.
// It holds no mutable state and is safe for concurrent use.
type Store struct {
	db     docstore.Store
	logger *slog.Logger
}

// New creates a session store on top of db.
func New(db docstore.Store, opts ...Option) *Store {
	s := &Store{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("session_store"))
	return s
}

// CreateSession stores jwt as the session of userID, replacing any previous
// session in a single upsert. A nil error means the session now exists with
// the given token, whether it was created or replaced.
func (s *Store) CreateSession(ctx context.Context, userID, jwt string) error {
	if userID == "" || jwt == "" {
		return ErrInvalidSession
	}

	res, err := s.db.UpdateOne(ctx, Collection,
		docstore.Eq(FieldUserID, userID),
		docstore.Set(Session{UserID: userID, JWT: jwt}),
		docstore.Upsert(),
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to upsert session",
			logger.UserID(userID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	s.logger.DebugContext(ctx, "session stored",
		logger.UserID(userID),
		slog.Bool("created", res.Created()),
	)
	return nil
}

// GetSession returns the session of userID or ErrSessionNotFound.
func (s *Store) GetSession(ctx context.Context, userID string) (*Session, error) {
	return s.find(ctx, userID, docstore.FindOptions{})
}

// DeleteSessions removes the session of userID. The document is matched by
// its token, so a session replaced concurrently by a new login survives.
// It reports false when there was nothing to delete.
func (s *Store) DeleteSessions(ctx context.Context, userID string) (bool, error) {
	sess, err := s.find(ctx, userID, docstore.Project(FieldJWT))
	if errors.Is(err, ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	res, err := s.db.DeleteOne(ctx, Collection, docstore.Eq(FieldJWT, sess.JWT))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete session",
			logger.UserID(userID),
			logger.Error(err),
		)
		return false, fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.DebugContext(ctx, "session deleted",
		logger.UserID(userID),
		slog.Int64("deleted", res.DeletedCount),
	)
	return res.DeletedCount > 0, nil
}

func (s *Store) find(ctx context.Context, userID string, opts docstore.FindOptions) (*Session, error) {
	if userID == "" {
		return nil, ErrSessionNotFound
	}

	raw, err := s.db.FindOne(ctx, Collection, docstore.Eq(FieldUserID, userID), opts)
	if errors.Is(err, docstore.ErrNoDocument) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	var sess Session
	if err := docstore.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}
