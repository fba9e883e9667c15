package mflix

import (
	"context"
	"io"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/mflix/pkg/docstore"
	"github.com/dmitrymomot/mflix/pkg/logger"
	"github.com/dmitrymomot/mflix/svc/actors"
	"github.com/dmitrymomot/mflix/svc/session"
	"github.com/dmitrymomot/mflix/svc/user"
)

// DAO groups the stores that share one document store.
type DAO struct {
	Sessions *session.Store
	Users    *user.Store
	Actors   *actors.Store
}

type settings struct {
	logger     *slog.Logger
	bcryptCost int
}

// Option configures New.
type Option func(*settings)

// WithLogger sets the logger handed to every store.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBcryptCost sets the cost used when registering users.
func WithBcryptCost(cost int) Option {
	return func(s *settings) { s.bcryptCost = cost }
}

// Indexes returns every index the stores rely on.
func Indexes() []docstore.Index {
	return slices.Concat(session.Indexes, user.Indexes)
}

// New builds the stores over db. When db also implements
// docstore.IndexManager, the required unique indexes are created first and
// a failure aborts construction.
func New(ctx context.Context, db docstore.Store, opts ...Option) (*DAO, error) {
	cfg := &settings{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(cfg)
	}

	if im, ok := db.(docstore.IndexManager); ok {
		if err := EnsureIndexes(ctx, im); err != nil {
			cfg.logger.ErrorContext(ctx, "failed to ensure indexes",
				logger.Operation("ensure_indexes"),
				logger.Error(err),
			)
			return nil, err
		}
	}

	sessions := session.New(db, session.WithLogger(cfg.logger))

	userOpts := []user.Option{user.WithLogger(cfg.logger)}
	if cfg.bcryptCost > 0 {
		userOpts = append(userOpts, user.WithBcryptCost(cfg.bcryptCost))
	}

	return &DAO{
		Sessions: sessions,
		Users:    user.New(db, sessions, userOpts...),
		Actors:   actors.New(db, actors.WithLogger(cfg.logger)),
	}, nil
}

// EnsureIndexes creates the indexes returned by Indexes.
func EnsureIndexes(ctx context.Context, im docstore.IndexManager) error {
	return im.EnsureIndexes(ctx, Indexes()...)
}
