package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/mflix/pkg/docstore"
	"github.com/dmitrymomot/mflix/pkg/logger"
	"github.com/dmitrymomot/mflix/pkg/validator"
)

// Store manages user documents. It holds no mutable state and is safe
// for concurrent use.
type Store struct {
	db         docstore.Store
	sessions   SessionRemover
	logger     *slog.Logger
	bcryptCost int
}

// New creates a user store. sessions is used to cascade DeleteUser.
//
// Email uniqueness is enforced only by the unique index in Indexes. The
// caller must create it before use, through EnsureIndexes, mflix.New or
// the mflix-indexes command; without it AddUser accepts duplicates.
func New(db docstore.Store, sessions SessionRemover, opts ...Option) *Store {
	s := &Store{
		db:         db,
		sessions:   sessions,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("user_store"))
	return s
}

// EnsureIndexes creates the indexes listed in Indexes.
func EnsureIndexes(ctx context.Context, im docstore.IndexManager) error {
	if err := im.EnsureIndexes(ctx, Indexes...); err != nil {
		return fmt.Errorf("failed to ensure user indexes: %w", err)
	}
	return nil
}

// AddUser inserts u without preferences. The insert either succeeds or
// fails with ErrUserAlreadyExists; there is no separate existence check
// that a concurrent insert could slip past.
func (s *Store) AddUser(ctx context.Context, u User) error {
	if u.Email == "" {
		return ErrInvalidEmail
	}

	_, err := s.db.InsertOne(ctx, Collection, bson.D{
		{Key: FieldName, Value: u.Name},
		{Key: FieldEmail, Value: u.Email},
		{Key: FieldPassword, Value: u.HashedPassword},
	})
	if errors.Is(err, docstore.ErrDuplicateKey) {
		s.logger.WarnContext(ctx, "user already exists", logger.UserID(u.Email))
		return ErrUserAlreadyExists
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to insert user",
			logger.UserID(u.Email),
			logger.Error(err),
		)
		return fmt.Errorf("failed to insert user: %w", err)
	}

	s.logger.DebugContext(ctx, "user added", logger.UserID(u.Email))
	return nil
}

// Register validates the input, hashes password and adds the user.
// Invalid input yields an error matching ErrInvalidRegistration that also
// carries validator.ValidationErrors.
func (s *Store) Register(ctx context.Context, name, email, password string) (*User, error) {
	if err := validator.Apply(
		validator.RequiredString(FieldName, name),
		validator.ValidEmail(FieldEmail, email),
		validator.MinLenString(FieldPassword, password, MinPasswordLength),
		validator.MaxLenString(FieldPassword, password, MaxPasswordLength),
	); err != nil {
		return nil, errors.Join(ErrInvalidRegistration, err)
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := User{Name: name, Email: email, HashedPassword: hash}
	if err := s.AddUser(ctx, u); err != nil {
		return nil, err
	}
	u.Preferences = map[string]any{}
	return &u, nil
}

// GetUser returns the user with the given email or ErrUserNotFound.
// Preferences are never nil.
func (s *Store) GetUser(ctx context.Context, email string) (*User, error) {
	if email == "" {
		return nil, ErrUserNotFound
	}

	raw, err := s.db.FindOne(ctx, Collection, docstore.Eq(FieldEmail, email), docstore.FindOptions{})
	if errors.Is(err, docstore.ErrNoDocument) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	var u User
	if err := docstore.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	if u.Preferences == nil {
		u.Preferences = map[string]any{}
	}
	return &u, nil
}

// DeleteUser removes the sessions of the user and then the user itself.
// If removing the sessions fails, the user is kept.
// It reports false when no such user exists.
func (s *Store) DeleteUser(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}

	_, err := s.db.FindOne(ctx, Collection, docstore.Eq(FieldEmail, email), docstore.Project(FieldEmail))
	if errors.Is(err, docstore.ErrNoDocument) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.sessions.DeleteSessions(ctx, email); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete user sessions",
			logger.UserID(email),
			logger.Error(err),
		)
		return false, fmt.Errorf("failed to delete user sessions: %w", err)
	}

	res, err := s.db.DeleteOne(ctx, Collection, docstore.Eq(FieldEmail, email))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete user",
			logger.UserID(email),
			logger.Error(err),
		)
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.DebugContext(ctx, "user deleted", logger.UserID(email))
	return res.DeletedCount > 0, nil
}

// UpdateUserPreferences replaces the stored preferences with prefs.
// Keys missing from prefs are dropped. It fails with ErrUserNotFound
// rather than creating a document for an unknown email.
func (s *Store) UpdateUserPreferences(ctx context.Context, email string, prefs map[string]any) error {
	if prefs == nil {
		return ErrNilPreferences
	}
	if email == "" {
		return ErrUserNotFound
	}

	res, err := s.db.UpdateOne(ctx, Collection,
		docstore.Eq(FieldEmail, email),
		docstore.Set(bson.D{{Key: FieldPreferences, Value: prefs}}),
		docstore.UpdateOptions{Upsert: false},
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update user preferences",
			logger.UserID(email),
			logger.Error(err),
		)
		return fmt.Errorf("failed to update user preferences: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}

	s.logger.DebugContext(ctx, "user preferences updated",
		logger.UserID(email),
		slog.Int("keys", len(prefs)),
	)
	return nil
}
