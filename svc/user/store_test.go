package user_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/mflix/pkg/docstore"
	"github.com/dmitrymomot/mflix/pkg/validator"
	"github.com/dmitrymomot/mflix/svc/session"
	"github.com/dmitrymomot/mflix/svc/user"
)

type fixture struct {
	db       *docstore.MemoryStore
	sessions *session.Store
	users    *user.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	indexes := append(append([]docstore.Index{}, user.Indexes...), session.Indexes...)
	db := docstore.NewMemoryStore(indexes...)
	sessions := session.New(db)
	return fixture{
		db:       db,
		sessions: sessions,
		users:    user.New(db, sessions, user.WithBcryptCost(bcrypt.MinCost)),
	}
}

func testUser(email string) user.User {
	return user.User{Name: "Test User", Email: email, HashedPassword: "$2a$04$hash"}
}

func TestStore_AddUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("adds user without preferences", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := testUser("a@b.com")
		u.Preferences = map[string]any{"ignored": "at creation"}

		require.NoError(t, f.users.AddUser(ctx, u))

		got, err := f.users.GetUser(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, "Test User", got.Name)
		assert.Equal(t, "a@b.com", got.Email)
		assert.Equal(t, "$2a$04$hash", got.HashedPassword)
		assert.Equal(t, map[string]any{}, got.Preferences)
	})

	t.Run("duplicate email fails and keeps first record", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		first := testUser("a@b.com")
		second := user.User{Name: "Impostor", Email: "a@b.com", HashedPassword: "other"}

		require.NoError(t, f.users.AddUser(ctx, first))

		err := f.users.AddUser(ctx, second)
		assert.ErrorIs(t, err, user.ErrUserAlreadyExists)
		assert.ErrorIs(t, err, docstore.ErrDuplicateEntity)

		got, err := f.users.GetUser(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, first.Name, got.Name)
		assert.Equal(t, first.HashedPassword, got.HashedPassword)

		n, err := f.db.CountDocuments(ctx, user.Collection, docstore.Eq(user.FieldEmail, "a@b.com"))
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("concurrent inserts of one email admit exactly one", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		var ok, dup atomic.Int32
		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := f.users.AddUser(ctx, testUser("race@x.com"))
				switch {
				case err == nil:
					ok.Add(1)
				case errors.Is(err, user.ErrUserAlreadyExists):
					dup.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.EqualValues(t, 1, ok.Load())
		assert.EqualValues(t, 9, dup.Load())
	})

	t.Run("rejects empty email", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		assert.ErrorIs(t, f.users.AddUser(ctx, user.User{Name: "x"}), user.ErrInvalidEmail)
	})
}

func TestStore_GetUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.GetUser(ctx, "missing@x.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.ErrorIs(t, err, docstore.ErrEntityNotFound)

	_, err = f.users.GetUser(ctx, "")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestStore_DeleteUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("removes user and sessions", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, f.users.AddUser(ctx, testUser("a@b.com")))
		require.NoError(t, f.sessions.CreateSession(ctx, "a@b.com", "jwt"))

		ok, err := f.users.DeleteUser(ctx, "a@b.com")
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = f.users.GetUser(ctx, "a@b.com")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
		_, err = f.sessions.GetSession(ctx, "a@b.com")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("user without session", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, f.users.AddUser(ctx, testUser("a@b.com")))

		ok, err := f.users.DeleteUser(ctx, "a@b.com")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		sessions := &MockSessionRemover{}
		users := user.New(docstore.NewMemoryStore(user.Indexes...), sessions)

		ok, err := users.DeleteUser(ctx, "missing@x.com")
		require.NoError(t, err)
		assert.False(t, ok)
		sessions.AssertNotCalled(t, "DeleteSessions", mock.Anything, mock.Anything)
	})

	t.Run("session failure keeps user", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("sessions unavailable")
		db := docstore.NewMemoryStore(user.Indexes...)
		sessions := &MockSessionRemover{}
		sessions.On("DeleteSessions", mock.Anything, "a@b.com").Return(false, boom)
		users := user.New(db, sessions)
		require.NoError(t, users.AddUser(ctx, testUser("a@b.com")))

		ok, err := users.DeleteUser(ctx, "a@b.com")
		assert.ErrorIs(t, err, boom)
		assert.False(t, ok)

		_, err = users.GetUser(ctx, "a@b.com")
		assert.NoError(t, err)
		sessions.AssertExpectations(t)
	})
}

func TestStore_UpdateUserPreferences(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("replaces whole mapping", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, f.users.AddUser(ctx, testUser("a@b.com")))

		require.NoError(t, f.users.UpdateUserPreferences(ctx, "a@b.com", map[string]any{"theme": "dark", "autoplay": true}))
		require.NoError(t, f.users.UpdateUserPreferences(ctx, "a@b.com", map[string]any{"language": "en"}))

		got, err := f.users.GetUser(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"language": "en"}, got.Preferences)
	})

	t.Run("nested values read back as bson types", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, f.users.AddUser(ctx, testUser("a@b.com")))
		require.NoError(t, f.users.UpdateUserPreferences(ctx, "a@b.com", map[string]any{
			"player": map[string]any{"subtitles": "en", "volume": int32(7)},
			"genres": []any{"drama", "noir"},
		}))

		got, err := f.users.GetUser(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, bson.M{"subtitles": "en", "volume": int32(7)}, got.Preferences["player"])
		assert.Equal(t, bson.A{"drama", "noir"}, got.Preferences["genres"])
	})

	t.Run("empty mapping clears preferences", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, f.users.AddUser(ctx, testUser("a@b.com")))
		require.NoError(t, f.users.UpdateUserPreferences(ctx, "a@b.com", map[string]any{"theme": "dark"}))

		require.NoError(t, f.users.UpdateUserPreferences(ctx, "a@b.com", map[string]any{}))

		got, err := f.users.GetUser(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Empty(t, got.Preferences)
	})

	t.Run("unknown user is not created", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		err := f.users.UpdateUserPreferences(ctx, "nonexistent@x.com", map[string]any{"theme": "dark"})
		assert.ErrorIs(t, err, user.ErrUserNotFound)
		assert.ErrorIs(t, err, docstore.ErrEntityNotFound)

		n, err := f.db.CountDocuments(ctx, user.Collection, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("rejects nil mapping", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, f.users.AddUser(ctx, testUser("a@b.com")))

		assert.ErrorIs(t, f.users.UpdateUserPreferences(ctx, "a@b.com", nil), user.ErrNilPreferences)
	})
}

func TestStore_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	u, err := f.users.Register(ctx, "Ann", "ann@x.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", u.HashedPassword)

	stored, err := f.users.GetUser(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("s3cret-pass"))
	assert.False(t, stored.CheckPassword("wrong"))

	_, err = f.users.Register(ctx, "Ann", "ann@x.com", "another-pass")
	assert.ErrorIs(t, err, user.ErrUserAlreadyExists)
}

func TestStore_Register_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		field    string
	}{
		{name: "missing name", userName: " ", email: "a@b.com", password: "long-enough", field: user.FieldName},
		{name: "malformed email", userName: "A", email: "not-an-email", password: "long-enough", field: user.FieldEmail},
		{name: "empty password", userName: "A", email: "a@b.com", password: "", field: user.FieldPassword},
		{name: "short password", userName: "A", email: "a@b.com", password: "short", field: user.FieldPassword},
		{name: "password past bcrypt limit", userName: "A", email: "a@b.com", password: strings.Repeat("p", 73), field: user.FieldPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)

			_, err := f.users.Register(ctx, tt.userName, tt.email, tt.password)
			require.ErrorIs(t, err, user.ErrInvalidRegistration)
			assert.ErrorIs(t, err, validator.ErrValidationFailed)
			assert.True(t, validator.ExtractValidationErrors(err).Has(tt.field))

			n, err := f.db.CountDocuments(ctx, user.Collection, nil)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestEnsureIndexes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := docstore.NewMemoryStore()
	users := user.New(db, session.New(db))
	require.NoError(t, user.EnsureIndexes(ctx, db))

	require.NoError(t, users.AddUser(ctx, testUser("x@b.com")))
	err := users.AddUser(ctx, testUser("x@b.com"))
	assert.ErrorIs(t, err, user.ErrUserAlreadyExists)

	n, err := db.CountDocuments(ctx, user.Collection, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestEnsureIndexes_Failure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := docstore.NewMemoryStore()
	for range 2 {
		_, err := db.InsertOne(ctx, user.Collection, bson.M{user.FieldEmail: "dup@b.com"})
		require.NoError(t, err)
	}

	err := user.EnsureIndexes(ctx, db)
	assert.ErrorIs(t, err, docstore.ErrDuplicateKey)
}
