// Package user stores accounts keyed by email.
//
// Email uniqueness comes from the unique index in Indexes: AddUser issues a
// single insert and maps a duplicate key error to ErrUserAlreadyExists.
// DeleteUser removes the user's sessions through a SessionRemover before
// removing the user, and UpdateUserPreferences replaces the whole
// preferences map of an existing user.
//
//	sessions := session.New(store)
//	users := user.New(store, sessions, user.WithLogger(log))
//
//	if err := users.AddUser(ctx, u); errors.Is(err, user.ErrUserAlreadyExists) {
//		// email taken
//	}
package user
