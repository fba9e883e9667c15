// Package session stores login sessions, one document per user.
//
// CreateSession is a single upsert keyed by user id, so repeated logins
// replace the token rather than adding documents. Together with the unique
// index in Indexes, concurrent logins for the same user also end with one
// document. DeleteSessions looks up the current token and deletes by it.
//
//	sessions := session.New(store, session.WithLogger(log))
//	if err := sessions.CreateSession(ctx, "a@b.com", token); err != nil {
//		return err
//	}
//	sess, err := sessions.GetSession(ctx, "a@b.com")
//	if errors.Is(err, session.ErrSessionNotFound) {
//		// logged out
//	}
package session
