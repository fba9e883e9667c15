// Package mflix is the data-access layer of the mflix application.
//
// It stores users, their login sessions and actor records in a document
// database. The stores live under svc/ and talk to a docstore.Store, which
// is either the MongoDB implementation in pkg/mongo or the in-memory one in
// pkg/docstore:
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	dao, err := mflix.New(ctx, mongo.NewStore(client.Database(cfg.Database)),
//		mflix.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//	err = dao.Users.AddUser(ctx, user.User{Name: "Ada", Email: "ada@example.com", HashedPassword: hash})
//
// Email uniqueness and the one-session-per-user rule are enforced by unique
// indexes; New creates them when the store supports it.
package mflix
