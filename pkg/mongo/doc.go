// Package mongo provides MongoDB connection management and a
// docstore.Store implementation backed by the official v2 driver.
//
// Connection settings are environment-driven through Config, so the same
// binary runs unchanged across development, staging and production.
// New retries the initial connect and ping a configurable number of times
// to ride out transient failures while a cluster is starting.
//
// # Usage
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Client().Disconnect(context.Background())
//
//	store := mongo.NewStore(db)
//	if err := store.EnsureIndexes(ctx, user.Indexes...); err != nil {
//		log.Fatal(err)
//	}
//
//	health := mongo.Healthcheck(db.Client())
//
// # Error Handling
//
// Store translates mongo.ErrNoDocuments into docstore.ErrNoDocument and
// duplicate key write errors into docstore.ErrDuplicateKey (joined with the
// driver error). Every other driver error is returned as is, so callers see
// connectivity and timeout failures unmodified.
//
// # See Also
//
// Documentation for the official driver: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2.
package mongo
