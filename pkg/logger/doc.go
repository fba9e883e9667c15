// Package logger builds *slog.Logger values from functional options and
// provides attribute constructors shared by the stores.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// result in a LogHandlerDecorator that runs ContextExtractor callbacks on
// every record:
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Parse(cfg.Env), cfg.AppName),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	log.InfoContext(ctx, "session stored",
//	    logger.Collection("sessions"),
//	    logger.UserID(email),
//	)
//
// Development logs text at debug level. Staging and production log JSON at
// info level. Both presets tag records with the service and env keys.
package logger
