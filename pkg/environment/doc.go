// Package environment names the deployment environments (development,
// staging, production) and carries the current one through context.Context.
//
// Parse turns configuration values such as "prod" into an Environment, and
// the logger factory uses it to pick output defaults. LoggerExtractor adds
// the environment from a context to every log record.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	ctx = environment.WithContext(ctx, env)
//	if environment.IsProduction(ctx) {
//	    // production-specific behaviour
//	}
package environment
