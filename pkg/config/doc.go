// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct tag parsing. Each configuration type
// is parsed once and cached for the life of the process; ResetCache clears
// the cache, which tests use between cases.
//
//	type AppConfig struct {
//		Env  string `env:"APP_ENV" envDefault:"development"`
//		Name string `env:"APP_NAME" envDefault:"mflix"`
//	}
//
//	config.MustLoadEnv(".env.local")
//	var app AppConfig
//	config.MustLoad(&app)
//
// Load reads ./.env on first use when present. Existing process variables
// always win over values from files.
package config
