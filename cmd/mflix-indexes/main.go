// Command mflix-indexes connects to MongoDB and creates the unique indexes
// the mflix stores depend on. It is safe to run repeatedly.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/mflix"
	"github.com/dmitrymomot/mflix/pkg/config"
	"github.com/dmitrymomot/mflix/pkg/environment"
	"github.com/dmitrymomot/mflix/pkg/logger"
	"github.com/dmitrymomot/mflix/pkg/mongo"
)

type appConfig struct {
	Env     string        `env:"APP_ENV" envDefault:"development"`
	Name    string        `env:"APP_NAME" envDefault:"mflix"`
	Timeout time.Duration `env:"APP_TIMEOUT" envDefault:"30s"`
}

func main() {
	envFile := flag.String("env-file", "", "optional .env file to load before reading the environment")
	flag.Parse()

	if *envFile != "" {
		config.MustLoadEnv(*envFile)
	}

	var app appConfig
	config.MustLoad(&app)

	env := environment.Parse(app.Env)
	log := logger.New(logger.WithEnvironment(env, app.Name))
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, app, log); err != nil {
		log.ErrorContext(ctx, "mflix-indexes failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, app appConfig, log *slog.Logger) error {
	var cfg mongo.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if cfg.Database == "" {
		return mongo.ErrMissingDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, app.Timeout)
	defer cancel()

	client, err := mongo.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.WithoutCancel(ctx)); err != nil {
			log.WarnContext(ctx, "failed to disconnect from mongodb", logger.Error(err))
		}
	}()

	if err := mongo.Healthcheck(client)(ctx); err != nil {
		return err
	}

	start := time.Now()
	store := mongo.NewStore(client.Database(cfg.Database))
	if err := mflix.EnsureIndexes(ctx, store); err != nil {
		return fmt.Errorf("failed to ensure indexes on %s: %w", cfg.Database, err)
	}

	for _, idx := range mflix.Indexes() {
		log.InfoContext(ctx, "index ensured",
			logger.Collection(idx.Collection),
			slog.String("field", idx.Field),
			slog.Bool("unique", idx.Unique),
		)
	}
	log.InfoContext(ctx, "done",
		slog.String("database", cfg.Database),
		logger.Duration(time.Since(start)),
	)
	return nil
}
