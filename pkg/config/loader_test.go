package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mflix/pkg/config"
)

type appConfig struct {
	Env     string `env:"CFGTEST_APP_ENV" envDefault:"development"`
	Name    string `env:"CFGTEST_APP_NAME" envDefault:"mflix"`
	Retries int    `env:"CFGTEST_RETRIES" envDefault:"3"`
	Debug   bool   `env:"CFGTEST_DEBUG" envDefault:"false"`
}

type cachedConfig struct {
	Value string `env:"CFGTEST_CACHED" envDefault:"default"`
}

type otherConfig struct {
	Value string `env:"CFGTEST_OTHER" envDefault:"other"`
}

type requiredConfig struct {
	URI string `env:"CFGTEST_REQUIRED_URI,required"`
}

type fileConfig struct {
	Database string `env:"CFGTEST_FILE_DATABASE"`
}

// Tests in this file mutate process environment and the shared cache, so
// they run sequentially.

func TestLoad_FromEnvironment(t *testing.T) {
	t.Cleanup(config.ResetCache)
	t.Setenv("CFGTEST_APP_ENV", "production")
	t.Setenv("CFGTEST_RETRIES", "5")
	t.Setenv("CFGTEST_DEBUG", "true")

	var cfg appConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "mflix", cfg.Name)
	assert.Equal(t, 5, cfg.Retries)
	assert.True(t, cfg.Debug)
}

func TestLoad_Defaults(t *testing.T) {
	t.Cleanup(config.ResetCache)

	var cfg appConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, appConfig{Env: "development", Name: "mflix", Retries: 3}, cfg)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Cleanup(config.ResetCache)

	var cfg requiredConfig
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	// failures are not cached
	t.Setenv("CFGTEST_REQUIRED_URI", "mongodb://localhost:27017")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "mongodb://localhost:27017", cfg.URI)
}

func TestLoad_CachesPerType(t *testing.T) {
	t.Cleanup(config.ResetCache)
	t.Setenv("CFGTEST_CACHED", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("CFGTEST_CACHED", "second")
	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)

	var other otherConfig
	require.NoError(t, config.Load(&other))
	assert.Equal(t, "other", other.Value)

	config.ResetCache()
	var reloaded cachedConfig
	require.NoError(t, config.Load(&reloaded))
	assert.Equal(t, "second", reloaded.Value)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *appConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	assert.Panics(t, func() { config.MustLoad(cfg) })
}

func TestLoadEnv(t *testing.T) {
	t.Cleanup(config.ResetCache)

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CFGTEST_FILE_DATABASE=sample_mflix\n"), 0o600))
	t.Setenv("CFGTEST_FILE_DATABASE", "")
	require.NoError(t, os.Unsetenv("CFGTEST_FILE_DATABASE"))

	require.NoError(t, config.LoadEnv(path))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "sample_mflix", cfg.Database)
}

func TestLoadEnv_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	assert.ErrorIs(t, config.LoadEnv(missing), config.ErrLoadingEnvFile)
	assert.Panics(t, func() { config.MustLoadEnv(missing) })
	assert.NoError(t, config.LoadEnv())
}
