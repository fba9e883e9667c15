package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mflix/pkg/environment"
	"github.com/dmitrymomot/mflix/pkg/logger"
)

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("development logs text at debug", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithEnvironment(environment.Development, "mflix"),
			logger.WithOutput(buf),
		)
		log.Debug("indexes ensured")

		out := buf.String()
		assert.Contains(t, out, "level=DEBUG")
		assert.Contains(t, out, "service=mflix")
		assert.Contains(t, out, "env=development")
	})

	for _, env := range []environment.Environment{environment.Staging, environment.Production} {
		t.Run(string(env)+" logs json at info", func(t *testing.T) {
			t.Parallel()
			buf := &bytes.Buffer{}
			log := logger.New(
				logger.WithEnvironment(env, "mflix"),
				logger.WithOutput(buf),
			)
			log.Debug("hidden")
			log.Info("visible")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "visible", entry["msg"])
			assert.Equal(t, "mflix", entry["service"])
			assert.Equal(t, string(env), entry["env"])
		})
	}

	t.Run("unknown environment falls back to development", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithEnvironment(environment.Environment("qa"), "mflix"),
			logger.WithOutput(buf),
		)
		log.Debug("msg")
		assert.Contains(t, buf.String(), "env=development")
	})

	t.Run("empty service is ignored", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithEnvironment(environment.Development, ""),
			logger.WithOutput(buf),
		)
		log.Debug("hidden")
		assert.Empty(t, buf.String())
	})
}

func TestPresets(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithDevelopment("svc"), logger.WithOutput(buf))
	log.Debug("msg")
	assert.Contains(t, buf.String(), "env=development")

	buf.Reset()
	log = logger.New(logger.WithProduction("svc"), logger.WithOutput(buf))
	log.Info("msg")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "production", entry["env"])
}

func TestEnvironmentExtractor(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(environment.LoggerExtractor()),
	)
	ctx := environment.WithContext(context.Background(), environment.Staging)
	log.InfoContext(ctx, "msg")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "staging", entry["env"])
}
