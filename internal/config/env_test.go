package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears a variable for the duration of the test
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadEnv_Defaults(t *testing.T) {
	for _, k := range []string{"FISCALGO_TABLES", "FISCALGO_LOG_LEVEL", "FISCALGO_ADDR", "FISCALGO_CORS_ORIGINS", "SENTRY_DSN", "SENTRY_ENVIRONMENT"} {
		unsetEnv(t, k)
	}

	env := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))

	assert.Empty(t, env.TablesPath)
	assert.Equal(t, "info", env.LogLevel)
	assert.Equal(t, ":8080", env.Addr)
	assert.Equal(t, []string{"*"}, env.CORSOrigins)
	assert.Empty(t, env.SentryDSN)
	assert.Equal(t, "development", env.SentryEnvironment)
}

func TestLoadEnv_DotEnvFile(t *testing.T) {
	unsetEnv(t, "FISCALGO_ADDR")
	unsetEnv(t, "FISCALGO_CORS_ORIGINS")
	t.Setenv("FISCALGO_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), ".env")
	content := "FISCALGO_ADDR=:9090\nFISCALGO_CORS_ORIGINS=https://a.example, https://b.example\nFISCALGO_LOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	env := LoadEnv(path)

	assert.Equal(t, ":9090", env.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, env.CORSOrigins)
	assert.Equal(t, "warn", env.LogLevel, "the environment wins over .env")
}
