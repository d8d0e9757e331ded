package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Env holds process settings read from .env and the environment.
// Command-line flags take precedence over these values.
type Env struct {
	TablesPath        string
	LogLevel          string
	Addr              string
	CORSOrigins       []string
	SentryDSN         string
	SentryEnvironment string
	SentryRelease     string
}

// LoadEnv reads an optional .env file and then the environment. A missing
// .env file is not an error.
func LoadEnv(files ...string) Env {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	return Env{
		TablesPath:        os.Getenv("FISCALGO_TABLES"),
		LogLevel:          getEnv("FISCALGO_LOG_LEVEL", "info"),
		Addr:              getEnv("FISCALGO_ADDR", ":8080"),
		CORSOrigins:       splitList(getEnv("FISCALGO_CORS_ORIGINS", "*")),
		SentryDSN:         os.Getenv("SENTRY_DSN"),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "development"),
		SentryRelease:     os.Getenv("SENTRY_RELEASE"),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
