package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	ServerPort string

	// DatabaseType selects the engine: sqlite (default), postgres or
	// mysql. Path is used by sqlite, URL by the server engines.
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	SessionDuration time.Duration

	// ParentTokenSecret signs the short-lived tokens that gate
	// destructive operations behind the parent PIN.
	ParentTokenSecret string
	ParentTokenTTL    time.Duration

	// CSRFSecret keys the per-session CSRF tokens required on
	// cookie-authenticated mutations.
	CSRFSecret string

	// Amazon SES settings for the parent digest emails. Empty
	// SESFromEmail disables sending.
	SESRegion    string
	SESFromEmail string
	SESFromName  string

	AppBaseURL string
	Debug      bool
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:        getEnv("PORT", "8080"),
		DatabaseType:      getEnv("DB_TYPE", "sqlite"),
		DatabasePath:      getEnv("DB_PATH", "./brightsteps.db"),
		DatabaseURL:       getEnv("DB_URL", ""),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "./migrations"),
		SessionDuration:   getDuration("SESSION_DURATION", 24*time.Hour),
		ParentTokenSecret: getEnv("PARENT_TOKEN_SECRET", ""),
		ParentTokenTTL:    getDuration("PARENT_TOKEN_TTL", 15*time.Minute),
		CSRFSecret:        getEnv("CSRF_SECRET", ""),
		SESRegion:         getEnv("SES_REGION", "eu-west-1"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "BrightSteps"),
		AppBaseURL:        getEnv("APP_BASE_URL", "http://localhost:8080"),
		Debug:             getEnv("DEBUG", "") != "",
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration reads a duration-formatted environment variable, falling
// back to the default on absence or parse failure.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
