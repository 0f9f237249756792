package config

import (
	"os"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string
	CORSOrigins string
	TablePrefix string
	// Resource store
	DataDir string
	// Logging
	LogDir string // when set, logs also go to timestamped files under this directory
	// Security configuration
	RulesFile           string        // user-editable workspace-admin rule override file
	RulesReloadInterval time.Duration // poll interval for rule file changes
	AllowIfAllAbstain   bool          // decision when every voter abstains; false fails closed
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("JWKS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: tablePrefix,
		DataDir:     getEnv("DATA_DIR", "data"),
		LogDir:      getEnv("LOG_DIR", ""),
		RulesFile:   getEnv("RULES_FILE", "security/rest.workspaceadmin.properties"),
		RulesReloadInterval: getDuration("RULES_RELOAD_INTERVAL", 10*time.Second),
		// Explicit choice, not an implied default: an all-abstain outcome
		// denies unless the operator opts into granting.
		AllowIfAllAbstain: getEnv("AUTHZ_ALLOW_IF_ALL_ABSTAIN", "false") == "true",
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
