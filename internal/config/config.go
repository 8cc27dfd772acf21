package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the API and console binaries read from the
// environment.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// Storage selects the persistence backend: "sqlite" or "redis".
	Storage    string
	SQLitePath string
	RedisURL   string

	// Provider selects the completion backend: "anthropic" or "openai".
	Provider  string
	APIKey    string
	ModelName string

	// PipelineMode is "expression" or "narration".
	PipelineMode string

	// RuleSetPath optionally points at a YAML validator rule set that
	// replaces the built-in one.
	RuleSetPath string

	HistoryWindow   int
	GenerateTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		Storage:    getEnv("STORAGE", "sqlite"),
		SQLitePath: getEnv("SQLITE_PATH", "data/worldsim.db"),
		RedisURL:   getEnv("REDIS_URL", "localhost:6379"),

		Provider:  getEnv("LLM_PROVIDER", "anthropic"),
		APIKey:    getEnv("LLM_API_KEY", ""),
		ModelName: getEnv("LLM_MODEL", "claude-sonnet-4-20250514"),

		PipelineMode: getEnv("PIPELINE_MODE", "expression"),
		RuleSetPath:  getEnv("RULE_SET_PATH", ""),

		HistoryWindow:   getEnvInt("HISTORY_WINDOW", 6),
		GenerateTimeout: getEnvDuration("GENERATE_TIMEOUT", 60*time.Second),
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}

	switch c.Provider {
	case "anthropic", "openai", "mock":
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if c.Provider != "mock" && c.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required for provider %q", c.Provider)
	}

	switch c.PipelineMode {
	case "expression", "narration":
	default:
		return fmt.Errorf("unknown pipeline mode %q", c.PipelineMode)
	}

	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
