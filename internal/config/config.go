// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Backend selection
// --------------------------------------------------------------------------

const (
	// BackendMemory computes every operation against the in-process fact view
	// loaded from the CSV archive.
	BackendMemory = "memory"
	// BackendSQL pushes every operation down to Postgres.
	BackendSQL = "sql"
)

// --------------------------------------------------------------------------
// Table names — single source of truth, matches cmd/ingest schema
// --------------------------------------------------------------------------

const (
	BoxscoreTable     = "boxscore"
	GamesTable        = "games"
	PlayerInfoTable   = "player_info"
	PlayerImagesTable = "player_image"
)

// Archive file names inside DataDir. The boxscore and games files may carry a
// .gz suffix; the loader handles both.
const (
	BoxscoreFile     = "boxscore1946-2025.csv.gz"
	GamesFile        = "games1946-2025.csv.gz"
	PlayerInfoFile   = "Players_data_Latest.csv"
	PlayerImagesFile = "player_imageURL.csv"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Analytics backend: "memory" or "sql"
	Backend string

	// Data directory holding the CSV archive (memory backend, ingest)
	DataDir string

	// Database (sql backend, ingest target, optional otherwise)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Natural-language interpreter
	AnthropicAPIKey  string
	InterpreterModel string

	// Query history (SQLite)
	HistoryPath string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Backend: strings.ToLower(envOr("ANALYTICS_BACKEND", BackendMemory)),
		DataDir: envOr("DATA_DIR", "data"),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		AnthropicAPIKey:  envOr("ANTHROPIC_API_KEY", ""),
		InterpreterModel: envOr("INTERPRETER_MODEL", "claude-haiku-4-5-20251001"),

		HistoryPath: envOr("HISTORY_DB_PATH", "data/query_history.db"),
	}

	switch cfg.Backend {
	case BackendMemory, BackendSQL:
	default:
		return nil, fmt.Errorf("ANALYTICS_BACKEND must be %q or %q, got %q",
			BackendMemory, BackendSQL, cfg.Backend)
	}

	if cfg.Backend == BackendSQL && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set when ANALYTICS_BACKEND=sql")
	}

	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
