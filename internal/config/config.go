// Package config reads the server configuration from the environment.
// A .env file in the working directory is loaded first when present, so
// local development does not need exported variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server binary needs. Manager credentials
// are deliberately configuration, never source: with both unset the
// manager endpoints stay locked and login is disabled.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// StorePath is the JSON store document; HistoryPath the SQLite
	// history log. An empty HistoryPath keeps history in memory only.
	StorePath   string
	HistoryPath string

	// RedisAddr enables Redis-backed sessions; empty means in-memory.
	RedisAddr  string
	SessionTTL time.Duration

	// ManagerUsername and ManagerPassword gate /api/manager endpoints.
	ManagerUsername string
	ManagerPassword string

	// PublicDir, when set, is served as the static frontend with an SPA
	// fallback.
	PublicDir string

	// BaseURL is the externally reachable URL encoded into table QR
	// codes by cmd/qrgen.
	BaseURL string

	// OTelEnabled switches on trace export to the endpoint configured
	// via the standard OTEL_EXPORTER_OTLP_ENDPOINT variable.
	OTelEnabled bool
}

// Load builds a Config from the environment.
func Load() (Config, error) {
	// Missing .env is fine; explicit env vars are the source of truth.
	_ = godotenv.Load()

	cfg := Config{
		Addr:            getEnv("ADDR", ":3000"),
		StorePath:       getEnv("STORE_PATH", "data/store.json"),
		HistoryPath:     getEnv("HISTORY_PATH", "data/history.db"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		ManagerUsername: os.Getenv("MANAGER_USERNAME"),
		ManagerPassword: os.Getenv("MANAGER_PASSWORD"),
		PublicDir:       os.Getenv("PUBLIC_DIR"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:3000"),
		OTelEnabled:     os.Getenv("OTEL_ENABLED") == "true",
		SessionTTL:      12 * time.Hour,
	}

	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid SESSION_TTL %q: %w", raw, err)
		}
		cfg.SessionTTL = ttl
	}

	// One credential without the other is almost certainly a deployment
	// mistake; refuse to start half-configured.
	if (cfg.ManagerUsername == "") != (cfg.ManagerPassword == "") {
		return Config{}, fmt.Errorf("config: MANAGER_USERNAME and MANAGER_PASSWORD must be set together")
	}

	return cfg, nil
}

// ManagerLoginEnabled reports whether credentials were configured.
func (c Config) ManagerLoginEnabled() bool {
	return c.ManagerUsername != "" && c.ManagerPassword != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
