// Package config carries everything the scrapers need to know about
// their environment and about the site's endpoints. URL tables and
// payload templates are immutable values built by constructors; nothing
// here is shared mutable state.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config is the collector's runtime configuration, loaded from the
// environment (optionally via a .env file).
type Config struct {
	BaseURL   string
	OutputDir string
	BackupDir string
	LogDir    string
	Timeout   time.Duration
}

// Load reads configuration from the environment with sensible defaults.
func Load(log zerolog.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		BaseURL:   getEnv("KBO_BASE_URL", ""),
		OutputDir: getEnv("KBO_OUTPUT_DIR", "output"),
		BackupDir: getEnv("KBO_BACKUP_DIR", "backup"),
		LogDir:    getEnv("KBO_LOG_DIR", "logs"),
		Timeout:   30 * time.Second,
	}
	if v := os.Getenv("KBO_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		} else {
			log.Warn().Str("value", v).Msg("invalid KBO_TIMEOUT, keeping default")
		}
	}

	log.Info().
		Str("output_dir", cfg.OutputDir).
		Str("backup_dir", cfg.BackupDir).
		Dur("timeout", cfg.Timeout).
		Msg("configuration loaded")

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
