// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"CDESK_DB_PATH" envDefault:"./data/contentdesk.db"`
	SessionSecret string `env:"CDESK_SESSION_SECRET,required"`
	ServerHost    string `env:"CDESK_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"CDESK_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"CDESK_ENV" envDefault:"development"`
	LogLevel      string `env:"CDESK_LOG_LEVEL" envDefault:"info"`

	// Public site settings used for canonical URLs and meta tags
	SiteName        string `env:"CDESK_SITE_NAME" envDefault:"ContentDesk"`
	SiteURL         string `env:"CDESK_SITE_URL" envDefault:"http://localhost:8080"`
	SiteDescription string `env:"CDESK_SITE_DESCRIPTION"`
	DefaultOGImage  string `env:"CDESK_DEFAULT_OG_IMAGE"`
	TwitterHandle   string `env:"CDESK_TWITTER_HANDLE"`

	// Autosave snapshot storage
	SnapshotDir      string `env:"CDESK_SNAPSHOT_DIR" envDefault:"./data/snapshots"`
	AutosaveDebounce int    `env:"CDESK_AUTOSAVE_DEBOUNCE_MS" envDefault:"1000"` // Debounce window in milliseconds

	// Cache configuration
	RedisURL     string `env:"CDESK_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"CDESK_CACHE_PREFIX" envDefault:"cdesk:"`  // Redis key prefix
	CacheTTL     int    `env:"CDESK_CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"CDESK_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Scheduler configuration
	PublishCronSpec string `env:"CDESK_PUBLISH_CRON" envDefault:"* * * * *"` // Promotion check schedule

	// Seeding configuration
	DoSeed bool `env:"CDESK_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// AutosaveInterval returns the autosave debounce window as a duration.
func (c Config) AutosaveInterval() time.Duration {
	return time.Duration(c.AutosaveDebounce) * time.Millisecond
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("CDESK_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("CDESK_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("CDESK_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.AutosaveDebounce <= 0 {
		return nil, fmt.Errorf("CDESK_AUTOSAVE_DEBOUNCE_MS must be positive, got %d", cfg.AutosaveDebounce)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
