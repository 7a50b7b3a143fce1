package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
// The API is stateless apart from the optional analytics log.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Observability
	SentryDSN string // Sentry DSN for error tracking

	// Analytics log (optional, empty disables it)
	DatabaseURL string

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from the fronting gateway
	// - "jwt": Validate HMAC bearer tokens signed with JWTSecret
	AuthMode  string
	JWTSecret string

	// Audio
	SamplesDir string // root of the WAV sample packs, empty for synth drums

	// Scheduler timing for live playback
	SchedulerPoll      time.Duration
	SchedulerLookahead time.Duration
}

const (
	AuthModeNone    = "none"
	AuthModeGateway = "gateway"
	AuthModeJWT     = "jwt"

	defaultPollMs      = 25
	defaultLookaheadMs = 100
)

func Load() *Config {
	return &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		Port:               getEnv("PORT", "8080"),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		AuthMode:           getEnv("AUTH_MODE", AuthModeNone), // Default to no auth for self-hosted
		JWTSecret:          getEnv("JWT_SECRET", ""),
		SamplesDir:         getEnv("SAMPLES_DIR", ""),
		SchedulerPoll:      getMillis("SCHEDULER_POLL_MS", defaultPollMs),
		SchedulerLookahead: getMillis("SCHEDULER_LOOKAHEAD_MS", defaultLookaheadMs),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// getMillis reads a positive millisecond count, ignoring malformed values
func getMillis(key string, defaultMs int) time.Duration {
	ms, err := strconv.Atoi(os.Getenv(key))
	if err != nil || ms <= 0 {
		ms = defaultMs
	}
	return time.Duration(ms) * time.Millisecond
}

// IsGatewayMode returns true if running behind an authenticating gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == AuthModeGateway
}

// IsProduction reports whether production-only integrations are on
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DatabaseEnabled reports whether the analytics log is configured
func (c *Config) DatabaseEnabled() bool {
	return c.DatabaseURL != ""
}
