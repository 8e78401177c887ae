// ABOUTME: Startup configuration from environment variables and .env files
// ABOUTME: Missing required variables fail fast, each named individually
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Auth provider mode constants.
const (
	AuthProviderBasic    = "basic"    // token from the API's own login endpoint
	AuthProviderExternal = "external" // token issued by an external identity provider
)

type Config struct {
	// APIBaseURL is the Farmbase API root, e.g. https://api.example.com/api/v1.
	APIBaseURL string
	// Organization is the active tenant slug used to prefix resource paths.
	Organization string
	// AuthProvider selects the authentication mode (basic or external).
	AuthProvider string
	// AuthURL is the external identity provider base URL; external mode only.
	AuthURL string
	// Timeout bounds every API request.
	Timeout time.Duration
	// TelemetryDSN enables error reporting when set; optional.
	TelemetryDSN string
	// LogLevel for the structured logger.
	LogLevel string
	// ExperimentalFeatures gates in-progress console surfaces.
	ExperimentalFeatures bool
}

// Load reads configuration from the environment, with an optional .env file
// filling in unset variables. Absence of a required variable is a fatal
// configuration error naming that variable.
func Load() (*Config, error) {
	// .env is a convenience for development; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Organization: "default",
		AuthProvider: AuthProviderBasic,
		Timeout:      20 * time.Second,
		LogLevel:     "info",
	}

	cfg.APIBaseURL = os.Getenv("FARMBASE_API_URL")
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("required environment variable FARMBASE_API_URL is not set")
	}

	if org := os.Getenv("FARMBASE_ORG"); org != "" {
		cfg.Organization = org
	}
	if provider := os.Getenv("FARMBASE_AUTH_PROVIDER"); provider != "" {
		cfg.AuthProvider = provider
	}
	cfg.AuthURL = os.Getenv("FARMBASE_AUTH_URL")
	if cfg.AuthProvider == AuthProviderExternal && cfg.AuthURL == "" {
		return nil, fmt.Errorf("required environment variable FARMBASE_AUTH_URL is not set (auth provider is %q)", cfg.AuthProvider)
	}

	if raw := os.Getenv("FARMBASE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid FARMBASE_TIMEOUT %q: %w", raw, err)
		}
		cfg.Timeout = d
	}

	cfg.TelemetryDSN = os.Getenv("FARMBASE_TELEMETRY_DSN")
	if level := os.Getenv("FARMBASE_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if raw := os.Getenv("FARMBASE_EXPERIMENTAL"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid FARMBASE_EXPERIMENTAL %q: %w", raw, err)
		}
		cfg.ExperimentalFeatures = v
	}

	return cfg, nil
}
