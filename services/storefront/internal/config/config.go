package config

import (
	"time"

	"github.com/Skotchmaster/beauty_shop/pkg/config"
)

const UnconfiguredWarning = "Backend is not configured: set BACKEND_URL and BACKEND_KEY. The catalog is empty and changes are disabled."

type ServiceConfig struct {
	config.Config

	SessionIdle   time.Duration
	SecureCookies bool
	// Warning is non-empty when the storefront runs without a backend.
	Warning string
}

// Load never fails: a missing backend switches the storefront into
// unconfigured mode instead.
func Load() ServiceConfig {
	cfg := ServiceConfig{Config: config.Load()}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "storefront"
	}

	cfg.SessionIdle = 24 * time.Hour
	if d, err := time.ParseDuration(config.EnvDefault("SESSION_IDLE", "")); err == nil && d > 0 {
		cfg.SessionIdle = d
	}

	cfg.SecureCookies = config.EnvDefault("COOKIE_SECURE", "false") == "true"

	if cfg.BackendURL == "" || cfg.BackendKey == "" {
		cfg.Warning = UnconfiguredWarning
	}
	return cfg
}

func (c ServiceConfig) Unconfigured() bool { return c.Warning != "" }
