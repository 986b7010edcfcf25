package config

import (
	"github.com/Skotchmaster/beauty_shop/pkg/config"
)

type ServiceConfig struct {
	config.Config
}

// Load reads the environment and exits when a required value is missing.
func Load() ServiceConfig {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "backend"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmpty(cfg.BackendKey, "BACKEND_KEY")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	return ServiceConfig{Config: cfg}
}

func (c ServiceConfig) SearchEnabled() bool { return c.ESURL != "" }

// PaymentSandbox is true when no payment provider URL is set.
func (c ServiceConfig) PaymentSandbox() bool { return c.PaymentURL == "" }
