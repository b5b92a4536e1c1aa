package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all process-wide settings. It is loaded once at startup and
// never re-read; everything downstream receives it (or a slice of it) by value.
type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"5000"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"`

	// Session token signing.
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// External identity provider (OIDC issuer brokering password + social login).
	IdPIssuer       string `env:"IDP_ISSUER"`
	IdPClientID     string `env:"IDP_CLIENT_ID"`
	IdPClientSecret string `env:"IDP_CLIENT_SECRET"`
	IdPRedirectURL  string `env:"IDP_REDIRECT_URL"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	// Where browsers get sent after the OAuth callback completes or fails.
	ClientURL  string `env:"CLIENT_URL" envDefault:"http://localhost:5173"`
	BackendURL string `env:"BACKEND_URL" envDefault:"http://localhost:5000"`

	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`

	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
}

// IsProduction reports whether the service runs in production mode.
// It controls cookie Secure flags, gin mode and logger verbosity.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads configuration from the environment. A .env file is honored when
// present but never required.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if cfg.IdPRedirectURL == "" {
		cfg.IdPRedirectURL = cfg.BackendURL + "/auth/callback"
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.IdPIssuer == "" || c.IdPClientID == "" {
		return errors.New("config: IDP_ISSUER and IDP_CLIENT_ID are required")
	}
	if c.DatabaseDSN == "" {
		return errors.New("config: DATABASE_DSN is required")
	}
	return nil
}
