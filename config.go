package authclient

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvConfig is the environment-backed Config implementation.
type EnvConfig struct {
	BaseURL           string `env:"ADMIN_API_BASE_URL" envDefault:"http://localhost:8080/api"`
	LoginRoute        string `env:"ADMIN_LOGIN_ROUTE" envDefault:"/login"`
	UnauthorizedRoute string `env:"ADMIN_UNAUTHORIZED_ROUTE" envDefault:"/unauthorized"`
	AuthScheme        string `env:"ADMIN_AUTH_SCHEME" envDefault:"Bearer"`
	StoragePath       string `env:"ADMIN_SESSION_STORE" envDefault:"session.db"`
	Debug             bool   `env:"ADMIN_DEBUG" envDefault:"false"`
}

// LoadEnvConfig reads configuration from the environment, honoring a local
// .env file when present.
func LoadEnvConfig() (*EnvConfig, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

func (c *EnvConfig) GetBaseURL() string           { return c.BaseURL }
func (c *EnvConfig) GetLoginRoute() string        { return c.LoginRoute }
func (c *EnvConfig) GetUnauthorizedRoute() string { return c.UnauthorizedRoute }
func (c *EnvConfig) GetAuthScheme() string        { return c.AuthScheme }
func (c *EnvConfig) GetStoragePath() string       { return c.StoragePath }

var _ Config = (*EnvConfig)(nil)
