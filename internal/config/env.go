package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds configuration taken from the process environment. Environment
// values take precedence over the registry file; the password only ever
// lives here or in an interactive prompt.
type Env struct {
	Email    string `env:"DEWARMTE_EMAIL"`
	Password string `env:"DEWARMTE_PASSWORD"`
	BaseURL  string `env:"DEWARMTE_BASE_URL"`
	LogLevel string `env:"DEWARMTE_LOG_LEVEL"`
}

// LoadEnv parses the DeWarmte environment variables.
func LoadEnv() (*Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &e, nil
}
