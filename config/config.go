// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is built once in main and passed by reference into constructors.
type Config struct {
	Addr      string        `env:"ADDR" envDefault:":8080"`
	DBURI     string        `env:"DB_URI,required"`
	DBName    string        `env:"DB_NAME,required"`
	JWTSecret string        `env:"JWT_SECRET,required"`
	RedisAddr string        `env:"REDIS_ADDR"` // optional; empty disables the user cache
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
