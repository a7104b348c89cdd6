// Package config loads server configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration.
// One of AuthPasswordHash (bcrypt) or AuthPassword (plaintext, hashed at
// startup) must be set.
type Config struct {
	Addr   string `env:"ADDR" envDefault:":8080"`
	DBPath string `env:"DB_PATH" envDefault:"./data/jako.db"`

	AuthPassword     string        `env:"AUTH_PASSWORD"`
	AuthPasswordHash string        `env:"AUTH_PASSWORD_HASH"`
	JWTSecret        string        `env:"JWT_SECRET"`
	TokenTTL         time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // text or json

	TesseractPath string `env:"TESSERACT_PATH" envDefault:"tesseract"`
	PdftoppmPath  string `env:"PDFTOPPM_PATH" envDefault:"pdftoppm"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET must be set")
	}
	if cfg.AuthPassword == "" && cfg.AuthPasswordHash == "" {
		return Config{}, errors.New("one of AUTH_PASSWORD or AUTH_PASSWORD_HASH must be set")
	}
	return cfg, nil
}
