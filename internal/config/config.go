package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config carries the process environment. Everything has a local-friendly
// default; the port can additionally be overridden with --port in cmd/server.
type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	TranscriptFile string   `env:"TRANSCRIPT_FILE"`
}

func FromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// AllowAnyOrigin reports whether the origin allowlist is the wildcard
// default, in which case the WS upgrader and CORS layer accept everything.
func (c Config) AllowAnyOrigin() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}
