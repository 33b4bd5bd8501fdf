package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string        `env:"PORT" envDefault:"5000"`
	DSN         string        `env:"DB_DSN"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	AMQPURL     string        `env:"AMQP_URL"`
	EventsExch  string        `env:"EVENTS_EXCHANGE" envDefault:"app.events"`
	LogsExch    string        `env:"LOGS_EXCHANGE" envDefault:"logs.events"`
	ServiceName string        `env:"SERVICE_NAME" envDefault:"talent-service"`
	Environment string        `env:"ENVIRONMENT" envDefault:"local"`
	GinMode     string        `env:"GIN_MODE" envDefault:"debug"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env config: %w", err)
	}

	if cfg.DSN == "" {
		return nil, fmt.Errorf("DB_DSN environment variable must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable must be set")
	}

	return cfg, nil
}
