package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

// Config is the full environment-variable surface of the service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"8080"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
		AllowedOrigins  string `env:"ALLOWED_ORIGINS"`
	} `envPrefix:"SERVER_"`
	Database struct {
		URL string `env:"URL,required"`
	} `envPrefix:"DATABASE_"`
	JWT struct {
		Secret     string `env:"SECRET,required"`
		Expiration int    `env:"EXPIRATION" envDefault:"3600"` // seconds
	} `envPrefix:"JWT_"`
	// DefaultUsers configures the two seeded example accounts. Either half
	// of a pair may be blank, in which case that slot is skipped at startup.
	DefaultUsers struct {
		AdminEmail       string `env:"ADMIN_EMAIL"`
		AdminPassword    string `env:"ADMIN_PASSWORD"`
		ReadOnlyEmail    string `env:"READONLY_EMAIL"`
		ReadOnlyPassword string `env:"READONLY_PASSWORD"`
	} `envPrefix:"DEFAULT_USERS_"`
}

// Load parses the configuration from the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) {
			// Return only the first error to keep startup logs readable.
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	return cfg, nil
}
