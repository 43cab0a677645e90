package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"
)

// TodoServiceConfig holds the process wide, read-only configuration of the
// todo service. It is built once at startup and passed to its consumers.
type TodoServiceConfig struct {
	Port            int           `env:"PORT"             envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	StoreDriver     string        `env:"STORE_DRIVER"     envDefault:"mongo"`
	PasswordHasher  string        `env:"PASSWORD_HASHER"  envDefault:"bcrypt"`

	Mongo MongoConfig `envPrefix:"MONGODB_"`
	Token TokenConfig `envPrefix:"JWT_"`
	Log   LogConfig   `envPrefix:"LOG_"`
}

type MongoConfig struct {
	URI      string `env:"URI"      envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"TodoApp"`
}

type TokenConfig struct {
	Secret string `env:"SECRET,required,notEmpty"`
	Issuer string `env:"ISSUER"                   envDefault:"todo-service"`
}

type LogConfig struct {
	Level  string `env:"LEVEL"  envDefault:"info"`
	Pretty bool   `env:"PRETTY" envDefault:"false"`
}

// Load parses the configuration from environment variables and validates it.
func Load() (*TodoServiceConfig, error) {
	cfg, err := env.ParseAs[TodoServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// NewTodoServiceConfig loads the configuration, terminating the process when
// it is missing or invalid.
func NewTodoServiceConfig(logger *zerolog.Logger) *TodoServiceConfig {
	cfg, err := Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load todo service configuration")
	}

	return cfg
}

func (c *TodoServiceConfig) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	switch c.StoreDriver {
	case StoreDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("missing MONGODB_URI environment variable")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("missing MONGODB_DATABASE environment variable")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if c.Token.Issuer == "" {
		return fmt.Errorf("missing JWT_ISSUER environment variable")
	}

	return nil
}
