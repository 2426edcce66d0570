// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrMissingConnectionString is returned when the selected storage driver
// has no connection string configured.
var ErrMissingConnectionString = errors.New("missing connection string")

// Storage selects and locates the storage engine.
type Storage struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	DSN           string
}

// ConnectionString returns the value the selected driver connects with.
func (s Storage) ConnectionString() string {
	if s.Driver == DriverMongo {
		return s.MongoURI
	}
	return s.DSN
}

// Config holds every runtime setting.
type Config struct {
	AppPort     string
	Storage     Storage
	RabbitMQURL string
	LogLevel    string
	CatalogPath string
}

// Load reads an optional .env file and then the environment. A missing
// connection string for the selected driver is fatal for the caller.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// A missing .env file is normal outside development.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("STORAGE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_DATABASE", "livraria")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CATALOG_PATH", "banco/livros.json")
	for _, key := range []string{"MONGO_URI", "DATABASE_DSN", "RABBITMQ_URL"} {
		_ = v.BindEnv(key)
	}
	v.AutomaticEnv()

	cfg := &Config{
		AppPort: v.GetString("APP_PORT"),
		Storage: Storage{
			Driver:        strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
			MongoURI:      strings.TrimSpace(v.GetString("MONGO_URI")),
			MongoDatabase: v.GetString("MONGO_DATABASE"),
			DSN:           strings.TrimSpace(v.GetString("DATABASE_DSN")),
		},
		RabbitMQURL: strings.TrimSpace(v.GetString("RABBITMQ_URL")),
		LogLevel:    v.GetString("LOG_LEVEL"),
		CatalogPath: v.GetString("CATALOG_PATH"),
	}

	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the driver name and its connection string.
func (s Storage) Validate() error {
	switch s.Driver {
	case DriverMongo:
		if s.MongoURI == "" {
			return fmt.Errorf("%w: MONGO_URI is required for the %s driver", ErrMissingConnectionString, s.Driver)
		}
	case DriverPostgres, DriverSQLite:
		if s.DSN == "" {
			return fmt.Errorf("%w: DATABASE_DSN is required for the %s driver", ErrMissingConnectionString, s.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q (supported: mongo, postgres, sqlite)", s.Driver)
	}
	return nil
}
