// Package config reads process settings from the environment.
package config

import (
	"fmt"
	"os"

	"blogly/internal/db"
)

type Config struct {
	Port        string
	DBDriver    string
	DBPath      string
	DatabaseURL string
	TemplateDir string
	SecretKey   string
}

// Load reads the environment, filling in defaults for anything unset.
func Load() Config {
	return Config{
		Port:        getenv("PORT", "8080"),
		DBDriver:    getenv("DB_DRIVER", db.DriverSQLite),
		DBPath:      getenv("DB_PATH", "blogly.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		TemplateDir: getenv("TEMPLATE_DIR", "web/templates"),
		SecretKey:   os.Getenv("SECRET_KEY"),
	}
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case db.DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for driver %q", c.DBDriver)
		}
	case db.DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for driver %q", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is empty")
	}
	return nil
}

// DSN is the data source handed to db.Open for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == db.DriverPostgres {
		return c.DatabaseURL
	}
	return c.DBPath
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
