package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Impactboard"`
		Port int    `envconfig:"PORT" default:"3000"`
	}

	DB struct {
		// URL, when set, takes precedence over the individual parts.
		URL      string `envconfig:"DATABASE_URL" default:""`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"impactboard"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Upload struct {
		Dir      string `envconfig:"UPLOAD_DIR" default:""`
		MaxBytes int64  `envconfig:"UPLOAD_MAX_BYTES" default:"10485760"`
	}

	Ingest struct {
		MaxRows    int           `envconfig:"INGEST_MAX_ROWS" default:"100000"`
		RowTimeout time.Duration `envconfig:"INGEST_ROW_TIMEOUT" default:"30s"`
		JobTimeout time.Duration `envconfig:"INGEST_JOB_TIMEOUT" default:"30m"`
	}
}

func (c *Config) ConnectionString() string {
	if c.DB.URL != "" {
		return c.DB.URL
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
