// Package config reads the process environment into one struct at
// startup, so the rest of the app never touches os.Getenv for app
// settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	Env      string
	Port     string
	CertFile string
	KeyFile  string

	JWTSecret string

	// PersistenceDriver picks the document store backend: "mysql" or
	// "memory".
	PersistenceDriver string
	DB                DBConfig

	InviteTokenTTL time.Duration
	InviteBaseURL  string

	CategorySeedPath string

	RateLimitPerMinute int

	// SMTPConfigured is false when no SMTP host is set, in which case
	// all outgoing mail is skipped.
	SMTPConfigured bool
}

type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

func (d DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", d.User, d.Password, d.Host, d.Port, d.Name)
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Env:               getEnv("APP_ENV", "development"),
		Port:              getEnv("SERVER_PORT", ":8080"),
		CertFile:          os.Getenv("CERT_FILE"),
		KeyFile:           os.Getenv("KEY_FILE"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		PersistenceDriver: getEnv("PERSISTENCE_DRIVER", "mysql"),
		DB: DBConfig{
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			Name:     os.Getenv("DB_NAME"),
		},
		InviteBaseURL:    getEnv("INVITE_BASE_URL", "http://localhost:8080"),
		CategorySeedPath: getEnv("CATEGORY_SEED_PATH", "data/default_categories.yaml"),
		SMTPConfigured:   os.Getenv("SMTP_HOST") != "",
	}

	ttl, err := time.ParseDuration(getEnv("INVITE_TOKEN_EXP_DURATION", "72h"))
	if err != nil {
		return nil, fmt.Errorf("invalid INVITE_TOKEN_EXP_DURATION: %w", err)
	}
	cfg.InviteTokenTTL = ttl

	perMinute, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}
	cfg.RateLimitPerMinute = perMinute

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.PersistenceDriver != "mysql" && cfg.PersistenceDriver != "memory" {
		return nil, fmt.Errorf("unknown PERSISTENCE_DRIVER %q", cfg.PersistenceDriver)
	}
	if cfg.PersistenceDriver == "mysql" && cfg.DB.Name == "" {
		return nil, fmt.Errorf("DB_NAME is required with the mysql driver")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
