package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/scribbly/notes-api/config"
)

// InitLogger initializes the structured logger.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()

	if err := validateSecrets(cfg.Auth); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// validateSecrets refuses startup configurations that would silently disable
// authentication. env.Parse enforces presence; this enforces usability.
func validateSecrets(auth config.AuthConfig) error {
	if strings.TrimSpace(auth.JWTSecret) == "" {
		return errors.New("JWT_SECRET must not be blank")
	}
	if len(auth.CookieSecrets) == 0 {
		return errors.New("COOKIE_SECRETS must list at least one secret")
	}
	for i, s := range auth.CookieSecrets {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("COOKIE_SECRETS entry %d is blank", i)
		}
	}
	return nil
}
