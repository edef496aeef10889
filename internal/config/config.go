package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	defaultEnv       = "dev"
	defaultDBPath    = "./roi.db"
	defaultPort      = "8080"
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env       string
	DBPath    string
	Port      string
	LogLevel  string
	LogFormat string
	Slack     SlackConfig
}

// SlackConfig holds the optional report sharing settings.
type SlackConfig struct {
	BotToken string
	Channel  string
	APIURL   string
}

// Enabled reports whether report sharing has everything it needs.
func (s SlackConfig) Enabled() bool {
	return s.BotToken != "" && s.Channel != ""
}

// IsDev reports whether the app runs in the local development environment.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv
}

// Load reads environment variables and returns a populated, validated Config.
func Load() (Config, error) {
	// Best-effort: load local dev environment variables.
	// A missing file is fine; production should use real env injection.
	if _, err := loadDotEnv(".env"); err != nil {
		slog.Warn("could not read .env", "error", err)
	}

	cfg := Config{
		Env:       getenv("APP_ENV", defaultEnv),
		DBPath:    getenv("DB_PATH", defaultDBPath),
		Port:      getenv("PORT", defaultPort),
		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", defaultLogLevel)),
		LogFormat: strings.ToLower(getenv("LOG_FORMAT", defaultLogFormat)),
		Slack: SlackConfig{
			BotToken: os.Getenv("SLACK_BOT_TOKEN"),
			Channel:  os.Getenv("SLACK_CHANNEL"),
			APIURL:   os.Getenv("SLACK_API_URL"),
		},
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	if !cfg.Slack.Enabled() {
		slog.Warn("SLACK_BOT_TOKEN or SLACK_CHANNEL is not set; report sharing is disabled")
	}

	return cfg, nil
}

// Validate checks the config for errors.
func Validate(cfg Config) error {
	var errs []error

	if port, err := strconv.Atoi(cfg.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535 (got %q)", cfg.Port))
	}
	if cfg.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH must not be empty"))
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be debug, info, warn, or error (got %q)", cfg.LogLevel))
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json (got %q)", cfg.LogFormat))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config validation errors: %w", err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
