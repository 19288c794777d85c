package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const minTickInterval = 5 * time.Second

// Config captures all runtime configuration for the service.
type Config struct {
	TelegramToken string
	DatabaseURL   string
	HTTPAddr      string
	TickInterval  time.Duration
}

// Load builds configuration from environment variables. The Telegram token
// is the only value without a default: without it the process must not
// start.
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		return nil, errors.New("TELEGRAM_TOKEN is not set")
	}

	intervalStr := getString("TICK_INTERVAL", "60s")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TICK_INTERVAL: %w", err)
	}
	if interval < minTickInterval {
		interval = minTickInterval
	}

	return &Config{
		TelegramToken: token,
		DatabaseURL:   getString("DATABASE_URL", "postgres://localhost:5432/reminders"),
		HTTPAddr:      getString("HTTP_ADDR", ":5000"),
		TickInterval:  interval,
	}, nil
}

func getString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
