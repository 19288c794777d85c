package config

import (
	"testing"
	"time"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when TELEGRAM_TOKEN is not set")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTPAddr != ":5000" {
		t.Fatalf("expected default HTTP addr :5000, got %q", cfg.HTTPAddr)
	}
	if cfg.TickInterval != 60*time.Second {
		t.Fatalf("expected default tick interval 60s, got %v", cfg.TickInterval)
	}
}

func TestTickIntervalClamp(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TICK_INTERVAL", "100ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.TickInterval != minTickInterval {
		t.Fatalf("expected interval to be clamped to %v, got %v", minTickInterval, cfg.TickInterval)
	}
}

func TestTickIntervalInvalid(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TICK_INTERVAL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unparsable TICK_INTERVAL")
	}
}
