package config

import (
	"testing"
	"time"
)

func TestLoadAPIDefaults(t *testing.T) {
	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if cfg.MarketTickEvery != 5*time.Second || cfg.EventTickEvery != 30*time.Second || cfg.EventTTL != 5*time.Second {
		t.Fatalf("unexpected tick periods: %+v", cfg)
	}
	if cfg.HistoryDSN == "" {
		t.Fatalf("history DSN empty")
	}
}

func TestLoadAPIOverrides(t *testing.T) {
	t.Setenv("EMPIRE_API_ADDR", ":9999")
	t.Setenv("EMPIRE_MARKET_TICK_EVERY", "250ms")

	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.MarketTickEvery != 250*time.Millisecond {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadAPIPortWins(t *testing.T) {
	t.Setenv("EMPIRE_API_ADDR", ":9999")
	t.Setenv("PORT", "3000")

	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":3000" {
		t.Fatalf("addr = %q, want :3000", cfg.Addr)
	}
}

func TestLoadAPIRejectsNonPositivePeriods(t *testing.T) {
	t.Setenv("EMPIRE_EVENT_TTL", "0s")
	if _, err := LoadAPIFromEnv(); err == nil {
		t.Fatalf("expected error for zero event TTL")
	}
}

func TestLoadCLITrimsTrailingSlash(t *testing.T) {
	t.Setenv("CEMP_API_BASE_URL", "http://empire.example:8080/")

	cfg, err := LoadCLIFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "http://empire.example:8080" {
		t.Fatalf("base url = %q", cfg.APIBaseURL)
	}
}
