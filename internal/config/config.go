package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type APIConfig struct {
	Addr            string        `env:"EMPIRE_API_ADDR" envDefault:":8080"`
	MarketTickEvery time.Duration `env:"EMPIRE_MARKET_TICK_EVERY" envDefault:"5s"`
	EventTickEvery  time.Duration `env:"EMPIRE_EVENT_TICK_EVERY" envDefault:"30s"`
	EventTTL        time.Duration `env:"EMPIRE_EVENT_TTL" envDefault:"5s"`
	HistoryDSN      string        `env:"EMPIRE_HISTORY_DSN" envDefault:"file:empire-history?mode=memory&cache=shared"`
}

type CLIConfig struct {
	APIBaseURL string `env:"CEMP_API_BASE_URL" envDefault:"http://localhost:8080"`
}

func LoadAPIFromEnv() (APIConfig, error) {
	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	// Hosting platforms hand out PORT; it wins over the addr default.
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Addr = port
	}
	if cfg.MarketTickEvery <= 0 || cfg.EventTickEvery <= 0 || cfg.EventTTL <= 0 {
		return cfg, fmt.Errorf("tick periods must be positive")
	}
	return cfg, nil
}

func LoadCLIFromEnv() (CLIConfig, error) {
	var cfg CLIConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	return cfg, nil
}
