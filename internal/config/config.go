package config

import (
	"flag"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	TelegramToken   string  `env:"TELEGRAM_TOKEN"`
	ProviderAddress string  `env:"PROVIDER_ADDRESS" env-default:"https://api.smsrelay.example/api"`
	ProviderAPIKey  string  `env:"PROVIDER_API_KEY"`
	BackendAddress  string  `env:"BACKEND_ADDRESS" env-default:"http://localhost:8080/api"`
	AdminToken      string  `env:"ADMIN_TOKEN"`
	PriceMultiplier float64 `env:"PRICE_MULTIPLIER" env-default:"1.0"`
	DefaultCountry  string  `env:"DEFAULT_COUNTRY" env-default:"gb"`
	LogChatID       int64   `env:"LOG_CHAT_ID"`
	AdminIDs        []int64 `env:"ADMIN_IDS" env-separator:","`
}

func Load() (*Config, error) {
	cfg := &Config{}

	flag.StringVar(&cfg.ProviderAddress, "p", "https://api.smsrelay.example/api", "адрес SMS-провайдера")
	flag.StringVar(&cfg.BackendAddress, "b", "http://localhost:8080/api", "адрес бэкенда аккаунтов")
	flag.Float64Var(&cfg.PriceMultiplier, "m", 1.0, "множитель цены провайдера")

	flag.Parse()

	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't read environment variables: %w", err)
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if cfg.ProviderAPIKey == "" {
		return nil, fmt.Errorf("PROVIDER_API_KEY is required")
	}
	if cfg.AdminToken == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN is required")
	}

	return cfg, nil
}
