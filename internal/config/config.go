package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port string

	RedisURL  string
	RedisPass string
	RedisDB   int

	JWTSecret string

	FeedURL      string
	FeedInterval time.Duration

	TreasuryFeeBps    uint64
	TreasuryAuthority string
	TreasuryCoSigners []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		RedisURL:          getEnv("REDIS_URL", "localhost:6379"),
		RedisPass:         getEnv("REDIS_PASSWORD", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		FeedURL:           getEnv("FEED_URL", ""),
		TreasuryAuthority: getEnv("TREASURY_AUTHORITY", ""),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = db

	feeBps, err := strconv.ParseUint(getEnv("TREASURY_FEE_BPS", "250"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TREASURY_FEE_BPS: %w", err)
	}
	cfg.TreasuryFeeBps = feeBps

	interval, err := time.ParseDuration(getEnv("FEED_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid FEED_INTERVAL: %w", err)
	}
	cfg.FeedInterval = interval

	if raw := getEnv("TREASURY_COSIGNERS", ""); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.TreasuryCoSigners = append(cfg.TreasuryCoSigners, id)
			}
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
