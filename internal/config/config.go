package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level
	RedisURL    string
	DataDir     string
	ScenarioTTL time.Duration // how long uploaded scenarios live in Redis
	MaxHops     int           // upper bound on any query's hop or cost limit
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		DataDir:     getEnv("DATA_DIR", "./data"),
	}

	var errs []error
	ttl, err := time.ParseDuration(getEnv("SCENARIO_TTL", "24h"))
	if err != nil {
		errs = append(errs, fmt.Errorf("SCENARIO_TTL: %w", err))
	} else if ttl <= 0 {
		errs = append(errs, errors.New("SCENARIO_TTL must be positive"))
	}
	cfg.ScenarioTTL = ttl

	maxHops, err := strconv.Atoi(getEnv("QUERY_MAX_HOPS", "64"))
	if err != nil {
		errs = append(errs, fmt.Errorf("QUERY_MAX_HOPS: %w", err))
	} else if maxHops < 1 {
		errs = append(errs, errors.New("QUERY_MAX_HOPS must be at least 1"))
	}
	cfg.MaxHops = maxHops

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
