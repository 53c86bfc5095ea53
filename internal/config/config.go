// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the teppekgeo service.
type Config struct {
	Port              string
	DatabaseURL       string
	RedisURL          string
	AdzunaAppID       string
	AdzunaAppKey      string
	SyncIntervalHours int    // How often the daily-sync cron fires
	CronSecret        string // Bearer token guarding /api/cron/daily-sync
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	interval := 24
	if s := os.Getenv("SYNC_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("SYNC_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		interval = v
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          redisURL,
		AdzunaAppID:       os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:      os.Getenv("ADZUNA_APP_KEY"),
		SyncIntervalHours: interval,
		CronSecret:        os.Getenv("CRON_SECRET"),
	}, nil
}

// SyncEnabled reports whether Adzuna credentials are configured. When
// false the server still serves native markers; only the import sync is
// skipped.
func (c *Config) SyncEnabled() bool {
	return c.AdzunaAppID != "" && c.AdzunaAppKey != ""
}
