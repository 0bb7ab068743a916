package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"studiobooking/internal/schedule"
)

const (
	defaultAddr           = ":8080"
	defaultJWTTTL         = "24h"
	defaultOffsetHours    = "2"     // studio civil time = UTC + 2, no DST table
	defaultOperatingOpen  = "10:00" // local
	defaultOperatingClose = "22:00" // local; at or before open means past midnight
	defaultSearchStep     = "30"
	defaultSearchHorizon  = "14"
	defaultSearchResults  = "2"
)

type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	RedisAddr   string // empty disables the availability cache

	// Fixed civil-time parameters of the studio. The offset is configuration
	// on purpose: there is no timezone database here, which is a documented
	// limitation, not something to silently fix.
	Schedule schedule.SearchConfig
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:        getEnv("ADDR", defaultAddr),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", defaultJWTTTL))
	if err != nil {
		return nil, fmt.Errorf("JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	offset, err := intEnv("LOCAL_UTC_OFFSET_HOURS", defaultOffsetHours)
	if err != nil {
		return nil, err
	}
	open, err := clockEnv("OPERATING_OPEN", defaultOperatingOpen)
	if err != nil {
		return nil, err
	}
	closeM, err := clockEnv("OPERATING_CLOSE", defaultOperatingClose)
	if err != nil {
		return nil, err
	}
	step, err := intEnv("SEARCH_STEP_MINUTES", defaultSearchStep)
	if err != nil {
		return nil, err
	}
	horizon, err := intEnv("SEARCH_HORIZON_DAYS", defaultSearchHorizon)
	if err != nil {
		return nil, err
	}
	results, err := intEnv("SEARCH_MAX_RESULTS", defaultSearchResults)
	if err != nil {
		return nil, err
	}

	cfg.Schedule = schedule.SearchConfig{
		OffsetHours:    offset,
		OperatingOpen:  open,
		OperatingClose: closeM,
		StepMinutes:    step,
		HorizonDays:    horizon,
		MaxResults:     results,
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key, fallback string) (int, error) {
	v, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func clockEnv(key, fallback string) (int, error) {
	v, err := schedule.ParseClock(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
