package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultDailyCap matches the upstream store's free daily read allowance.
	DefaultDailyCap = 200000
	// DefaultTimezone anchors the calendar-day boundary for quota records.
	DefaultTimezone = "Asia/Singapore"
)

// Config holds the proxy-wide settings, read once at startup.
type Config struct {
	ProxySecret string
	JWTSecret   string
	DailyCap    int
	Location    *time.Location
	Port        string
}

func Load() (*Config, error) {
	proxySecret := os.Getenv("PROXY_SECRET")
	if proxySecret == "" {
		return nil, fmt.Errorf("PROXY_SECRET environment variable is required")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	dailyCap := DefaultDailyCap
	if raw := os.Getenv("DAILY_READ_CAP"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("DAILY_READ_CAP must be a positive integer, got %q", raw)
		}
		dailyCap = parsed
	}

	tzName := getEnv("PROXY_TIMEZONE", DefaultTimezone)
	location, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid PROXY_TIMEZONE %q: %v", tzName, err)
	}

	return &Config{
		ProxySecret: proxySecret,
		JWTSecret:   jwtSecret,
		DailyCap:    dailyCap,
		Location:    location,
		Port:        getEnv("PORT", "8080"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
