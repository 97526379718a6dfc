// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/igrelay/instagram"
)

// Config holds all process configuration. The session credential itself is
// resolved separately by the instagram client so that startup fails fast
// when no source can provide one.
type Config struct {
	AppEnv    string
	Port      string
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Upstream  UpstreamConfig
}

// CORSConfig controls cross-origin access to the relay.
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig bounds inbound requests per client identity.
type RateLimitConfig struct {
	Window time.Duration
	Max    int
}

// UpstreamConfig selects the upstream endpoint shape and timeout.
type UpstreamConfig struct {
	Endpoint       instagram.Endpoint
	Timeout        time.Duration
	BrowserCookies bool
}

// Load reads configuration from the environment, applying defaults and
// validating everything that can be validated without network access.
func Load() (Config, error) {
	rateWindow, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "15m"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}

	rateMax, err := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "100"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_MAX: %w", err)
	}
	if rateMax < 1 {
		return Config{}, fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", rateMax)
	}

	timeout, err := time.ParseDuration(getEnv("UPSTREAM_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}

	endpoint, err := parseEndpoint(getEnv("UPSTREAM_ENDPOINT", string(instagram.EndpointGraphQL)))
	if err != nil {
		return Config{}, err
	}

	return Config{
		AppEnv: getEnv("APP_ENV", "dev"),
		Port:   getEnv("PORT", "3000"),
		CORS: CORSConfig{
			AllowedOrigins: parseCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		RateLimit: RateLimitConfig{
			Window: rateWindow,
			Max:    rateMax,
		},
		Upstream: UpstreamConfig{
			Endpoint:       endpoint,
			Timeout:        timeout,
			BrowserCookies: getEnvBool("BROWSER_COOKIES", false),
		},
	}, nil
}

// Dev reports whether the process runs in development mode, where error
// responses may include underlying details.
func (c Config) Dev() bool {
	return c.AppEnv != "prod"
}

func parseEndpoint(value string) (instagram.Endpoint, error) {
	switch instagram.Endpoint(value) {
	case instagram.EndpointGraphQL:
		return instagram.EndpointGraphQL, nil
	case instagram.EndpointWebProfile:
		return instagram.EndpointWebProfile, nil
	default:
		return "", fmt.Errorf("invalid UPSTREAM_ENDPOINT: %s", value)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	var results []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
