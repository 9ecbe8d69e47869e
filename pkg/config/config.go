package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	UpstreamName     string
	UpstreamURL      string
	UpstreamFormat   string
	UpstreamTimeout  time.Duration
	UpstreamRetries  int
	PageSize         int
	BreakerThreshold int
	BreakerTimeout   time.Duration

	SessionTTL           time.Duration
	SessionSweepSchedule string
	ReadinessTimeout     time.Duration

	LogLevel        string
	OTelEnabled     bool
	OTelServiceName string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		UpstreamName:         getEnv("UPSTREAM_NAME", "picsum"),
		UpstreamURL:          getEnv("UPSTREAM_URL", "https://picsum.photos/v2/list"),
		UpstreamFormat:       getEnv("UPSTREAM_FORMAT", "picsum"),
		UpstreamTimeout:      getDurationEnv("UPSTREAM_TIMEOUT", 0),
		UpstreamRetries:      getIntEnv("UPSTREAM_MAX_RETRIES", 0),
		PageSize:             getIntEnv("PAGE_SIZE", 9),
		BreakerThreshold:     getIntEnv("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerTimeout:       getDurationEnv("BREAKER_OPEN_TIMEOUT", 30*time.Second),
		SessionTTL:           getDurationEnv("SESSION_TTL", 30*time.Minute),
		SessionSweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "@every 1m"),
		ReadinessTimeout:     getDurationEnv("READINESS_TIMEOUT", 10*time.Second),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		OTelEnabled:          getBoolEnv("OTEL_ENABLED", false),
		OTelServiceName:      getEnv("OTEL_SERVICE_NAME", "image-gallery"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		// Try parsing as duration string (e.g. "1m", "60s")
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Try parsing as integer seconds
		if i, err := strconv.Atoi(value); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
