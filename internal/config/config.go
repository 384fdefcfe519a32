package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds the process-wide configuration. It is loaded once at
// startup and injected into constructors; nothing reads the environment
// after that.
type AppConfig struct {
	// APIKey authenticates against the weather provider.
	APIKey string

	// TimeZone is the single reference zone used to interpret lookup dates.
	TimeZone *time.Location

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.APIKey = os.Getenv("API_KEY")
	if cfg.APIKey == "" {
		// Startup continues; the provider rejects unauthenticated lookups.
		log.Println("WARN: API_KEY is not set; weather lookups will fail against the provider")
	}

	tzName := getenvDefault("TIME_ZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", tzName, err)
	}
	cfg.TimeZone = loc

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
