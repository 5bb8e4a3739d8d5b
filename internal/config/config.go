// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the runtime configuration. All values come from environment
// variables; cmd loads a .env file first so local development needs no
// exported shell state.
type Config struct {
	// Port is the HTTP listen port.
	Port int
	// BaseURL is the public base URL used when building deployed page links.
	BaseURL string
	// DatabaseURL is the PostgreSQL connection URL. Empty selects the
	// in-memory store.
	DatabaseURL string
	// RedisURL is the Redis connection URL for the scrape/research cache.
	// Empty selects the in-memory cache.
	RedisURL string
	// GeminiAPIKey is the LLM API key. Empty disables voice classification
	// and market estimation.
	GeminiAPIKey string
	// UploadDir is where uploaded logos are stored.
	UploadDir string
	// UseBrowser enables the headless-browser fallback for client-rendered
	// sites.
	UseBrowser bool
	// Debug switches zap to development logging.
	Debug bool
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         3000,
		BaseURL:      getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		UseBrowser:   getEnvBool("USE_BROWSER"),
		Debug:        getEnvBool("DEBUG"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	if c.UploadDir == "" {
		return fmt.Errorf("config error: upload dir is empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
