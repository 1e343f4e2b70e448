package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// app config, loaded from environment variables
type Config struct {
	Port      string
	Provider  string
	JWTSecret string
	UploadDir string

	// RedisAddr enables feedback_ready event publishing when set.
	RedisAddr string

	GatewayTimeout time.Duration

	ExportEnabled  bool
	ExportSchedule string
	ExportDir      string
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		Provider:       getEnvOrDefault("AI_PROVIDER", "gemini"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", "dev"),
		UploadDir:      getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		GatewayTimeout: getEnvDuration("GATEWAY_TIMEOUT", 30*time.Second),
		ExportEnabled:  getEnvBool("FEEDBACK_EXPORT_ENABLED", false),
		ExportSchedule: getEnvOrDefault("FEEDBACK_EXPORT_SCHEDULE", "0 2 * * *"),
		ExportDir:      getEnvOrDefault("FEEDBACK_EXPORT_DIR", "./exports"),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini")
	}
	if config.GatewayTimeout <= 0 {
		return errors.New("GATEWAY_TIMEOUT must be positive")
	}
	// Gemini validation is handled by gemini.NewConfig()
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
