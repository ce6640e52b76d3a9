package config

import (
	"os"
	"strconv"
	"strings"

	"gostat/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
	Batch    BatchConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// AnalysisConfig holds the defaults applied to every execution request
type AnalysisConfig struct {
	DefaultAlpha  float64
	DefaultLocale string
	MaxRows       int
}

// BatchConfig bounds concurrent batch execution
type BatchConfig struct {
	Concurrency int
}

// Load reads .env (when present) and the environment, then validates
func Load() (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only
func FromEnv() (*Config, error) {
	alpha, err := getEnvFloatOrDefault("DEFAULT_ALPHA", 0.05)
	if err != nil {
		return nil, err
	}
	concurrency, err := getEnvIntOrDefault("BATCH_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	maxRows, err := getEnvIntOrDefault("MAX_ROWS", 100000)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Analysis: AnalysisConfig{
			DefaultAlpha:  alpha,
			DefaultLocale: getEnvOrDefault("DEFAULT_LOCALE", "en"),
			MaxRows:       maxRows,
		},
		Batch:    BatchConfig{Concurrency: concurrency},
		LogLevel: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", GinMode: "release"},
		Analysis: AnalysisConfig{DefaultAlpha: 0.05, DefaultLocale: "en", MaxRows: 100000},
		Batch:    BatchConfig{Concurrency: 4},
		LogLevel: "INFO",
	}
}

func validateConfig(config *Config) error {
	if config.Analysis.DefaultAlpha <= 0 || config.Analysis.DefaultAlpha >= 1 {
		return errors.ConfigInvalid("DEFAULT_ALPHA must be between 0 and 1")
	}
	if config.Batch.Concurrency < 1 {
		return errors.ConfigInvalid("BATCH_CONCURRENCY must be at least 1")
	}
	if config.Analysis.MaxRows < 1 {
		return errors.ConfigInvalid("MAX_ROWS must be at least 1")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer")
	}
	return intValue, nil
}

func getEnvFloatOrDefault(key string, defaultValue float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a number")
	}
	return floatValue, nil
}
