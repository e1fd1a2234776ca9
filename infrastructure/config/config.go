package config

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap/zapcore"
)

// Config holds all library configuration
type Config struct {
	// Runtime environment
	Environment string

	// AWS configuration
	AWSRegion        string
	DynamoDBTable    string
	DynamoDBEndpoint string // optional endpoint override for local DynamoDB

	// Logging
	LogLevel string

	// Error reporting
	SentryDSN string

	// Observability
	MetricsNamespace string
	EnableTracing    bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		AWSRegion:        getEnv("AWS_REGION", "eu-west-1"),
		DynamoDBTable:    getEnv("DYNAMO_DB_TABLE", ""),
		DynamoDBEndpoint: getEnv("DYNAMO_DB_ENDPOINT", ""),
		LogLevel:         getEnv("LOGGING_LEVEL", "info"),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "ieutils"),
		EnableTracing:    getEnvBool("ENABLE_TRACING", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	var level zapcore.Level
	if err := level.Set(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOGGING_LEVEL %q: %w", c.LogLevel, err)
	}
	if c.Environment == "production" && c.DynamoDBTable == "" {
		return fmt.Errorf("DYNAMO_DB_TABLE is required in production")
	}
	return nil
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
