// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	ServerPort    string
	GinMode       string
	LogLevel      string
	MongoURI      string
	MongoDatabase string
	RedisURI      string

	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool

	NotificationWorkers   int
	NotificationQueueSize int
	SchedulerInterval     time.Duration
	DueSoonInterval       time.Duration
	DueSoonWindow         time.Duration
	RateLimitPerMinute    int
}

// Load reads configuration from a .env file and the environment. Every
// missing or malformed key is reported in the returned error.
func Load() (*Config, error) {
	// A missing .env file is fine, the variables may be set directly.
	_ = godotenv.Load()

	var errs []error
	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		MongoURI:      getEnvRequired("MONGO_URI", &errs),
		MongoDatabase: getEnvRequired("MONGO_DATABASE", &errs),
		RedisURI:      getEnv("REDIS_URI", "localhost:6379"),

		AccessTokenSecret:  getEnvRequired("ACCESS_TOKEN_SECRET", &errs),
		AccessTokenExpiry:  parseDuration("ACCESS_TOKEN_EXPIRY", "15m", &errs),
		RefreshTokenExpiry: parseDuration("REFRESH_TOKEN_EXPIRY", "168h", &errs),

		S3Endpoint:  getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("S3_BUCKET", "teamwork-attachments"),
		S3UseSSL:    parseBool("S3_USE_SSL", false, &errs),

		NotificationWorkers:   parseInt("NOTIFICATION_WORKERS", 2, &errs),
		NotificationQueueSize: parseInt("NOTIFICATION_QUEUE_SIZE", 1000, &errs),
		SchedulerInterval:     parseDuration("SCHEDULER_INTERVAL", "5s", &errs),
		DueSoonInterval:       parseDuration("DUE_SOON_INTERVAL", "1m", &errs),
		DueSoonWindow:         parseDuration("DUE_SOON_WINDOW", "24h", &errs),
		RateLimitPerMinute:    parseInt("RATE_LIMIT_PER_MINUTE", 10, &errs),
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getEnv reads an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvRequired reads an environment variable and records an error if it is unset
func getEnvRequired(key string, errs *[]error) string {
	value := os.Getenv(key)
	if value == "" {
		*errs = append(*errs, fmt.Errorf("required environment variable %s is not set", key))
	}
	return value
}

func parseDuration(key, defaultValue string, errs *[]error) time.Duration {
	raw := getEnv(key, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		return 0
	}
	return d
}

func parseInt(key string, defaultValue int, errs *[]error) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		*errs = append(*errs, fmt.Errorf("%s: expected a positive integer, got %q", key, raw))
		return defaultValue
	}
	return n
}

func parseBool(key string, defaultValue bool, errs *[]error) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: expected a boolean, got %q", key, raw))
		return defaultValue
	}
	return b
}
