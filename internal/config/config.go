package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"hoodsync/internal/syncerr"
)

const (
	DefaultEndpoint   = "https://www.hood.de/api.htm"
	DefaultAPIVersion = "2.0"

	LookupBulk = "bulk"
	LookupItem = "item"
)

type Config struct {
	// Feed
	FeedURL       string
	FeedDelimiter rune
	FeedMaxRows   int
	TestCSV       string

	// Hood API
	AccountName  string
	Password     string
	PasswordHash string
	Endpoint     string
	APIVersion   string
	LookupMode   string
	HTTPTimeout  time.Duration

	// Run history
	DatabaseURL string

	// Kafka
	KafkaBrokers      string
	KafkaTopic        string
	KafkaRequestTopic string

	// API Configuration
	APIPort string
	APIHost string

	// Environment
	Env       string
	LogLevel  string
	LogFormat string
}

// Load reads the environment (and an optional .env file) once. The returned
// value is never mutated afterwards; components receive it by pointer.
func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	cfg := &Config{
		FeedURL:           getEnv("FEED_URL", ""),
		FeedDelimiter:     getEnvAsRune("FEED_DELIMITER", ','),
		FeedMaxRows:       getEnvAsInt("FEED_MAX_ROWS", 0),
		TestCSV:           os.Getenv("TEST_CSV"),
		AccountName:       getEnv("ACCOUNT_NAME", ""),
		Password:          getEnv("HOOD_PASSWORD", ""),
		PasswordHash:      getEnv("MD5_HASH", ""),
		Endpoint:          getEnv("HOOD_ENDPOINT", DefaultEndpoint),
		APIVersion:        getEnv("HOOD_API_VERSION", DefaultAPIVersion),
		LookupMode:        strings.ToLower(getEnv("LOOKUP_MODE", LookupBulk)),
		HTTPTimeout:       time.Duration(getEnvAsInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		KafkaBrokers:      getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "hood-sync-events"),
		KafkaRequestTopic: getEnv("KAFKA_REQUEST_TOPIC", "hood-sync-requests"),
		APIPort:           getEnv("API_PORT", "8080"),
		APIHost:           getEnv("API_HOST", "0.0.0.0"),
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
	}

	return cfg, nil
}

// Validate reports every missing required variable at once.
func (c *Config) Validate() error {
	var missing []string
	if c.FeedURL == "" && c.TestCSV == "" {
		missing = append(missing, "FEED_URL")
	}
	if c.AccountName == "" {
		missing = append(missing, "ACCOUNT_NAME")
	}
	if c.Password == "" && c.PasswordHash == "" {
		missing = append(missing, "HOOD_PASSWORD")
	}
	if len(missing) > 0 {
		return &syncerr.TransportError{
			Op: fmt.Sprintf("missing environment variables: %s", strings.Join(missing, ", ")),
		}
	}

	if c.LookupMode != LookupBulk && c.LookupMode != LookupItem {
		return &syncerr.TransportError{
			Op: fmt.Sprintf("invalid LOOKUP_MODE %q (want %q or %q)", c.LookupMode, LookupBulk, LookupItem),
		}
	}
	return nil
}

// TestMode reports whether the feed comes from TEST_CSV instead of the network.
func (c *Config) TestMode() bool {
	return c.TestCSV != ""
}

// Redacted returns a printable copy of the settings with secrets masked.
func (c *Config) Redacted() map[string]string {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	return map[string]string{
		"feed_url":     c.FeedURL,
		"account_name": c.AccountName,
		"password":     mask(c.Password),
		"md5_hash":     mask(c.PasswordHash),
		"endpoint":     c.Endpoint,
		"lookup_mode":  c.LookupMode,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsRune(key string, defaultValue rune) rune {
	value := os.Getenv(key)
	switch value {
	case "":
		return defaultValue
	case `\t`, "tab":
		return '\t'
	}
	for _, r := range value {
		return r
	}
	return defaultValue
}
