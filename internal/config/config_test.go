package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoodsync/internal/syncerr"
)

var configEnv = []string{
	"FEED_URL", "FEED_DELIMITER", "FEED_MAX_ROWS", "TEST_CSV", "ACCOUNT_NAME",
	"HOOD_PASSWORD", "MD5_HASH", "HOOD_ENDPOINT", "HOOD_API_VERSION", "LOOKUP_MODE",
	"HTTP_TIMEOUT_SECONDS", "DATABASE_URL", "KAFKA_BROKERS", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
	assert.Equal(t, ',', cfg.FeedDelimiter)
	assert.Equal(t, 0, cfg.FeedMaxRows)
	assert.Equal(t, LookupBulk, cfg.LookupMode)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "hood-sync-events", cfg.KafkaTopic)
	assert.False(t, cfg.TestMode())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FEED_URL", "https://shop.test/feed.csv")
	t.Setenv("FEED_DELIMITER", ";")
	t.Setenv("FEED_MAX_ROWS", "5")
	t.Setenv("ACCOUNT_NAME", "TaschenParadies")
	t.Setenv("HOOD_PASSWORD", "secret")
	t.Setenv("HOOD_ENDPOINT", "https://hood.test/api.htm")
	t.Setenv("LOOKUP_MODE", "ITEM")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ';', cfg.FeedDelimiter)
	assert.Equal(t, 5, cfg.FeedMaxRows)
	assert.Equal(t, "https://hood.test/api.htm", cfg.Endpoint)
	assert.Equal(t, LookupItem, cfg.LookupMode)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestValidateReportsAllMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, syncerr.IsTransport(err))
	assert.Contains(t, err.Error(), "FEED_URL")
	assert.Contains(t, err.Error(), "ACCOUNT_NAME")
	assert.Contains(t, err.Error(), "HOOD_PASSWORD")
}

func TestValidateTestModeAndHash(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_CSV", "mpnr,name,price\n1,A,1.00")
	t.Setenv("ACCOUNT_NAME", "acc")
	t.Setenv("MD5_HASH", "5ebe2294ecd0e0f08eab7690d2a6ee69")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.TestMode())
}

func TestValidateLookupMode(t *testing.T) {
	cfg := &Config{FeedURL: "x", AccountName: "a", Password: "p", LookupMode: "sometimes"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOOKUP_MODE")
}

func TestRedacted(t *testing.T) {
	cfg := &Config{AccountName: "acc", Password: "secret", Endpoint: DefaultEndpoint}
	r := cfg.Redacted()
	assert.Equal(t, "***", r["password"])
	assert.Equal(t, "", r["md5_hash"])
	assert.Equal(t, "acc", r["account_name"])
}

func TestGetEnvAsRune(t *testing.T) {
	t.Setenv("TEST_RUNE", `\t`)
	assert.Equal(t, '\t', getEnvAsRune("TEST_RUNE", ','))

	t.Setenv("TEST_RUNE", "|")
	assert.Equal(t, '|', getEnvAsRune("TEST_RUNE", ','))

	t.Setenv("TEST_RUNE", "")
	assert.Equal(t, ',', getEnvAsRune("TEST_RUNE", ','))
}
