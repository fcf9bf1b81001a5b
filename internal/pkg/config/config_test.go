package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"API_PORT", "DATABASE_URL", "SUPABASE_DB_URL", "GITHUB_TOKEN", "PRODUCTHUNT_TOKEN",
		"WEBSITE_PROBE_ENABLED", "SIGNAL_CACHE_TTL", "SIGNAL_REFRESH_CRON", "CATALOG_PATH",
		"GITHUB_RATE_PER_MINUTE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Server.Port)
	assert.False(t, cfg.Database.Enabled())
	assert.Empty(t, cfg.GitHub.Token)
	assert.Equal(t, 60, cfg.GitHub.RatePerMinute)
	assert.False(t, cfg.Website.ProbeEnabled)
	assert.Equal(t, 5*time.Minute, cfg.Signals.CacheTTL)
	assert.Empty(t, cfg.Signals.RefreshCron)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SUPABASE_DB_URL", "postgres://u:p@db:5432/mvp90")
	t.Setenv("WEBSITE_PROBE_ENABLED", "true")
	t.Setenv("GITHUB_RATE_PER_MINUTE", "30")
	t.Setenv("SIGNAL_CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "postgres://u:p@db:5432/mvp90", cfg.Database.URL)
	assert.True(t, cfg.Website.ProbeEnabled)
	assert.Equal(t, 30, cfg.GitHub.RatePerMinute)
	assert.Equal(t, 90*time.Second, cfg.Signals.CacheTTL)
}

func TestLoad_InvalidTTL(t *testing.T) {
	t.Setenv("SIGNAL_CACHE_TTL", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("MVP90_TEST_INT", "not-a-number")
	t.Setenv("MVP90_TEST_BOOL", "yes-ish")

	assert.Equal(t, 7, getEnvInt("MVP90_TEST_INT", 7))
	assert.True(t, getEnvBool("MVP90_TEST_BOOL", true))
	assert.Equal(t, "x", getEnv("MVP90_TEST_MISSING", "x"))
}
