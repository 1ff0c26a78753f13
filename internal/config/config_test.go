package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("APP_TIMEZONE", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "staff-registry", cfg.App.Name)
	require.Equal(t, "Australia/Melbourne", cfg.App.Timezone)
	require.Equal(t, "json", cfg.Logger.Format)
	require.Equal(t, "migrations", cfg.Postgres.MigrationsDir)
	require.Empty(t, cfg.Postgres.DSN)
	require.Equal(t, 5*time.Minute, cfg.Redis.ReferenceCacheTTL())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LOG_FORMAT", "Console")
	t.Setenv("ADMIN_API_KEY", "k")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "nope")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	require.Equal(t, "console", cfg.Logger.Format)
	require.Equal(t, "k", cfg.Admin.APIKey)
	require.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "x")
	_, err := Load()
	require.Error(t, err)
}

func TestAppConfig_LocationFallsBackToUTC(t *testing.T) {
	require.Equal(t, time.UTC, AppConfig{}.Location())
	require.Equal(t, time.UTC, AppConfig{Timezone: "Mars/Olympus"}.Location())
}
