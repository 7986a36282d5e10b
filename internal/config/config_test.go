package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("MOONBASE_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Moonbase API", cfg.AppName)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, "postgres", cfg.DatabaseDriver)
	require.Equal(t, "access_token", cfg.JWTCookieName)
	require.Equal(t, time.Hour, cfg.JWTTTL)
	require.Equal(t, 5*time.Minute, cfg.ClassroomCacheTTL)
	require.Equal(t, 10, cfg.LoginRateLimit)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("MOONBASE_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("MOONBASE_JWT_SECRET", "secret")
	t.Setenv("MOONBASE_DATABASE_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadParsesDurations(t *testing.T) {
	t.Setenv("MOONBASE_JWT_SECRET", "secret")
	t.Setenv("MOONBASE_JWT_TTL", "30m")
	t.Setenv("MOONBASE_APP_PORT", ":9090")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, cfg.JWTTTL)
	require.Equal(t, ":9090", cfg.HTTPAddress())
}
