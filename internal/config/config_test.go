package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("STATIC_DIR", "")
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("AUTH_ENABLED", "")
	t.Setenv("GEMINI_TIMEOUT", "")

	cfg := Load()
	require.Equal(t, "8008", cfg.ServerPort)
	require.Equal(t, DriverJSON, cfg.StoreDriver)
	require.Equal(t, "static/uploads", cfg.UploadDir)
	require.False(t, cfg.AuthEnabled)
	require.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", DriverSQLite)
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("GEMINI_TIMEOUT", "5s")
	t.Setenv("STATIC_DIR", "/srv/static")
	t.Setenv("UPLOAD_DIR", "")

	cfg := Load()
	require.Equal(t, DriverSQLite, cfg.StoreDriver)
	require.True(t, cfg.AuthEnabled)
	require.Equal(t, 5*time.Second, cfg.Gemini.Timeout)
	require.Equal(t, "/srv/static/uploads", cfg.UploadDir)
}
