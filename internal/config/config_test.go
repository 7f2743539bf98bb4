package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 3.0, cfg.ExportMaxScale)
	assert.Equal(t, 40_000_000, cfg.ExportMaxPixels)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, []string{"localhost:5173", "localhost:3000"}, cfg.OriginHosts())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ALLOWED_ORIGINS", " https://composer.example.com , ")
	t.Setenv("SESSION_IDLE_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, []string{"https://composer.example.com"}, cfg.Origins())
	assert.Equal(t, []string{"composer.example.com"}, cfg.OriginHosts())
	assert.Equal(t, 90*time.Second, cfg.SessionIdleTimeout)
}

func TestLevelFallback(t *testing.T) {
	cfg := Config{LogLevel: "loud"}
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := Load()
	assert.Error(t, err)
}
