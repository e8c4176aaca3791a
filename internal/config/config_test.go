package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://brasilapi.com.br/api", cfg.BrasilAPI.BaseURL)
	assert.Equal(t, 15, cfg.BrasilAPI.TimeoutSecs)
	assert.Equal(t, 3.0, cfg.BrasilAPI.RatePerSec)

	assert.Equal(t, "https://open.cnpja.com", cfg.CNPJA.BaseURL)
	assert.Equal(t, 2, cfg.CNPJA.MaxRetries)
	assert.Equal(t, 2, cfg.CNPJA.RetryBaseSecs)

	assert.Equal(t, 60, cfg.Cache.TTLMinutes)

	assert.False(t, cfg.Breaker.Enabled)
	assert.Equal(t, 5, cfg.Breaker.FailureThreshold)
	assert.Equal(t, 30, cfg.Breaker.ResetTimeoutSecs)

	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "consulta-cnpj.db", cfg.History.Path)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CONSULTA_SERVER_PORT", "9090")
	t.Setenv("CONSULTA_CNPJA_MAX_RETRIES", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.CNPJA.MaxRetries)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nonsense", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
