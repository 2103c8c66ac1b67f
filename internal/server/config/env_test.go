package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubDotEnv(t *testing.T) {
	t.Helper()
	orig := loadDotEnv
	loadDotEnv = func() {}
	t.Cleanup(func() { loadDotEnv = orig })
}

func Test_parseEnv(t *testing.T) {
	stubDotEnv(t)

	t.Setenv("CHAT_ADDRESS", ":6000")
	t.Setenv("CHAT_DATABASE_DRIVER", "sqlite")
	t.Setenv("CHAT_SESSION_TTL", "90m")
	t.Setenv("CHAT_CONNECTION_BUFFER_SIZE", "3")
	t.Setenv("CHAT_LOG_LEVEL", "warn")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, ":6000", cfg.EndpointAddrGRPC)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.ConnectionBufferSize)
	assert.Equal(t, "warn", cfg.LogLevel)

	assert.Equal(t, "secretKey", cfg.SecretKey, "unset variables keep their value")
	assert.Equal(t, 64, cfg.MaxWorkers)
}

func Test_parseEnv_BadValue(t *testing.T) {
	stubDotEnv(t)
	t.Setenv("CHAT_MAX_WORKERS", "lots")

	require.Error(t, parseEnv(&Config{}))
}
