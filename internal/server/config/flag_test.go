package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-driver", "sqlite", "-d", "chat.db", "-s", "secret",
				"-ttl", "2h", "-hash", "sha256", "-w", "10", "-b", "16", "-m", ":9100", "-l", "debug",
			},
			expected: &Config{
				EndpointAddrGRPC:     "127.0.0.1:9090",
				DatabaseDriver:       "sqlite",
				DatabaseDSN:          "chat.db",
				SecretKey:            "secret",
				SessionTTL:           2 * time.Hour,
				PasswordScheme:       "sha256",
				MaxWorkers:           10,
				ConnectionBufferSize: 16,
				MetricsAddr:          ":9100",
				LogLevel:             "debug",
			},
		},
		{
			name:     "foreign flags ignored",
			args:     []string{"-c", "cfg.json", "-x", "1", "-a", ":1"},
			expected: &Config{EndpointAddrGRPC: ":1"},
		},
		{
			name:        "bad integer panics",
			args:        []string{"-w", "many"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
