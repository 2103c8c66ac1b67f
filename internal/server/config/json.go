package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophchat/internal/flagx"
	"github.com/dmitrijs2005/gophchat/internal/timex"
)

// ConfigFileEnv names the config file when no -c/-config flag is given.
const ConfigFileEnv = "CHAT_CONFIG"

// JsonConfig mirrors Config for JSON files. Pointer fields distinguish
// "absent" from zero values, so a file only overrides what it mentions.
type JsonConfig struct {
	EndpointAddrGRPC     *string         `json:"endpoint_addr_grpc"`
	DatabaseDriver       *string         `json:"database_driver"`
	DatabaseDSN          *string         `json:"database_dsn"`
	SecretKey            *string         `json:"secret_key"`
	SessionTTL           *timex.Duration `json:"session_ttl"`
	PasswordScheme       *string         `json:"password_scheme"`
	MaxWorkers           *int            `json:"max_workers"`
	ConnectionBufferSize *int            `json:"connection_buffer_size"`
	MetricsAddr          *string         `json:"metrics_addr"`
	LogLevel             *string         `json:"log_level"`
}

// parseJson overlays the JSON file named by -c/-config (or CHAT_CONFIG).
// Nothing happens when no file is named; unreadable or invalid files panic.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args, ConfigFileEnv)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.DatabaseDriver, c.DatabaseDriver)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	setIf(&config.PasswordScheme, c.PasswordScheme)
	setIf(&config.MaxWorkers, c.MaxWorkers)
	setIf(&config.ConnectionBufferSize, c.ConnectionBufferSize)
	setIf(&config.MetricsAddr, c.MetricsAddr)
	setIf(&config.LogLevel, c.LogLevel)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
