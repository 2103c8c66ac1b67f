package config

import (
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// EnvConfig lists the CHAT_* variables understood by the server. Unset
// variables leave the corresponding field alone.
type EnvConfig struct {
	EndpointAddrGRPC     *string        `env:"CHAT_ADDRESS"`
	DatabaseDriver       *string        `env:"CHAT_DATABASE_DRIVER"`
	DatabaseDSN          *string        `env:"CHAT_DATABASE_DSN"`
	SecretKey            *string        `env:"CHAT_SECRET_KEY"`
	SessionTTL           *time.Duration `env:"CHAT_SESSION_TTL"`
	PasswordScheme       *string        `env:"CHAT_PASSWORD_SCHEME"`
	MaxWorkers           *int           `env:"CHAT_MAX_WORKERS"`
	ConnectionBufferSize *int           `env:"CHAT_CONNECTION_BUFFER_SIZE"`
	MetricsAddr          *string        `env:"CHAT_METRICS_ADDR"`
	LogLevel             *string        `env:"CHAT_LOG_LEVEL"`
}

// loadDotEnv is a seam; a missing .env file is not an error.
var loadDotEnv = func() { _ = godotenv.Load() }

func parseEnv(config *Config) error {
	loadDotEnv()

	var e EnvConfig
	if _, err := env.UnmarshalFromEnviron(&e); err != nil {
		return err
	}

	setIf(&config.EndpointAddrGRPC, e.EndpointAddrGRPC)
	setIf(&config.DatabaseDriver, e.DatabaseDriver)
	setIf(&config.DatabaseDSN, e.DatabaseDSN)
	setIf(&config.SecretKey, e.SecretKey)
	setIf(&config.SessionTTL, e.SessionTTL)
	setIf(&config.PasswordScheme, e.PasswordScheme)
	setIf(&config.MaxWorkers, e.MaxWorkers)
	setIf(&config.ConnectionBufferSize, e.ConnectionBufferSize)
	setIf(&config.MetricsAddr, e.MetricsAddr)
	setIf(&config.LogLevel, e.LogLevel)
	return nil
}
