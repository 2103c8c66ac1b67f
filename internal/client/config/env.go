package config

import (
	"time"

	env "github.com/Netflix/go-env"
)

type EnvConfig struct {
	ServerEndpointAddr  *string        `env:"CHAT_SERVER_ADDRESS"`
	OnlineCheckInterval *time.Duration `env:"CHAT_ONLINE_CHECK_INTERVAL"`
	RequestTimeout      *time.Duration `env:"CHAT_REQUEST_TIMEOUT"`
	LogLevel            *string        `env:"CHAT_CLIENT_LOG_LEVEL"`
}

func parseEnv(cfg *Config) error {
	var e EnvConfig
	if _, err := env.UnmarshalFromEnviron(&e); err != nil {
		return err
	}

	if e.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *e.ServerEndpointAddr
	}
	if e.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = *e.OnlineCheckInterval
	}
	if e.RequestTimeout != nil {
		cfg.RequestTimeout = *e.RequestTimeout
	}
	if e.LogLevel != nil {
		cfg.LogLevel = *e.LogLevel
	}
	return nil
}
