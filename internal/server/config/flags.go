package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophchat/internal/flagx"
)

// parseFlags overlays command-line flags.
//
//	-a string   gRPC bind address (e.g. "localhost:50051")
//	-driver     database driver: pgx or sqlite
//	-d string   database DSN
//	-s string   session token secret
//	-ttl        session lifetime (Go duration, 0 = until revoked)
//	-hash       password scheme: argon2id or sha256
//	-w int      worker pool size
//	-b int      per-subscription event buffer
//	-m string   metrics listen address
//	-l string   log level
//
// Only these flags are parsed, see flagx.FilterArgs.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-driver", "-d", "-s", "-ttl", "-hash", "-w", "-b", "-m", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "driver", config.DatabaseDriver, "database driver (pgx or sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.SessionTTL, "ttl", config.SessionTTL, "session lifetime, 0 keeps sessions until logout")
	fs.StringVar(&config.PasswordScheme, "hash", config.PasswordScheme, "password scheme (argon2id or sha256)")
	fs.IntVar(&config.MaxWorkers, "w", config.MaxWorkers, "worker pool size")
	fs.IntVar(&config.ConnectionBufferSize, "b", config.ConnectionBufferSize, "per-connection event buffer")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "metrics listen address")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
