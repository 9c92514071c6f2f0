package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d local database file path
//	-c/-config json file path with configs
//	-sync-interval scheduler tick interval (e.g., "15s")
//	-network-timeout remote call timeout (e.g., "10s")
//	-request-timeout inbound request timeout (e.g., "30s")
func ParseFlags() *Config {
	var serverAddress string
	var dbPath string
	var jsonConfigPath string
	var syncInterval time.Duration
	var networkTimeout time.Duration
	var requestTimeout time.Duration

	flag.StringVar(&serverAddress, "a", "", "Net address host:port")
	flag.StringVar(&dbPath, "d", "", "Local database file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Sync scheduler interval (e.g., 15s)")
	flag.DurationVar(&networkTimeout, "network-timeout", 0, "Remote call timeout (e.g., 10s)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Inbound request timeout (e.g., 30s)")

	flag.Parse()

	return &Config{
		Storage: Storage{
			DBPath: dbPath,
		},
		Server: Server{
			HTTPAddress:    serverAddress,
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			Interval:       syncInterval,
			NetworkTimeout: networkTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}
}
