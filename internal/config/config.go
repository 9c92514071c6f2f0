// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avand Res

package config

import (
	"time"
)

// Config is the top-level process configuration for a counttrack
// installation. It covers only process-local concerns: where the local
// database lives, where the HTTP boundary listens, and how the sync
// scheduler behaves. Remote connection settings are data, not process
// config — they live in the sync_settings table and are managed through
// the settings repository.
//
// Populated by merging environment variables, command-line flags and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type Config struct {
	// App holds application-level settings such as the version string.
	App App `envPrefix:"APP_"`

	// Storage holds the local embedded database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP
	// boundary consumed by the UI.
	Server Server `envPrefix:"SERVER_"`

	// Sync holds scheduler cadence and network timeout settings for the
	// sync engine.
	Sync Sync `envPrefix:"SYNC_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application
	// (e.g. "1.2.3"). Exposed via the /api/version endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage holds the local embedded database settings.
type Storage struct {
	// DBPath is the filesystem path of the local SQLite database file.
	// Env: STORAGE_DB_PATH
	DBPath string `env:"DB_PATH"`
}

// Server holds network and timeout settings for the inbound HTTP layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "127.0.0.1:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds cadence and timeout settings for the sync engine.
type Sync struct {
	// Interval is the periodic scheduler tick (e.g. "15s").
	// Env: SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// NetworkTimeout bounds every remote call made during a cycle.
	// A timeout is classified as a connectivity failure, not an error.
	// Env: SYNC_NETWORK_TIMEOUT
	NetworkTimeout time.Duration `env:"NETWORK_TIMEOUT"`
}

// GetConfig loads, merges, and validates the application configuration
// from all available sources in the following priority order (last source
// wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *Config or an error if any source fails to
// load or the final config fails validation.
func GetConfig() (*Config, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
