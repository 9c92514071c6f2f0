// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avand Res

package config

import "time"

const (
	defaultHTTPAddress    = "127.0.0.1:8080"
	defaultDBPath         = "counttrack.db"
	defaultSyncInterval   = 15 * time.Second
	defaultNetworkTimeout = 10 * time.Second
	defaultRequestTimeout = 30 * time.Second
)

// applyDefaults fills zero-valued fields with the built-in defaults so a
// bare installation starts without any configuration at all.
func (cfg *Config) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultHTTPAddress
	}
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = defaultDBPath
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = defaultSyncInterval
	}
	if cfg.Sync.NetworkTimeout == 0 {
		cfg.Sync.NetworkTimeout = defaultNetworkTimeout
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
}

// validate checks that the final merged [Config] satisfies all application
// invariants before it is used at startup.
func (cfg *Config) validate() error {
	if cfg.Storage.DBPath == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.Sync.Interval <= 0 || cfg.Sync.NetworkTimeout <= 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
