// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avand Res

package models

import "time"

// SyncConfig holds everything one installation needs to participate in a
// sync group: the remote endpoint, the tiered credentials, the direct
// database connection string used for schema repair, and the identity of
// this installation.
//
// The struct is owned by the settings repository; every other component
// receives a value copy and must re-read it instead of caching it across
// sync cycles.
type SyncConfig struct {
	// Enabled turns the whole sync engine on or off. Default is off.
	Enabled bool `json:"enabled"`

	// RemoteEndpoint is the base URL of the remote data store's REST API,
	// e.g. "https://cloud.counttrack.io/acme".
	RemoteEndpoint string `json:"remote_endpoint"`

	// RestrictedKey authenticates data-plane calls (push, pull, ping).
	// It cannot modify the remote schema.
	RestrictedKey string `json:"restricted_key"`

	// ElevatedKey authenticates administrative calls. Reserved for remote
	// operations that the restricted key is not allowed to perform.
	ElevatedKey string `json:"elevated_key"`

	// DatabaseDSN is the direct PostgreSQL connection string for the remote
	// store, used only by schema verification and repair.
	DatabaseDSN string `json:"database_dsn"`

	// InstanceID identifies this installation. Generated exactly once when
	// the settings row is first created and never changed or reused.
	InstanceID string `json:"instance_id"`

	// LastSyncAt is the watermark between already-synced and not-yet-synced
	// changes. Nil until the first fully successful cycle.
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
}

// IsConfigured reports whether the connection settings required to reach
// the remote store are all present. Enabled is deliberately not part of
// the check: a configured installation may have sync switched off.
func (c SyncConfig) IsConfigured() bool {
	return c.RemoteEndpoint != "" && c.RestrictedKey != "" && c.DatabaseDSN != ""
}

// Redacted returns a display copy of the config with every secret masked.
// Internal components must use the unredacted value; masking happens only
// at the display boundary.
func (c SyncConfig) Redacted() SyncConfig {
	out := c
	out.RestrictedKey = maskSecret(c.RestrictedKey)
	out.ElevatedKey = maskSecret(c.ElevatedKey)
	out.DatabaseDSN = maskSecret(c.DatabaseDSN)
	return out
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "••••••••"
}

// SyncConfigUpdate is a partial update of SyncConfig. Nil fields are left
// untouched; non-nil fields replace the stored value in a single
// all-or-nothing write.
type SyncConfigUpdate struct {
	Enabled        *bool      `json:"enabled,omitempty"`
	RemoteEndpoint *string    `json:"remote_endpoint,omitempty"`
	RestrictedKey  *string    `json:"restricted_key,omitempty"`
	ElevatedKey    *string    `json:"elevated_key,omitempty"`
	DatabaseDSN    *string    `json:"database_dsn,omitempty"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty"`
}

// PortableConfig is the subset of SyncConfig that travels inside an
// exported configuration string. Identity and watermark stay behind:
// the importing installation generates its own.
type PortableConfig struct {
	RemoteEndpoint string `json:"remote_endpoint"`
	RestrictedKey  string `json:"restricted_key"`
	ElevatedKey    string `json:"elevated_key"`
	DatabaseDSN    string `json:"database_dsn"`
}

// Portable extracts the shareable subset of the config.
func (c SyncConfig) Portable() PortableConfig {
	return PortableConfig{
		RemoteEndpoint: c.RemoteEndpoint,
		RestrictedKey:  c.RestrictedKey,
		ElevatedKey:    c.ElevatedKey,
		DatabaseDSN:    c.DatabaseDSN,
	}
}
