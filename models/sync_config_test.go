package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSyncConfig_IsConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  SyncConfig
		want bool
	}{
		{
			name: "complete connection settings",
			cfg: SyncConfig{
				RemoteEndpoint: "https://cloud.counttrack.example",
				RestrictedKey:  "rk",
				DatabaseDSN:    "postgres://u:p@host/db",
			},
			want: true,
		},
		{
			name: "disabled but configured",
			cfg: SyncConfig{
				Enabled:        false,
				RemoteEndpoint: "https://cloud.counttrack.example",
				RestrictedKey:  "rk",
				DatabaseDSN:    "postgres://u:p@host/db",
			},
			want: true,
		},
		{name: "empty", cfg: SyncConfig{}, want: false},
		{
			name: "missing key",
			cfg:  SyncConfig{RemoteEndpoint: "https://x", DatabaseDSN: "postgres://u:p@host/db"},
			want: false,
		},
		{
			name: "missing dsn",
			cfg:  SyncConfig{RemoteEndpoint: "https://x", RestrictedKey: "rk"},
			want: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, test.cfg.IsConfigured())
		})
	}
}

func TestSyncConfig_Redacted(t *testing.T) {
	lastSync := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	cfg := SyncConfig{
		Enabled:        true,
		RemoteEndpoint: "https://cloud.counttrack.example",
		RestrictedKey:  "restricted-secret",
		ElevatedKey:    "elevated-secret",
		DatabaseDSN:    "postgres://u:p@host/db",
		InstanceID:     "instance-aaa",
		LastSyncAt:     &lastSync,
	}

	redacted := cfg.Redacted()

	assert.NotContains(t, redacted.RestrictedKey, "secret")
	assert.NotContains(t, redacted.ElevatedKey, "secret")
	assert.NotContains(t, redacted.DatabaseDSN, "postgres")
	// Non-secret fields pass through untouched.
	assert.Equal(t, cfg.RemoteEndpoint, redacted.RemoteEndpoint)
	assert.Equal(t, cfg.InstanceID, redacted.InstanceID)
	assert.Equal(t, cfg.LastSyncAt, redacted.LastSyncAt)
	// Empty secrets stay empty instead of masking to dots.
	assert.Empty(t, SyncConfig{}.Redacted().RestrictedKey)
}

func TestChangeRecord_Tombstone(t *testing.T) {
	assert.True(t, ChangeRecord{Deleted: true}.Tombstone())
	assert.True(t, ChangeRecord{Op: OpDelete}.Tombstone())
	assert.False(t, ChangeRecord{Op: OpUpdate}.Tombstone())
}

func TestValidInitialSyncMode(t *testing.T) {
	assert.True(t, ValidInitialSyncMode(InitialPush))
	assert.True(t, ValidInitialSyncMode(InitialPull))
	assert.True(t, ValidInitialSyncMode(InitialMerge))
	assert.False(t, ValidInitialSyncMode(""))
	assert.False(t, ValidInitialSyncMode("sideways"))
}
