package store

import (
	"context"
	"time"

	"github.com/avandres/counttrack/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// SettingsRepository owns the single-row sync_settings table. It is the
// only component allowed to mutate the persisted SyncConfig.
type SettingsRepository interface {
	// Get returns the stored configuration, creating the default row (with
	// a freshly generated instance id) on first access.
	Get(ctx context.Context) (models.SyncConfig, error)

	// Update merges the non-nil fields of upd into the stored row in a
	// single all-or-nothing write and returns the merged result.
	Update(ctx context.Context, upd models.SyncConfigUpdate) (models.SyncConfig, error)
}

// ChangelogRepository derives local changes from the audit trail appended
// by the CRUD layer.
type ChangelogRepository interface {
	// CollectSince returns one ChangeRecord per logical row mutated after
	// since by the given origin, collapsed to the latest row state and
	// ordered by mutation time ascending.
	CollectSince(ctx context.Context, since time.Time, origin string) ([]models.ChangeRecord, error)

	// PendingCount is len(CollectSince) computed without loading row
	// payloads; cheap enough to poll every few seconds.
	PendingCount(ctx context.Context, since time.Time, origin string) (int, error)
}

// RecordRepository reads and writes the synced record tables. Apply is the
// sync engine's only write path into local data.
type RecordRepository interface {
	// Get returns the current local state of a row as a ChangeRecord.
	// The boolean is false when the row has never existed locally.
	Get(ctx context.Context, table, recordID string) (models.ChangeRecord, bool, error)

	// Apply upserts one pulled record (or its tombstone) inside a single
	// transaction together with its audit trail entry, so readers never
	// observe a half-applied change.
	Apply(ctx context.Context, rec models.ChangeRecord) error

	// ListAll returns the full local data set, tombstones included, for
	// initial bulk sync.
	ListAll(ctx context.Context) ([]models.ChangeRecord, error)

	// ReplaceAll atomically replaces the whole local data set with recs.
	// Used exactly once, by initial sync in pull mode.
	ReplaceAll(ctx context.Context, recs []models.ChangeRecord) error
}
