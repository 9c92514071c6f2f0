package adapter

import (
	"context"
	"time"

	"github.com/avandres/counttrack/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/gateway_mock.go -package=mock

// RemoteGateway performs authenticated reads and writes against the remote
// store. Every method takes the current SyncConfig so the orchestrator's
// per-cycle config re-read reaches the wire: the gateway itself caches
// nothing about the remote.
//
// The remote applies pushed records with last-write-wins semantics keyed
// by (table, record id): an incoming record only replaces the stored one
// when its (updated_at, origin) pair orders after it. That makes Push both
// idempotent (re-sending is a no-op) and convergent (two instances pushing
// concurrently end with the same remote state regardless of order).
type RemoteGateway interface {
	// TestConnection attempts a lightweight authenticated round trip and
	// never mutates anything. The message is human-readable and includes
	// what the credential inspection learned about the restricted key.
	TestConnection(ctx context.Context, cfg models.SyncConfig) (bool, string, error)

	// VerifySchema compares the remote table shape against the synced
	// table registry and creates whatever is missing. Idempotent; never
	// drops or alters existing data.
	VerifySchema(ctx context.Context, cfg models.SyncConfig) (bool, string, error)

	// Push applies records remotely as upserts keyed by (table, record id),
	// tombstoning deletes. Returns the number of accepted records.
	Push(ctx context.Context, cfg models.SyncConfig, records []models.ChangeRecord) (int, error)

	// Pull returns remote changes with updated_at > since whose origin is
	// not this instance, ordered by updated_at ascending so the caller can
	// advance its watermark monotonically even if interrupted partway.
	Pull(ctx context.Context, cfg models.SyncConfig, since time.Time) ([]models.ChangeRecord, error)
}
