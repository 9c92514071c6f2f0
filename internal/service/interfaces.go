package service

import (
	"context"
	"time"

	"github.com/avandres/counttrack/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// Orchestrator drives sync cycles and owns the externally observable sync
// state. It is the only component allowed to mutate sync state or the
// watermark.
type Orchestrator interface {
	// RunCycle performs one push → pull → reconcile cycle. Returns
	// ErrSyncBusy when a cycle is already in flight, ErrSyncDisabled when
	// sync is switched off, and ErrNotConfigured when connection settings
	// are missing.
	RunCycle(ctx context.Context) (models.SyncSummary, error)

	// InitialSync performs the one-time bulk sync used when an
	// installation first connects to a previously populated remote.
	InitialSync(ctx context.Context, mode models.InitialSyncMode) (models.SyncSummary, error)

	// State returns the current sync state without blocking a running
	// cycle.
	State() models.SyncState

	// LastError describes the failure behind an offline or error state.
	// Empty otherwise.
	LastError() string

	// RefreshState recomputes the resting state after a configuration
	// change (e.g. disabled ↔ idle). A running cycle is left alone.
	RefreshState(ctx context.Context)

	// Shutdown prevents new cycles from starting. A cycle already in
	// flight finishes or fails naturally.
	Shutdown()
}

// Resolver decides, per record, whether the remote or the local version
// of a row wins. Implementations must be deterministic: two instances
// resolving the same pair independently must pick the same winner.
type Resolver interface {
	RemoteWins(local, remote models.ChangeRecord) bool
}

// ConfigService manages the persisted sync configuration and its portable
// export/import form.
type ConfigService interface {
	// Get returns the configuration with real secrets, for internal use.
	Get(ctx context.Context) (models.SyncConfig, error)

	// GetRedacted returns the configuration with secrets masked, for
	// display.
	GetRedacted(ctx context.Context) (models.SyncConfig, error)

	// Update merges a partial update into the stored configuration and
	// recomputes the orchestrator's resting state.
	Update(ctx context.Context, upd models.SyncConfigUpdate) (models.SyncConfig, error)

	// Export encodes the shareable subset of the configuration into a
	// single opaque string starting with the portable prefix.
	Export(ctx context.Context) (string, error)

	// Import decodes a portable string produced by Export on another
	// installation and applies it to the local configuration. Fails with
	// ErrMalformedConfig, ErrUnsupportedVersion or ErrDecodeFailure
	// without mutating anything.
	Import(ctx context.Context, portable string) (models.SyncConfig, error)
}

// RemoteService exposes the remote diagnostics used by the settings UI:
// connection testing and schema verification. Both read the stored
// configuration at call time.
type RemoteService interface {
	// TestConnection performs a lightweight authenticated round trip.
	// The message is human-readable; ok reports whether the remote
	// answered and accepted the restricted key.
	TestConnection(ctx context.Context) (bool, string, error)

	// VerifySchema checks the remote table shape and creates whatever is
	// missing. Never drops or alters existing data.
	VerifySchema(ctx context.Context) (bool, string, error)
}

// SyncJob runs sync cycles on a fixed interval in the background.
type SyncJob interface {
	// Start launches the ticker goroutine. A prior run is stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop cancels the ticker goroutine and blocks until it has exited.
	// Safe to call when the job is not running.
	Stop()
}

// StatusService projects engine state for the UI.
type StatusService interface {
	// Snapshot returns the current status. Never blocks on a running
	// cycle; the pending count is a live query, not a cached value.
	Snapshot(ctx context.Context) (models.StatusSnapshot, error)
}

// AppInfoService exposes build information.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
