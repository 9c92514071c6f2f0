package models

import "time"

// SyncState is the orchestrator's externally observable state. Exactly one
// value is live at a time; no other value is ever observable.
type SyncState string

const (
	// StateDisabled — sync is switched off. Initial default.
	StateDisabled SyncState = "disabled"

	// StateIdle — configured and enabled, no cycle running.
	StateIdle SyncState = "idle"

	// StateSyncing — a cycle is in progress.
	StateSyncing SyncState = "syncing"

	// StateOffline — the last attempt failed on connectivity (timeout,
	// DNS, connection refused). Retried automatically on the next tick.
	StateOffline SyncState = "offline"

	// StateError — the last attempt failed on a non-transient cause
	// (auth rejection, schema mismatch, local apply failure). Requires
	// user action; not retried at increasing frequency.
	StateError SyncState = "error"
)

// StatusSnapshot is a read-only projection of the engine's state computed
// on demand for the UI. PendingCount is a live re-query, never a cached
// counter, so it cannot drift from actual unsynced state.
type StatusSnapshot struct {
	Enabled      bool       `json:"enabled"`
	State        SyncState  `json:"state"`
	InstanceID   string     `json:"instance_id"`
	LastSyncAt   *time.Time `json:"last_sync_at,omitempty"`
	PendingCount int        `json:"pending_count"`
	LastError    string     `json:"last_error,omitempty"`
}

// SyncSummary is the result of one completed sync cycle or initial sync.
type SyncSummary struct {
	Pushed int `json:"pushed"`
	Pulled int `json:"pulled"`
}

// InitialSyncMode selects how a fresh installation joins a previously
// populated remote.
type InitialSyncMode string

const (
	// InitialPush sends the full local data set, ignoring the remote.
	InitialPush InitialSyncMode = "push"

	// InitialPull overwrites local data with the full remote data set.
	InitialPull InitialSyncMode = "pull"

	// InitialMerge reconciles the full table set in both directions.
	InitialMerge InitialSyncMode = "merge"
)

// ValidInitialSyncMode reports whether mode is one of push, pull or merge.
func ValidInitialSyncMode(mode InitialSyncMode) bool {
	switch mode {
	case InitialPush, InitialPull, InitialMerge:
		return true
	}
	return false
}
