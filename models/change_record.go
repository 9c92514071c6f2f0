package models

import (
	"encoding/json"
	"time"
)

// Operation is the kind of mutation a ChangeRecord carries.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// ChangeRecord is one logical row mutation exchanged between instances.
// Multiple edits to the same row between syncs collapse into a single
// record carrying the latest state; a deletion travels as a tombstone
// (empty payload) rather than a hard delete.
type ChangeRecord struct {
	// Table names the synced table the row belongs to.
	Table string `json:"table"`

	// RecordID is the row's primary key. (Table, RecordID) is the upsert
	// key on both sides of the wire.
	RecordID string `json:"record_id"`

	// Op resolves to delete when the row no longer exists, otherwise
	// create or update.
	Op Operation `json:"op"`

	// Payload is the full row snapshot for create/update and empty for
	// delete.
	Payload json.RawMessage `json:"payload,omitempty"`

	// UpdatedAt is the row's last mutation time. Conflict resolution and
	// the pull watermark are both driven by this value.
	UpdatedAt time.Time `json:"updated_at"`

	// Origin is the InstanceID of the installation that produced the
	// mutation.
	Origin string `json:"origin"`

	// Deleted marks a tombstone. Mirrors Op == OpDelete for row snapshots
	// read back from storage.
	Deleted bool `json:"deleted"`
}

// Tombstone reports whether the record represents a deletion.
func (r ChangeRecord) Tombstone() bool {
	return r.Deleted || r.Op == OpDelete
}
