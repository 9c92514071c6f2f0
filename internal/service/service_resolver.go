// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avand Res

package service

import (
	"github.com/avandres/counttrack/models"
)

// resolver is the concrete implementation of Resolver. It performs a
// purely in-memory comparison of two record versions; no storage layer or
// logger is required because the operation is stateless and produces no
// side effects.
type resolver struct{}

// NewResolver constructs a Resolver ready for use.
func NewResolver() Resolver {
	return &resolver{}
}

// RemoteWins implements [Resolver] with last-write-wins by UpdatedAt and a
// lexicographic instance-id tiebreak. Both sides of a conflict run the
// same comparison on the same pair of records, so they converge on the
// same winner without consulting each other.
//
// Deletions carry no special weight: a tombstone with a later timestamp
// wins and suppresses the update; a tombstone with an earlier timestamp
// loses and the record is effectively undeleted by the newer edit.
//
// The policy is lossy for true concurrent edits to different fields of
// the same row — there is no field-level merge.
func (r *resolver) RemoteWins(local, remote models.ChangeRecord) bool {
	if remote.UpdatedAt.After(local.UpdatedAt) {
		return true
	}
	if remote.UpdatedAt.Before(local.UpdatedAt) {
		return false
	}

	// Identical timestamps: break the tie on origin so the outcome is
	// referee-independent. The greater instance id wins.
	return remote.Origin > local.Origin
}
