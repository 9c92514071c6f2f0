package adapter

import "errors"

// Failure classes of remote operations. The orchestrator maps these onto
// its state machine: connectivity failures land in the offline state and
// are retried on the normal scheduler cadence; everything else lands in
// the error state and waits for user action.
var (
	// ErrConnectivity covers timeouts, DNS failures and refused
	// connections — anything a later retry might fix on its own.
	ErrConnectivity = errors.New("remote store unreachable")

	// ErrAuth is returned when the remote rejects the credentials.
	ErrAuth = errors.New("remote store rejected credentials")

	// ErrSchema is returned when the remote shape is unexpected and cannot
	// be repaired without touching existing data.
	ErrSchema = errors.New("remote schema mismatch")

	// ErrRemote is the catch-all for remote-side failures that fit no
	// other class.
	ErrRemote = errors.New("remote store error")
)
