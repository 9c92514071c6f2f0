package service

import "errors"

var (
	// ErrSyncBusy is returned when a trigger arrives while a cycle is
	// already in flight. The trigger is rejected, never queued.
	ErrSyncBusy = errors.New("sync already in progress")

	// ErrSyncDisabled is returned when a cycle is requested while sync is
	// switched off.
	ErrSyncDisabled = errors.New("sync is disabled")

	// ErrNotConfigured is returned when connection settings are incomplete.
	ErrNotConfigured = errors.New("sync is not configured")

	// ErrShuttingDown is returned for triggers arriving after shutdown
	// has begun.
	ErrShuttingDown = errors.New("application is shutting down")

	// ErrUnknownInitialSyncMode is returned when the initial sync mode is
	// not one of push, pull or merge.
	ErrUnknownInitialSyncMode = errors.New("unknown initial sync mode")
)

// Portable config codec errors, surfaced synchronously to the caller of
// Import and never silently ignored.
var (
	// ErrMalformedConfig is returned when the string does not start with
	// the portable prefix.
	ErrMalformedConfig = errors.New("malformed portable config")

	// ErrUnsupportedVersion is returned when the version tag is not
	// recognized. Consumers must reject unknown versions, not guess.
	ErrUnsupportedVersion = errors.New("unsupported portable config version")

	// ErrDecodeFailure is returned when decryption or deserialization of
	// the payload fails.
	ErrDecodeFailure = errors.New("portable config decode failure")
)
