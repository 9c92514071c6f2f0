package config

import "errors"

var (
	// ErrInvalidStorageConfigs is returned when the local database path
	// resolves to an empty value after merging all sources.
	ErrInvalidStorageConfigs = errors.New("invalid storage configs")

	// ErrInvalidServerConfigs is returned when the HTTP listen address
	// resolves to an empty value after merging all sources.
	ErrInvalidServerConfigs = errors.New("invalid server configs")

	// ErrInvalidSyncConfigs is returned when the scheduler interval or the
	// network timeout is not a positive duration.
	ErrInvalidSyncConfigs = errors.New("invalid sync configs")
)
