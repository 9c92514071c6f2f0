// Package config loads the process configuration of a counttrack
// installation from environment variables, command-line flags and an
// optional JSON file, merging the three sources with mergo and validating
// the result.
//
// Process configuration deliberately excludes the remote sync connection
// settings: those belong to the installation's data (they can be imported
// from another installation at runtime) and live in the local database,
// managed by the store package.
package config
