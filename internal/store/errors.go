package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known
// failure conditions. Callers should use [errors.Is] to match against
// these values.
var (
	// ErrUnknownTable is returned when a ChangeRecord names a table that is
	// not part of the synced table registry.
	ErrUnknownTable = errors.New("unknown synced table")

	// ErrApply is returned when a pulled record cannot be written locally
	// (e.g. constraint violation). The wrap chain carries the offending
	// table and record id.
	ErrApply = errors.New("failed to apply record locally")

	// ErrSettingsNotSaved is returned when a settings UPDATE completes
	// without error but affects zero rows.
	ErrSettingsNotSaved = errors.New("sync settings were not saved")
)

// Low-level database operation errors, wrapped by repository methods when
// a SQL-level operation fails before any domain logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a read query fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
