package store

// SyncedTables is the fixed registry of tables that participate in sync.
// Every table in the registry — locally and remotely — carries the same
// shape: (id, data, updated_at, origin, deleted). Table names from
// ChangeRecords are validated against this list before being interpolated
// into SQL.
var SyncedTables = []string{"clients", "invoices", "invoice_items", "payments"}

// KnownTable reports whether name is part of the synced table registry.
func KnownTable(name string) bool {
	for _, t := range SyncedTables {
		if t == name {
			return true
		}
	}
	return false
}
