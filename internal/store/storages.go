package store

import (
	"github.com/avandres/counttrack/internal/logger"
)

// Storages aggregates all repositories backed by the local database.
type Storages struct {
	Settings  SettingsRepository
	Changelog ChangelogRepository
	Records   RecordRepository
}

// NewStorages wires every repository to the shared connection.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		Settings:  NewSettingsRepository(db, log),
		Changelog: NewChangelogRepository(db, log),
		Records:   NewRecordRepository(db, log),
	}
}
