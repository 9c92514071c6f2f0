// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avand Res

package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/models"
)

// recordRepository is the sync engine's access path to the synced record
// tables. The CRUD layer owns ordinary reads and writes; this repository
// only applies records that already won conflict resolution.
type recordRepository struct {
	*DB
	logger *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] backed by the
// provided database connection and logger.
func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	return &recordRepository{
		DB:     db,
		logger: logger,
	}
}

// Get implements [RecordRepository].
func (r *recordRepository) Get(ctx context.Context, table, recordID string) (models.ChangeRecord, bool, error) {
	log := logger.FromContext(ctx)

	if !KnownTable(table) {
		return models.ChangeRecord{}, false, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	query, args, err := sq.Select("id", "data", "updated_at", "origin", "deleted").
		From(table).
		Where(sq.Eq{"id": recordID}).
		ToSql()
	if err != nil {
		return models.ChangeRecord{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "recordRepository.Get").Str("table", table).Str("record_id", recordID).Msg("failed to read record")
		return models.ChangeRecord{}, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return models.ChangeRecord{}, false, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		return models.ChangeRecord{}, false, nil
	}

	rec, err := scanRecord(rows, table)
	if err != nil {
		return models.ChangeRecord{}, false, err
	}
	if rec.Deleted {
		rec.Op = models.OpDelete
	} else {
		rec.Op = models.OpUpdate
	}

	return rec, true, nil
}

// Apply implements [RecordRepository]. The row write and its audit entry
// share one transaction: a crash mid-apply leaves either both or neither,
// and ordinary reads never observe a partially-applied pulled change.
//
// Applying the same record twice is a no-op beyond the first — the upsert
// rewrites identical values and the extra audit line carries a remote
// origin, which CollectSince filters out.
func (r *recordRepository) Apply(ctx context.Context, rec models.ChangeRecord) error {
	log := logger.FromContext(ctx)

	if !KnownTable(rec.Table) {
		return fmt.Errorf("%w: %s", ErrUnknownTable, rec.Table)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = applyInTx(ctx, tx, rec); err != nil {
		log.Err(err).
			Str("func", "recordRepository.Apply").
			Str("table", rec.Table).
			Str("record_id", rec.RecordID).
			Msg("failed to apply pulled record")
		return fmt.Errorf("%w: %s/%s: %w", ErrApply, rec.Table, rec.RecordID, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// ListAll implements [RecordRepository].
func (r *recordRepository) ListAll(ctx context.Context) ([]models.ChangeRecord, error) {
	log := logger.FromContext(ctx)

	var all []models.ChangeRecord
	for _, table := range SyncedTables {
		query, args, err := sq.Select("id", "data", "updated_at", "origin", "deleted").
			From(table).
			OrderBy("updated_at").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		rows, err := r.DB.QueryContext(ctx, query, args...)
		if err != nil {
			log.Err(err).Str("func", "recordRepository.ListAll").Str("table", table).Msg("failed to list records")
			return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		for rows.Next() {
			rec, err := scanRecord(rows, table)
			if err != nil {
				rows.Close()
				return nil, err
			}
			if rec.Deleted {
				rec.Op = models.OpDelete
			} else {
				rec.Op = models.OpUpdate
			}
			all = append(all, rec)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		rows.Close()
	}

	return all, nil
}

// ReplaceAll implements [RecordRepository]. Everything happens in one
// transaction so a crash cannot leave the local set half-replaced.
func (r *recordRepository) ReplaceAll(ctx context.Context, recs []models.ChangeRecord) error {
	log := logger.FromContext(ctx)

	for _, rec := range recs {
		if !KnownTable(rec.Table) {
			return fmt.Errorf("%w: %s", ErrUnknownTable, rec.Table)
		}
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, table := range SyncedTables {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table+";"); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	for _, rec := range recs {
		if err = applyInTx(ctx, tx, rec); err != nil {
			log.Err(err).
				Str("func", "recordRepository.ReplaceAll").
				Str("table", rec.Table).
				Str("record_id", rec.RecordID).
				Msg("failed to write record during replace")
			return fmt.Errorf("%w: %s/%s: %w", ErrApply, rec.Table, rec.RecordID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// applyInTx writes one record and its audit entry inside tx. A tombstone
// keeps the previous payload in place and only flips the deleted flag, so
// late readers can still render what was deleted.
func applyInTx(ctx context.Context, tx *sql.Tx, rec models.ChangeRecord) error {
	var builder sq.InsertBuilder

	if rec.Tombstone() {
		builder = sq.Insert(rec.Table).
			Columns("id", "data", "updated_at", "origin", "deleted").
			Values(rec.RecordID, "{}", rec.UpdatedAt.UTC(), rec.Origin, 1).
			Suffix("ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at, origin = excluded.origin, deleted = 1")
	} else {
		payload := string(rec.Payload)
		if payload == "" {
			payload = "{}"
		}
		builder = sq.Insert(rec.Table).
			Columns("id", "data", "updated_at", "origin", "deleted").
			Values(rec.RecordID, payload, rec.UpdatedAt.UTC(), rec.Origin, 0).
			Suffix("ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at, origin = excluded.origin, deleted = 0")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	op := rec.Op
	if op == "" {
		if rec.Tombstone() {
			op = models.OpDelete
		} else {
			op = models.OpUpdate
		}
	}

	_, err = tx.ExecContext(ctx, insertAuditEntry,
		uuid.NewString(), rec.Table, rec.RecordID, string(op), rec.Origin, rec.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
