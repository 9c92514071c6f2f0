// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avand Res

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/models"
)

// changelogRepository derives ChangeRecords from the append-only audit_log
// table. It never mutates anything: the audit trail is written by the CRUD
// layer (for local edits) and by the record repository (for applied remote
// changes).
type changelogRepository struct {
	*DB
	logger *logger.Logger
}

// NewChangelogRepository constructs a [ChangelogRepository] backed by the
// provided database connection and logger.
func NewChangelogRepository(db *DB, logger *logger.Logger) ChangelogRepository {
	return &changelogRepository{
		DB:     db,
		logger: logger,
	}
}

// changedRow is one collapsed (table, record) pair from the audit trail.
type changedRow struct {
	table     string
	recordID  string
	changedAt time.Time
	created   bool
}

// CollectSince implements [ChangelogRepository]. The audit trail may hold
// many lines per row; the GROUP BY collapses them to one entry carrying
// the latest mutation time, and the current row state is then read from
// the record table itself, so multiple edits between syncs travel as a
// single record with the final payload.
func (c *changelogRepository) CollectSince(ctx context.Context, since time.Time, origin string) ([]models.ChangeRecord, error) {
	log := logger.FromContext(ctx)

	changed, err := c.changedRows(ctx, since, origin)
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return nil, nil
	}

	// Group the collapsed pairs per table so each table is read once.
	perTable := make(map[string][]changedRow)
	for _, row := range changed {
		perTable[row.table] = append(perTable[row.table], row)
	}

	snapshots := make(map[string]models.ChangeRecord)
	for table, rows := range perTable {
		if !KnownTable(table) {
			log.Warn().Str("func", "changelogRepository.CollectSince").Str("table", table).Msg("audit trail references unknown table, skipping")
			continue
		}

		ids := make([]string, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.recordID)
		}

		tableSnapshots, err := c.rowSnapshots(ctx, table, ids)
		if err != nil {
			return nil, err
		}
		for id, rec := range tableSnapshots {
			snapshots[table+"/"+id] = rec
		}
	}

	// Assemble records in audit order (ascending mutation time).
	records := make([]models.ChangeRecord, 0, len(changed))
	for _, row := range changed {
		if !KnownTable(row.table) {
			continue
		}

		rec, found := snapshots[row.table+"/"+row.recordID]
		if !found {
			// Row is gone from the table entirely: a hard local delete.
			// Travel as a tombstone stamped with the audit time.
			records = append(records, models.ChangeRecord{
				Table:     row.table,
				RecordID:  row.recordID,
				Op:        models.OpDelete,
				UpdatedAt: row.changedAt,
				Origin:    origin,
				Deleted:   true,
			})
			continue
		}

		switch {
		case rec.Deleted:
			rec.Op = models.OpDelete
			rec.Payload = nil
		case row.created:
			rec.Op = models.OpCreate
		default:
			rec.Op = models.OpUpdate
		}
		records = append(records, rec)
	}

	return records, nil
}

// PendingCount implements [ChangelogRepository]. It counts collapsed
// (table, record) pairs straight off the changed_at index without touching
// the record tables.
func (c *changelogRepository) PendingCount(ctx context.Context, since time.Time, origin string) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	err := c.DB.QueryRowContext(ctx, countChangedRows, since.UTC(), origin).Scan(&count)
	if err != nil {
		log.Err(err).Str("func", "changelogRepository.PendingCount").Msg("failed to count pending changes")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

func (c *changelogRepository) changedRows(ctx context.Context, since time.Time, origin string) ([]changedRow, error) {
	log := logger.FromContext(ctx)

	rows, err := c.DB.QueryContext(ctx, collectChangedRows, since.UTC(), origin)
	if err != nil {
		log.Err(err).Str("func", "changelogRepository.changedRows").Msg("failed to query audit trail")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var changed []changedRow
	for rows.Next() {
		var row changedRow
		var created int
		if err := rows.Scan(&row.table, &row.recordID, &row.changedAt, &created); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		row.created = created > 0
		changed = append(changed, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return changed, nil
}

// rowSnapshots reads the current state of the given rows from a synced
// table and returns them keyed by record id.
func (c *changelogRepository) rowSnapshots(ctx context.Context, table string, ids []string) (map[string]models.ChangeRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("id", "data", "updated_at", "origin", "deleted").
		From(table).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "changelogRepository.rowSnapshots").Str("table", table).Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := c.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "changelogRepository.rowSnapshots").Str("table", table).Msg("failed to read row snapshots")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	snapshots := make(map[string]models.ChangeRecord, len(ids))
	for rows.Next() {
		rec, err := scanRecord(rows, table)
		if err != nil {
			return nil, err
		}
		snapshots[rec.RecordID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return snapshots, nil
}

// scanRecord maps one synced-table row onto a ChangeRecord. Op is left for
// the caller to resolve.
func scanRecord(rows *sql.Rows, table string) (models.ChangeRecord, error) {
	var rec models.ChangeRecord
	var data string
	var deleted int

	if err := rows.Scan(&rec.RecordID, &data, &rec.UpdatedAt, &rec.Origin, &deleted); err != nil {
		return models.ChangeRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	rec.Table = table
	rec.Deleted = deleted != 0
	if !rec.Deleted {
		rec.Payload = json.RawMessage(data)
	}

	return rec, nil
}
