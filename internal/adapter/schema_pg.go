// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avand Res

package adapter

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/internal/store"
	"github.com/avandres/counttrack/models"
)

// expectedColumns is the shape every synced table must have remotely.
// Maps column name to the Postgres type used when the column has to be
// created. Type checks compare against information_schema data types.
var expectedColumns = []struct {
	name     string
	createAs string
	dataType string
}{
	{name: "id", createAs: "TEXT PRIMARY KEY", dataType: "text"},
	{name: "data", createAs: "JSONB NOT NULL DEFAULT '{}'", dataType: "jsonb"},
	{name: "updated_at", createAs: "TIMESTAMPTZ NOT NULL", dataType: "timestamp with time zone"},
	{name: "origin", createAs: "TEXT NOT NULL", dataType: "text"},
	{name: "deleted", createAs: "BOOLEAN NOT NULL DEFAULT FALSE", dataType: "boolean"},
}

// VerifySchema implements [RemoteGateway]. It opens a short-lived direct
// connection to the remote database with the elevated connection string,
// compares the remote shape against the synced table registry, and creates
// whatever is missing. Existing tables and columns are never dropped or
// altered: an incompatible column type is reported as unrepairable instead.
//
// Safe to call repeatedly — every statement is of the IF NOT EXISTS kind.
func (g *restGateway) VerifySchema(ctx context.Context, cfg models.SyncConfig) (bool, string, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	conn, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return false, "invalid remote connection string", fmt.Errorf("%w: %w", ErrSchema, err)
	}
	defer conn.Close()

	if err = conn.PingContext(ctx); err != nil {
		classified := classifyPgError(err)
		log.Err(classified).Str("func", "restGateway.VerifySchema").Msg("remote database unreachable")
		return false, "remote database unreachable", classified
	}

	created := 0
	repaired := 0
	for _, table := range store.SyncedTables {
		exists, err := tableExists(ctx, conn, table)
		if err != nil {
			return false, "failed to inspect remote schema", classifyPgError(err)
		}

		if !exists {
			if err = createTable(ctx, conn, table); err != nil {
				log.Err(err).Str("func", "restGateway.VerifySchema").Str("table", table).Msg("failed to create remote table")
				return false, fmt.Sprintf("failed to create remote table %q", table), classifyPgError(err)
			}
			created++
			continue
		}

		added, err := repairColumns(ctx, conn, table)
		if err != nil {
			return false, fmt.Sprintf("remote table %q cannot be repaired", table), err
		}
		repaired += added
	}

	log.Info().
		Str("func", "restGateway.VerifySchema").
		Int("tables_created", created).
		Int("columns_added", repaired).
		Msg("remote schema verified")

	if created == 0 && repaired == 0 {
		return true, "remote schema is up to date", nil
	}
	return true, fmt.Sprintf("remote schema repaired: %d tables created, %d columns added", created, repaired), nil
}

func tableExists(ctx context.Context, conn *sql.DB, table string) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1
	);`

	var exists bool
	if err := conn.QueryRowContext(ctx, q, table).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func createTable(ctx context.Context, conn *sql.DB, table string) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		data JSONB NOT NULL DEFAULT '{}',
		updated_at TIMESTAMPTZ NOT NULL,
		origin TEXT NOT NULL,
		deleted BOOLEAN NOT NULL DEFAULT FALSE
	);`, table)
	if _, err := conn.ExecContext(ctx, ddl); err != nil {
		return err
	}

	idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_updated_at ON %s (updated_at);`, table, table)
	_, err := conn.ExecContext(ctx, idx)
	return err
}

// repairColumns adds missing columns to an existing table and verifies the
// types of the ones already there. Returns the number of columns added.
func repairColumns(ctx context.Context, conn *sql.DB, table string) (int, error) {
	const q = `SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1;`

	rows, err := conn.QueryContext(ctx, q, table)
	if err != nil {
		return 0, classifyPgError(err)
	}
	defer rows.Close()

	existing := make(map[string]string)
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return 0, classifyPgError(err)
		}
		existing[name] = dataType
	}
	if err := rows.Err(); err != nil {
		return 0, classifyPgError(err)
	}

	added := 0
	for _, col := range expectedColumns {
		dataType, found := existing[col.name]
		if !found {
			ddl := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s;`, table, col.name, col.createAs)
			if _, err := conn.ExecContext(ctx, ddl); err != nil {
				return added, classifyPgError(err)
			}
			added++
			continue
		}

		if dataType != col.dataType {
			// Repair must never alter existing data, so a wrong type is a
			// hard stop rather than an ALTER COLUMN.
			return added, fmt.Errorf("%w: %s.%s is %s, expected %s",
				ErrSchema, table, col.name, dataType, col.dataType)
		}
	}

	return added, nil
}
