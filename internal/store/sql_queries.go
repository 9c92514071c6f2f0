package store

const (
	getSettings = `SELECT enabled, remote_endpoint, restricted_key, elevated_key, database_dsn, instance_id, last_sync_at
		FROM sync_settings
		WHERE id = 1;`

	insertDefaultSettings = `INSERT INTO sync_settings (id, enabled, remote_endpoint, restricted_key, elevated_key, database_dsn, instance_id)
		VALUES (1, 0, '', '', '', '', ?);`

	updateSettings = `UPDATE sync_settings
		SET enabled = ?, remote_endpoint = ?, restricted_key = ?, elevated_key = ?, database_dsn = ?, last_sync_at = ?
		WHERE id = 1;`

	collectChangedRows = `SELECT table_name, record_id, MAX(changed_at) AS changed_at,
			MAX(CASE WHEN op = 'create' THEN 1 ELSE 0 END) AS created
		FROM audit_log
		WHERE changed_at > ? AND origin = ?
		GROUP BY table_name, record_id
		ORDER BY changed_at;`

	countChangedRows = `SELECT COUNT(*) FROM (
			SELECT 1
			FROM audit_log
			WHERE changed_at > ? AND origin = ?
			GROUP BY table_name, record_id
		);`

	insertAuditEntry = `INSERT INTO audit_log (id, table_name, record_id, op, origin, changed_at)
		VALUES (?, ?, ?, ?, ?, ?);`
)
