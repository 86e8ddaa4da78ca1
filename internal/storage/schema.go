// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: One records table keyed by user, mirroring the CSV columns.
package storage

// initSchema creates or updates the database schema.
func (r *SQLiteRepository) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL,
		date TEXT NOT NULL,
		blood_pressure TEXT NOT NULL DEFAULT '',
		sugar_level REAL,
		pulse_rate REAL,
		notes TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_records_user ON records(username, seq);
	`

	_, err := r.db.Exec(schema)
	return err
}
