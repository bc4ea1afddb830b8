package migrations

import (
	"database/sql"
	"fmt"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: 1,
		Name:    "Create history table",
		Up: `
			CREATE TABLE IF NOT EXISTS history (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				timestamp DATETIME NOT NULL,
				request_id TEXT NOT NULL,
				request_name TEXT,
				method TEXT NOT NULL,
				url TEXT NOT NULL,
				headers TEXT NOT NULL,
				body TEXT,
				response_status INTEGER,
				response_headers TEXT NOT NULL,
				response_body TEXT,
				duration_ms INTEGER NOT NULL,
				response_size INTEGER NOT NULL DEFAULT 0,
				error TEXT
			);
		`,
		Down: `DROP TABLE IF EXISTS history;`,
	},
	{
		Version: 2,
		Name:    "Add history lookup indices",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp DESC);
			CREATE INDEX IF NOT EXISTS idx_history_request_id ON history(request_id, timestamp DESC);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_history_timestamp;
			DROP INDEX IF EXISTS idx_history_request_id;
		`,
	},
}

// Run executes all pending migrations on the database. Each migration and
// its bookkeeping row are applied in one transaction.
func Run(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := GetCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	for _, migration := range AllMigrations {
		if migration.Version <= currentVersion {
			continue
		}
		if err := apply(db, migration); err != nil {
			return err
		}
	}

	return nil
}

func apply(db *sql.DB, migration Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(migration.Up); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
	}
	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		migration.Version,
		migration.Name,
	); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
	}

	return tx.Commit()
}

// GetCurrentVersion returns the current database schema version
func GetCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`
		SELECT COALESCE(MAX(version), 0)
		FROM schema_migrations
	`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return version, nil
}
