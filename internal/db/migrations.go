package db

import (
	"context"
	"fmt"
)

// migrations are applied in order; the index plus one is the schema version
// recorded in PRAGMA user_version after it runs.
var migrations = []string{
	// v1: count how often each report was opened
	`ALTER TABLE recent_reports ADD COLUMN open_count INTEGER DEFAULT 1`,
}

// SchemaVersion returns the schema version stored in the database.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	if err := db.QueryRowContext(context.Background(), "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// migrate brings the schema up to the latest version.
func (db *DB) migrate() error {
	version, err := db.SchemaVersion()
	if err != nil {
		return err
	}

	for i := version; i < len(migrations); i++ {
		if _, err := db.ExecContext(context.Background(), migrations[i]); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := db.ExecContext(context.Background(), fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("failed to record schema version %d: %w", i+1, err)
		}
	}

	return nil
}
