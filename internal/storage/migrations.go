package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// expectedSchemaVersion is the latest schema version the application expects.
const expectedSchemaVersion = 1

// migration represents a database schema migration.
type migration struct {
	up          func(*sql.Tx) error
	description string
	version     int
}

var migrations = []migration{
	{
		version:     1,
		description: "Initial schema",
		up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS subscriptions (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					cost REAL NOT NULL,
					currency TEXT NOT NULL DEFAULT 'USD',
					billing_cycle TEXT NOT NULL,
					start_date TEXT NOT NULL,
					status TEXT NOT NULL,
					next_renewal_date TEXT,
					category TEXT NOT NULL DEFAULT '',
					trial_end_date TEXT,
					notes TEXT NOT NULL DEFAULT '',
					url TEXT NOT NULL DEFAULT '',
					username TEXT NOT NULL DEFAULT '',
					service_provider TEXT NOT NULL DEFAULT '',
					payment_method TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX IF NOT EXISTS idx_subscriptions_category ON subscriptions(category)`,
				`CREATE INDEX IF NOT EXISTS idx_subscriptions_status ON subscriptions(status)`,
				`CREATE INDEX IF NOT EXISTS idx_subscriptions_renewal ON subscriptions(next_renewal_date)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return fmt.Errorf("migration query failed: %w", err)
				}
			}
			return nil
		},
	},
}

// migrate brings the schema up to the expected version.
func (s *SQLiteStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_versions (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create schema_versions table: %w", err)
	}

	var current sql.NullInt64
	if err := s.db.QueryRowContext(ctx,
		`SELECT MAX(version) FROM schema_versions`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if current.Valid && m.version <= int(current.Int64) {
			continue
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
		}
		if err := m.up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.description, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_versions (version) VALUES (?)`, m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
		slog.Info("applied migration", "version", m.version, "description", m.description)
	}

	if current.Valid && int(current.Int64) > expectedSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than expected %d",
			current.Int64, expectedSchemaVersion)
	}
	return nil
}
