package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/subtrackr/subtrackr/internal/common"
	"github.com/subtrackr/subtrackr/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore persists subscriptions in a SQLite database. Like the JSON
// store it replaces the full record set on each save; the single-user access
// pattern does not need per-row updates.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (and migrates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database path must not be empty", common.ErrMissingConfig)
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db, dbPath: dbPath}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads every subscription row. Rows that fail validation are skipped
// individually, mirroring the JSON store's behavior for malformed records.
func (s *SQLiteStore) Load(ctx context.Context) ([]model.Subscription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, cost, currency, billing_cycle, start_date, status,
		       next_renewal_date, category, trial_end_date, notes, url,
		       username, service_provider, payment_method
		FROM subscriptions
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var subs []model.Subscription
	for rows.Next() {
		var rec Record
		var next, trialEnd sql.NullString
		if err := rows.Scan(
			&rec.ID, &rec.Name, &rec.Cost, &rec.Currency, &rec.BillingCycle,
			&rec.StartDate, &rec.Status, &next, &rec.Category, &trialEnd,
			&rec.Notes, &rec.URL, &rec.Username, &rec.ServiceProvider,
			&rec.PaymentMethod,
		); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		if next.Valid {
			rec.NextRenewalDate = &next.String
		}
		if trialEnd.Valid {
			rec.TrialEndDate = &trialEnd.String
		}

		sub, err := rec.Subscription()
		if err != nil {
			continue
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subscriptions: %w", err)
	}
	return subs, nil
}

// Save replaces the full subscription set in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, subs []model.Subscription) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subscriptions`); err != nil {
		return fmt.Errorf("failed to clear subscriptions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO subscriptions (
			id, name, cost, currency, billing_cycle, start_date, status,
			next_renewal_date, category, trial_end_date, notes, url,
			username, service_provider, payment_method
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range subs {
		rec := recordFromSubscription(&subs[i])
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.Name, rec.Cost, rec.Currency, rec.BillingCycle,
			rec.StartDate, rec.Status, nullable(rec.NextRenewalDate),
			rec.Category, nullable(rec.TrialEndDate), rec.Notes, rec.URL,
			rec.Username, rec.ServiceProvider, rec.PaymentMethod,
		); err != nil {
			return fmt.Errorf("failed to insert subscription %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
