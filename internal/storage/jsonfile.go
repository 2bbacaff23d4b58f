// Package storage provides the persistence layer for subtrackr: a JSON file
// store (the default), a SQLite store, and the settings file.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/subtrackr/subtrackr/internal/common"
	"github.com/subtrackr/subtrackr/internal/model"
	"github.com/subtrackr/subtrackr/internal/renewal"
)

const dateLayout = "2006-01-02"

// JSONFileStore persists subscriptions as a JSON array of records. Records use
// ISO-8601 date strings and lower-case enum values; individually malformed
// records are skipped on load rather than failing the whole file.
type JSONFileStore struct {
	path string
}

// NewJSONFileStore creates a store backed by the given file path.
func NewJSONFileStore(path string) (*JSONFileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: data path must not be empty", common.ErrMissingConfig)
	}
	return &JSONFileStore{path: path}, nil
}

// Load reads all subscription records. A missing or corrupt file yields an
// empty set, never an error that would stop the application.
func (s *JSONFileStore) Load(_ context.Context) ([]model.Subscription, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		slog.Warn("could not read data file, starting empty", "path", s.path, "error", err)
		return nil, nil
	}

	subs, skipped, err := DecodeSubscriptions(data)
	if err != nil {
		slog.Warn("data file is corrupt, starting empty", "path", s.path, "error", err)
		return nil, nil
	}
	if skipped > 0 {
		slog.Warn("skipped malformed subscription records", "path", s.path, "count", skipped)
	}
	return subs, nil
}

// Save overwrites the data file with the full record set.
func (s *JSONFileStore) Save(_ context.Context, subs []model.Subscription) error {
	records := make([]Record, 0, len(subs))
	for i := range subs {
		records = append(records, recordFromSubscription(&subs[i]))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode subscriptions: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *JSONFileStore) Close() error { return nil }

// Record is the on-disk shape of a subscription.
type Record struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Currency        string  `json:"currency"`
	BillingCycle    string  `json:"billing_cycle"`
	StartDate       string  `json:"start_date"`
	Status          string  `json:"status"`
	NextRenewalDate *string `json:"next_renewal_date"`
	Category        string  `json:"category"`
	TrialEndDate    *string `json:"trial_end_date"`
	Notes           string  `json:"notes,omitempty"`
	URL             string  `json:"url,omitempty"`
	Username        string  `json:"username,omitempty"`
	ServiceProvider string  `json:"service_provider,omitempty"`
	PaymentMethod   string  `json:"payment_method,omitempty"`
	Cost            float64 `json:"cost"`
}

// DecodeSubscriptions parses a JSON array of records, skipping records that
// fail validation. It returns the parsed subscriptions and the skip count; the
// error is non-nil only when the document itself is unreadable.
func DecodeSubscriptions(data []byte) ([]model.Subscription, int, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, 0, fmt.Errorf("failed to parse subscription records: %w", err)
	}

	subs := make([]model.Subscription, 0, len(records))
	skipped := 0
	for i := range records {
		sub, err := records[i].Subscription()
		if err != nil {
			slog.Warn("skipping malformed record", "index", i, "id", records[i].ID, "error", err)
			skipped++
			continue
		}
		subs = append(subs, sub)
	}
	return subs, skipped, nil
}

// Subscription converts a record into the domain type, validating enums,
// dates, and the basic field invariants.
func (r *Record) Subscription() (model.Subscription, error) {
	cycle, err := model.ParseBillingCycle(r.BillingCycle)
	if err != nil {
		return model.Subscription{}, err
	}
	status, err := model.ParseStatus(r.Status)
	if err != nil {
		return model.Subscription{}, err
	}
	start, err := parseDate(r.StartDate)
	if err != nil {
		return model.Subscription{}, fmt.Errorf("start_date: %w", err)
	}
	next, err := parseOptionalDate(r.NextRenewalDate)
	if err != nil {
		return model.Subscription{}, fmt.Errorf("next_renewal_date: %w", err)
	}
	trialEnd, err := parseOptionalDate(r.TrialEndDate)
	if err != nil {
		return model.Subscription{}, fmt.Errorf("trial_end_date: %w", err)
	}

	sub := model.Subscription{
		ID:              r.ID,
		Name:            r.Name,
		Cost:            r.Cost,
		Currency:        r.Currency,
		BillingCycle:    cycle,
		StartDate:       start,
		Status:          status,
		NextRenewalDate: next,
		Category:        r.Category,
		TrialEndDate:    trialEnd,
		Notes:           r.Notes,
		URL:             r.URL,
		Username:        r.Username,
		ServiceProvider: r.ServiceProvider,
		PaymentMethod:   r.PaymentMethod,
	}
	if sub.Currency == "" {
		sub.Currency = "USD"
	}
	if err := sub.Validate(); err != nil {
		return model.Subscription{}, err
	}
	return sub, nil
}

func recordFromSubscription(sub *model.Subscription) Record {
	return Record{
		ID:              sub.ID,
		Name:            sub.Name,
		Cost:            sub.Cost,
		Currency:        sub.Currency,
		BillingCycle:    string(sub.BillingCycle),
		StartDate:       sub.StartDate.Format(dateLayout),
		Status:          string(sub.Status),
		NextRenewalDate: formatOptionalDate(sub.NextRenewalDate),
		Category:        sub.Category,
		TrialEndDate:    formatOptionalDate(sub.TrialEndDate),
		Notes:           sub.Notes,
		URL:             sub.URL,
		Username:        sub.Username,
		ServiceProvider: sub.ServiceProvider,
		PaymentMethod:   sub.PaymentMethod,
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return renewal.Midnight(d), nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatOptionalDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(dateLayout)
	return &s
}
