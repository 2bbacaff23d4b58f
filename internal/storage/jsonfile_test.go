package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrackr/subtrackr/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func sampleSubscriptions() []model.Subscription {
	return []model.Subscription{
		{
			ID:              "a1",
			Name:            "Netflix",
			Cost:            9.99,
			Currency:        "USD",
			BillingCycle:    model.CycleMonthly,
			StartDate:       date(2024, time.January, 15),
			Status:          model.StatusActive,
			NextRenewalDate: datePtr(2024, time.July, 15),
			Category:        "Streaming",
			Notes:           "family plan",
			URL:             "https://netflix.com",
		},
		{
			ID:           "b2",
			Name:         "Gym trial",
			Cost:         0,
			Currency:     "USD",
			BillingCycle: model.CycleMonthly,
			StartDate:    date(2024, time.June, 1),
			Status:       model.StatusTrial,
			TrialEndDate: datePtr(2024, time.July, 1),
		},
	}
}

func TestJSONFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subscriptions.json")
	store, err := NewJSONFileStore(path)
	require.NoError(t, err)

	ctx := context.Background()
	want := sampleSubscriptions()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestJSONFileStoreMissingFile(t *testing.T) {
	store, err := NewJSONFileStore(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestJSONFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subscriptions.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := NewJSONFileStore(path)
	require.NoError(t, err)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestJSONFileStoreCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "subscriptions.json")
	store, err := NewJSONFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), sampleSubscriptions()))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewJSONFileStoreEmptyPath(t *testing.T) {
	_, err := NewJSONFileStore("")
	assert.Error(t, err)
}

func TestDecodeSubscriptionsSkipsMalformed(t *testing.T) {
	data := []byte(`[
		{
			"id": "ok",
			"name": "Netflix",
			"cost": 9.99,
			"currency": "USD",
			"billing_cycle": "monthly",
			"start_date": "2024-01-15",
			"status": "active",
			"next_renewal_date": null,
			"category": "",
			"trial_end_date": null
		},
		{
			"id": "bad-cycle",
			"name": "Broken",
			"cost": 1,
			"billing_cycle": "fortnightly",
			"start_date": "2024-01-15",
			"status": "active"
		},
		{
			"id": "bad-date",
			"name": "Broken too",
			"cost": 1,
			"billing_cycle": "monthly",
			"start_date": "01/15/2024",
			"status": "active"
		},
		{
			"id": "negative",
			"name": "Refund?",
			"cost": -5,
			"billing_cycle": "monthly",
			"start_date": "2024-01-15",
			"status": "active"
		}
	]`)

	subs, skipped, err := DecodeSubscriptions(data)
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, subs, 1)
	assert.Equal(t, "ok", subs[0].ID)
	assert.Equal(t, "USD", subs[0].Currency)
}

func TestDecodeSubscriptionsUnreadable(t *testing.T) {
	_, _, err := DecodeSubscriptions([]byte(`{"not": "an array"}`))
	assert.Error(t, err)
}

func TestRecordDefaultsCurrency(t *testing.T) {
	rec := Record{
		ID:           "x",
		Name:         "No currency",
		Cost:         1,
		BillingCycle: "monthly",
		StartDate:    "2024-01-15",
		Status:       "active",
	}
	sub, err := rec.Subscription()
	require.NoError(t, err)
	assert.Equal(t, "USD", sub.Currency)
}
