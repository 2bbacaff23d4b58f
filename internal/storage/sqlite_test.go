package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrackr/subtrackr/internal/model"
)

func newTestSQLiteStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subtrackr.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, _ := newTestSQLiteStore(t)
	ctx := context.Background()

	want := sampleSubscriptions()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Load orders by name; "Gym trial" sorts before "Netflix".
	assert.Equal(t, want[1], got[0])
	assert.Equal(t, want[0], got[1])
}

func TestSQLiteStoreSaveReplaces(t *testing.T) {
	store, _ := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSubscriptions()))
	require.NoError(t, store.Save(ctx, sampleSubscriptions()[:1]))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
}

func TestSQLiteStoreEmptyDatabase(t *testing.T) {
	store, _ := newTestSQLiteStore(t)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subtrackr.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sampleSubscriptions()))
	require.NoError(t, store.Close())

	// Reopening runs migrations again; they must be idempotent and the
	// data must survive.
	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSQLiteStoreSkipsInvalidRows(t *testing.T) {
	store, _ := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSubscriptions()))

	// Corrupt one row behind the store's back.
	_, err := store.db.ExecContext(ctx,
		`UPDATE subscriptions SET billing_cycle = 'fortnightly' WHERE id = 'a1'`)
	require.NoError(t, err)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b2", got[0].ID)
}

func TestNewSQLiteStoreEmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("")
	assert.Error(t, err)
}

func TestSQLiteStoreOptionalFields(t *testing.T) {
	store, _ := newTestSQLiteStore(t)
	ctx := context.Background()

	sub := model.Subscription{
		ID:           "min",
		Name:         "Minimal",
		Cost:         1,
		Currency:     "USD",
		BillingCycle: model.CycleOther,
		StartDate:    date(2024, time.January, 1),
		Status:       model.StatusInactive,
	}
	require.NoError(t, store.Save(ctx, []model.Subscription{sub}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].NextRenewalDate)
	assert.Nil(t, got[0].TrialEndDate)
}
