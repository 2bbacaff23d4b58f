package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrackr/subtrackr/internal/common"
	"github.com/subtrackr/subtrackr/internal/model"
	"github.com/subtrackr/subtrackr/internal/renewal"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	subs    []model.Subscription
	saveErr error
	saves   int
}

func (m *memStore) Load(ctx context.Context) ([]model.Subscription, error) {
	out := make([]model.Subscription, len(m.subs))
	copy(out, m.subs)
	return out, nil
}

func (m *memStore) Save(ctx context.Context, subs []model.Subscription) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.subs = make([]model.Subscription, len(subs))
	copy(m.subs, subs)
	m.saves++
	return nil
}

func (m *memStore) Close() error { return nil }

// memSettings is an in-memory SettingsStore for tests.
type memSettings struct {
	cfg   Settings
	saves int
}

func (m *memSettings) Load() (Settings, error) { return m.cfg, nil }

func (m *memSettings) Save(cfg Settings) error {
	m.cfg = cfg
	m.saves++
	return nil
}

func date(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, mo time.Month, d int) *time.Time {
	t := date(y, mo, d)
	return &t
}

// testToday is the frozen clock used by newTestService.
var testToday = date(2025, time.June, 1)

func newTestService(t *testing.T, store *memStore, settings *memSettings) *Service {
	t.Helper()
	if store == nil {
		store = &memStore{}
	}
	if settings == nil {
		settings = &memSettings{}
	}
	svc, err := New(context.Background(), store, settings)
	require.NoError(t, err)
	svc.now = func() time.Time { return testToday }
	return svc
}

func monthlySub(id, name string, cost float64) *model.Subscription {
	return &model.Subscription{
		ID:           id,
		Name:         name,
		Cost:         cost,
		BillingCycle: model.CycleMonthly,
		StartDate:    date(2025, time.January, 15),
		Status:       model.StatusActive,
	}
}

func TestAddDefaultsAndRenewal(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store, nil)

	sub := &model.Subscription{
		Name:         "Netflix",
		Cost:         9.99,
		BillingCycle: model.CycleMonthly,
		StartDate:    date(2025, time.January, 15),
	}
	require.NoError(t, svc.Add(context.Background(), sub))

	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "USD", sub.Currency)
	assert.Equal(t, model.StatusActive, sub.Status)
	require.NotNil(t, sub.NextRenewalDate)
	assert.Equal(t, date(2025, time.June, 15), *sub.NextRenewalDate)
	assert.Equal(t, 1, store.saves)

	got, err := svc.Get(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Netflix", got.Name)
}

func TestAddTrialForcesStatusAndNoRenewal(t *testing.T) {
	svc := newTestService(t, nil, nil)

	sub := monthlySub("t1", "Trial thing", 5)
	sub.TrialEndDate = datePtr(2025, time.June, 20)
	require.NoError(t, svc.Add(context.Background(), sub))

	assert.Equal(t, model.StatusTrial, sub.Status)
	assert.Nil(t, sub.NextRenewalDate)
}

func TestAddCancelledHasNoRenewal(t *testing.T) {
	svc := newTestService(t, nil, nil)

	sub := monthlySub("c1", "Old gym", 30)
	sub.Status = model.StatusCancelled
	require.NoError(t, svc.Add(context.Background(), sub))

	assert.Nil(t, sub.NextRenewalDate)
}

func TestAddOtherCycleKeepsManualRenewal(t *testing.T) {
	svc := newTestService(t, nil, nil)

	manual := datePtr(2025, time.December, 24)
	sub := monthlySub("o1", "Domain", 12)
	sub.BillingCycle = model.CycleOther
	sub.NextRenewalDate = manual
	require.NoError(t, svc.Add(context.Background(), sub))

	require.NotNil(t, sub.NextRenewalDate)
	assert.Equal(t, *manual, *sub.NextRenewalDate)
}

func TestAddValidation(t *testing.T) {
	svc := newTestService(t, nil, nil)

	bad := monthlySub("b1", "", 5)
	assert.ErrorIs(t, svc.Add(context.Background(), bad), model.ErrEmptyName)

	require.NoError(t, svc.Add(context.Background(), monthlySub("dup", "First", 1)))
	err := svc.Add(context.Background(), monthlySub("dup", "Second", 2))
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestAddRollsBackOnSaveFailure(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store, nil)

	store.saveErr = errors.New("disk full")
	err := svc.Add(context.Background(), monthlySub("f1", "Failing", 5))
	require.Error(t, err)

	_, err = svc.Get("f1")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, store.subs)
}

func TestGetAllSorted(t *testing.T) {
	svc := newTestService(t, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, monthlySub("1", "Zed", 1)))
	require.NoError(t, svc.Add(ctx, monthlySub("2", "Alpha", 2)))
	require.NoError(t, svc.Add(ctx, monthlySub("3", "Mid", 3)))

	all := svc.GetAll()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Alpha", "Mid", "Zed"}, []string{all[0].Name, all[1].Name, all[2].Name})
}

func TestDelete(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, monthlySub("d1", "Doomed", 5)))
	require.NoError(t, svc.Delete(ctx, "d1"))

	_, err := svc.Get("d1")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, store.subs)

	assert.ErrorIs(t, svc.Delete(ctx, "missing"), common.ErrNotFound)
}

func TestNewRevalidatesStaleRenewalDates(t *testing.T) {
	today := renewal.Midnight(time.Now())
	store := &memStore{subs: []model.Subscription{
		{
			ID:              "stale",
			Name:            "Stale",
			Cost:            10,
			Currency:        "USD",
			BillingCycle:    model.CycleMonthly,
			StartDate:       date(2020, time.January, 15),
			Status:          model.StatusActive,
			NextRenewalDate: datePtr(2020, time.February, 15),
		},
		{
			ID:           "trial",
			Name:         "Trial",
			Cost:         5,
			Currency:     "USD",
			BillingCycle: model.CycleMonthly,
			StartDate:    date(2024, time.January, 1),
			Status:       model.StatusTrial,
			TrialEndDate: datePtr(2030, time.January, 1),
			// Trials must not carry a renewal date; this one does on disk.
			NextRenewalDate: datePtr(2024, time.February, 1),
		},
	}}

	svc, err := New(context.Background(), store, &memSettings{})
	require.NoError(t, err)

	stale, err := svc.Get("stale")
	require.NoError(t, err)
	require.NotNil(t, stale.NextRenewalDate)
	assert.False(t, stale.NextRenewalDate.Before(today), "recalculated renewal date is in the past")

	trial, err := svc.Get("trial")
	require.NoError(t, err)
	assert.Nil(t, trial.NextRenewalDate)

	// The corrections were written back.
	assert.Equal(t, 1, store.saves)
}

func TestNewSkipsDuplicateIDs(t *testing.T) {
	store := &memStore{subs: []model.Subscription{
		*monthlySub("same", "First", 1),
		*monthlySub("same", "Second", 2),
	}}

	svc, err := New(context.Background(), store, &memSettings{})
	require.NoError(t, err)
	assert.Len(t, svc.GetAll(), 1)
}
