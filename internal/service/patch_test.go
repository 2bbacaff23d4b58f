package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrackr/subtrackr/internal/common"
	"github.com/subtrackr/subtrackr/internal/model"
)

func skippedFields(skipped []SkippedField) []string {
	out := make([]string, 0, len(skipped))
	for _, s := range skipped {
		out = append(out, s.Field)
	}
	return out
}

func TestParsePatch(t *testing.T) {
	patch, skipped := ParsePatch(map[string]string{
		"name":              "  Spotify  ",
		"cost":              "10.99",
		"currency":          "eur",
		"billing_cycle":     "Yearly",
		"start_date":        "2024-03-01",
		"status":            "inactive",
		"next_renewal_date": "2025-03-01",
		"trial_end_date":    "2024-04-01",
		"category":          " Streaming ",
		"notes":             "family plan",
		"url":               "https://spotify.com",
	})

	assert.Empty(t, skipped)
	require.NotNil(t, patch.Name)
	assert.Equal(t, "Spotify", *patch.Name)
	require.NotNil(t, patch.Cost)
	assert.Equal(t, 10.99, *patch.Cost)
	require.NotNil(t, patch.Currency)
	assert.Equal(t, "EUR", *patch.Currency)
	require.NotNil(t, patch.BillingCycle)
	assert.Equal(t, model.CycleYearly, *patch.BillingCycle)
	require.NotNil(t, patch.StartDate)
	assert.Equal(t, date(2024, time.March, 1), *patch.StartDate)
	require.NotNil(t, patch.Status)
	assert.Equal(t, model.StatusInactive, *patch.Status)
	require.NotNil(t, patch.NextRenewalDate)
	assert.Equal(t, date(2025, time.March, 1), *patch.NextRenewalDate)
	require.NotNil(t, patch.TrialEndDate)
	assert.Equal(t, date(2024, time.April, 1), *patch.TrialEndDate)
	require.NotNil(t, patch.Category)
	assert.Equal(t, "Streaming", *patch.Category)
	require.NotNil(t, patch.Notes)
	assert.Equal(t, "family plan", *patch.Notes)
}

func TestParsePatchSkipsInvalidFields(t *testing.T) {
	patch, skipped := ParsePatch(map[string]string{
		"id":            "new-id",
		"name":          "  ",
		"cost":          "lots",
		"billing_cycle": "fortnightly",
		"start_date":    "03/01/2024",
		"status":        "paused",
		"favorite":      "yes",
		"notes":         "still applies",
	})

	assert.ElementsMatch(t,
		[]string{"id", "name", "cost", "billing_cycle", "start_date", "status", "favorite"},
		skippedFields(skipped))

	// The valid field still made it through.
	require.NotNil(t, patch.Notes)
	assert.Equal(t, "still applies", *patch.Notes)
	assert.Nil(t, patch.Name)
	assert.Nil(t, patch.Cost)
}

func TestParsePatchNegativeCost(t *testing.T) {
	patch, skipped := ParsePatch(map[string]string{"cost": "-5"})
	assert.Nil(t, patch.Cost)
	require.Len(t, skipped, 1)
	assert.Equal(t, "cost", skipped[0].Field)
}

func TestParsePatchEmptyDateClears(t *testing.T) {
	patch, skipped := ParsePatch(map[string]string{
		"next_renewal_date": "",
		"trial_end_date":    "  ",
	})
	assert.Empty(t, skipped)
	assert.True(t, patch.ClearNextRenewalDate)
	assert.True(t, patch.ClearTrialEndDate)
	assert.Nil(t, patch.NextRenewalDate)
	assert.Nil(t, patch.TrialEndDate)
}

func TestUpdateAppliesFields(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, monthlySub("u1", "Netflix", 9.99)))
	saves := store.saves

	name := "Netflix Premium"
	cost := 15.49
	res, err := svc.Update(ctx, "u1", Patch{Name: &name, Cost: &cost})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, []string{"cost", "name"}, res.ChangedFields)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, saves+1, store.saves)

	got, err := svc.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, "Netflix Premium", got.Name)
	assert.Equal(t, 15.49, got.Cost)
}

func TestUpdateNoop(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, monthlySub("u1", "Netflix", 9.99)))
	saves := store.saves

	name := "Netflix"
	cost := 9.99
	res, err := svc.Update(ctx, "u1", Patch{Name: &name, Cost: &cost})
	require.NoError(t, err)

	assert.False(t, res.Changed)
	assert.Empty(t, res.ChangedFields)
	assert.Equal(t, saves, store.saves, "a no-op update must not persist")
}

func TestUpdateNotFound(t *testing.T) {
	svc := newTestService(t, nil, nil)
	name := "x"
	_, err := svc.Update(context.Background(), "missing", Patch{Name: &name})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateManualRenewalOverride(t *testing.T) {
	svc := newTestService(t, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, monthlySub("u1", "Netflix", 9.99)))

	// A manual date wins, even one before today.
	manual := date(2025, time.January, 1)
	res, err := svc.Update(ctx, "u1", Patch{NextRenewalDate: &manual})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Contains(t, res.ChangedFields, "next_renewal_date")

	got, err := svc.Get("u1")
	require.NoError(t, err)
	require.NotNil(t, got.NextRenewalDate)
	assert.Equal(t, manual, *got.NextRenewalDate)
}

func TestUpdateManualRenewalIgnoredForTrial(t *testing.T) {
	svc := newTestService(t, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, monthlySub("u1", "Netflix", 9.99)))

	manual := date(2025, time.August, 1)
	trialEnd := date(2025, time.June, 20)
	_, err := svc.Update(ctx, "u1", Patch{NextRenewalDate: &manual, TrialEndDate: &trialEnd})
	require.NoError(t, err)

	got, err := svc.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusTrial, got.Status)
	assert.Nil(t, got.NextRenewalDate)
}

func TestUpdateClearTrialRevertsToActive(t *testing.T) {
	svc := newTestService(t, nil, nil)
	ctx := context.Background()

	sub := monthlySub("u1", "Netflix", 9.99)
	sub.TrialEndDate = datePtr(2025, time.June, 20)
	require.NoError(t, svc.Add(ctx, sub))
	require.Equal(t, model.StatusTrial, sub.Status)

	res, err := svc.Update(ctx, "u1", Patch{ClearTrialEndDate: true})
	require.NoError(t, err)
	assert.True(t, res.Changed)

	got, err := svc.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
	require.NotNil(t, got.NextRenewalDate)
	assert.Equal(t, date(2025, time.June, 15), *got.NextRenewalDate)
}

func TestUpdateCancelClearsRenewal(t *testing.T) {
	svc := newTestService(t, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, monthlySub("u1", "Netflix", 9.99)))

	cancelled := model.StatusCancelled
	_, err := svc.Update(ctx, "u1", Patch{Status: &cancelled})
	require.NoError(t, err)

	got, err := svc.Get("u1")
	require.NoError(t, err)
	assert.Nil(t, got.NextRenewalDate)
}

func TestUpdateCycleChangeRecomputesRenewal(t *testing.T) {
	svc := newTestService(t, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, monthlySub("u1", "Netflix", 9.99)))

	yearly := model.CycleYearly
	res, err := svc.Update(ctx, "u1", Patch{BillingCycle: &yearly})
	require.NoError(t, err)
	assert.Contains(t, res.ChangedFields, "billing_cycle")
	assert.Contains(t, res.ChangedFields, "next_renewal_date")

	got, err := svc.Get("u1")
	require.NoError(t, err)
	require.NotNil(t, got.NextRenewalDate)
	assert.Equal(t, date(2026, time.January, 15), *got.NextRenewalDate)
}

func TestUpdateRollsBackOnSaveFailure(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, monthlySub("u1", "Netflix", 9.99)))

	store.saveErr = assert.AnError
	name := "Renamed"
	_, err := svc.Update(ctx, "u1", Patch{Name: &name})
	require.Error(t, err)

	got, err := svc.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, "Netflix", got.Name)
}
