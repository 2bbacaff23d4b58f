package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/subtrackr/subtrackr/internal/common"
	"github.com/subtrackr/subtrackr/internal/model"
	"github.com/subtrackr/subtrackr/internal/renewal"
)

// Patch is a partial update for a subscription. Nil pointers leave the field
// untouched; the Clear flags unset the optional dates. One validated variant
// per field keeps update coercion explicit instead of reflective.
type Patch struct {
	StartDate            *time.Time
	NextRenewalDate      *time.Time
	TrialEndDate         *time.Time
	Name                 *string
	Cost                 *float64
	Currency             *string
	Category             *string
	Notes                *string
	URL                  *string
	Username             *string
	ServiceProvider      *string
	PaymentMethod        *string
	BillingCycle         *model.BillingCycle
	Status               *model.SubscriptionStatus
	ClearNextRenewalDate bool
	ClearTrialEndDate    bool
}

// SkippedField records a field that was dropped from an update along with the
// reason, so partial successes can be surfaced to the user.
type SkippedField struct {
	Field  string
	Value  string
	Reason string
}

// UpdateResult reports what an update actually did.
type UpdateResult struct {
	ChangedFields []string
	Skipped       []SkippedField
	Changed       bool
}

const dateLayout = "2006-01-02"

// ParsePatch coerces raw key/value input (as collected from a CLI or form)
// into a Patch. Unknown fields and invalid values are skipped individually;
// everything else still applies. An empty value clears optional date fields.
func ParsePatch(fields map[string]string) (Patch, []SkippedField) {
	var p Patch
	var skipped []SkippedField

	skip := func(field, value, reason string) {
		slog.Warn("skipping update field", "field", field, "value", value, "reason", reason)
		skipped = append(skipped, SkippedField{Field: field, Value: value, Reason: reason})
	}

	for field, value := range fields {
		switch field {
		case "id":
			skip(field, value, "id is immutable")
		case "name":
			name := strings.TrimSpace(value)
			if name == "" {
				skip(field, value, "name must not be empty")
				continue
			}
			p.Name = &name
		case "cost":
			cost, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				skip(field, value, "not a number")
				continue
			}
			if cost < 0 {
				skip(field, value, "cost must not be negative")
				continue
			}
			p.Cost = &cost
		case "currency":
			cur := strings.ToUpper(strings.TrimSpace(value))
			if cur == "" {
				skip(field, value, "currency must not be empty")
				continue
			}
			p.Currency = &cur
		case "billing_cycle":
			cycle, err := model.ParseBillingCycle(value)
			if err != nil {
				skip(field, value, err.Error())
				continue
			}
			p.BillingCycle = &cycle
		case "start_date":
			d, err := time.Parse(dateLayout, strings.TrimSpace(value))
			if err != nil {
				skip(field, value, "not an ISO date (YYYY-MM-DD)")
				continue
			}
			d = renewal.Midnight(d)
			p.StartDate = &d
		case "status":
			status, err := model.ParseStatus(value)
			if err != nil {
				skip(field, value, err.Error())
				continue
			}
			p.Status = &status
		case "next_renewal_date":
			if strings.TrimSpace(value) == "" {
				p.ClearNextRenewalDate = true
				continue
			}
			d, err := time.Parse(dateLayout, strings.TrimSpace(value))
			if err != nil {
				skip(field, value, "not an ISO date (YYYY-MM-DD)")
				continue
			}
			d = renewal.Midnight(d)
			p.NextRenewalDate = &d
		case "trial_end_date":
			if strings.TrimSpace(value) == "" {
				p.ClearTrialEndDate = true
				continue
			}
			d, err := time.Parse(dateLayout, strings.TrimSpace(value))
			if err != nil {
				skip(field, value, "not an ISO date (YYYY-MM-DD)")
				continue
			}
			d = renewal.Midnight(d)
			p.TrialEndDate = &d
		case "category":
			cat := strings.TrimSpace(value)
			p.Category = &cat
		case "notes":
			v := value
			p.Notes = &v
		case "url":
			v := strings.TrimSpace(value)
			p.URL = &v
		case "username":
			v := strings.TrimSpace(value)
			p.Username = &v
		case "service_provider":
			v := strings.TrimSpace(value)
			p.ServiceProvider = &v
		case "payment_method":
			v := strings.TrimSpace(value)
			p.PaymentMethod = &v
		default:
			skip(field, value, "unknown field")
		}
	}
	return p, skipped
}

// Update applies a partial update to the subscription with the given id.
// Valid fields apply even when others were skipped; after application the
// trial/status rule is re-run and the renewal date re-derived. A no-op update
// reports Changed=false and is not persisted.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res UpdateResult

	cur, ok := s.subs[id]
	if !ok {
		return res, fmt.Errorf("%w: %s", common.ErrNotFound, id)
	}

	work := *cur
	changed := make(map[string]bool)
	mark := func(field string, did bool) {
		if did {
			changed[field] = true
		}
	}

	if patch.Name != nil {
		mark("name", work.Name != *patch.Name)
		work.Name = *patch.Name
	}
	if patch.Cost != nil {
		if *patch.Cost < 0 {
			res.Skipped = append(res.Skipped, SkippedField{
				Field: "cost", Value: fmt.Sprintf("%v", *patch.Cost), Reason: "cost must not be negative",
			})
		} else {
			mark("cost", work.Cost != *patch.Cost)
			work.Cost = *patch.Cost
		}
	}
	if patch.Currency != nil {
		mark("currency", work.Currency != *patch.Currency)
		work.Currency = *patch.Currency
	}
	if patch.BillingCycle != nil {
		mark("billing_cycle", work.BillingCycle != *patch.BillingCycle)
		work.BillingCycle = *patch.BillingCycle
	}
	if patch.StartDate != nil {
		mark("start_date", !work.StartDate.Equal(*patch.StartDate))
		work.StartDate = *patch.StartDate
	}
	if patch.Status != nil {
		mark("status", work.Status != *patch.Status)
		work.Status = *patch.Status
	}
	if patch.Category != nil {
		mark("category", work.Category != *patch.Category)
		work.Category = *patch.Category
	}
	if patch.Notes != nil {
		mark("notes", work.Notes != *patch.Notes)
		work.Notes = *patch.Notes
	}
	if patch.URL != nil {
		mark("url", work.URL != *patch.URL)
		work.URL = *patch.URL
	}
	if patch.Username != nil {
		mark("username", work.Username != *patch.Username)
		work.Username = *patch.Username
	}
	if patch.ServiceProvider != nil {
		mark("service_provider", work.ServiceProvider != *patch.ServiceProvider)
		work.ServiceProvider = *patch.ServiceProvider
	}
	if patch.PaymentMethod != nil {
		mark("payment_method", work.PaymentMethod != *patch.PaymentMethod)
		work.PaymentMethod = *patch.PaymentMethod
	}
	if patch.ClearTrialEndDate {
		mark("trial_end_date", work.TrialEndDate != nil)
		work.TrialEndDate = nil
	} else if patch.TrialEndDate != nil {
		mark("trial_end_date", !dateEqual(work.TrialEndDate, patch.TrialEndDate))
		d := *patch.TrialEndDate
		work.TrialEndDate = &d
	}

	manualRenewal := patch.NextRenewalDate != nil || patch.ClearNextRenewalDate
	if patch.ClearNextRenewalDate {
		work.NextRenewalDate = nil
	} else if patch.NextRenewalDate != nil {
		d := *patch.NextRenewalDate
		work.NextRenewalDate = &d
	}

	if work.ApplyTrialConsistency() {
		changed["status"] = true
	}

	// Renewal-date precedence: a manual value supplied in this update wins
	// unless the resulting status is trial; trial/cancelled force nil; a
	// change to the scheduling inputs triggers a fresh computation. A manual
	// override is kept verbatim even if it is stale relative to the anchor.
	switch {
	case manualRenewal && work.Status != model.StatusTrial:
	case work.Status == model.StatusTrial || work.Status == model.StatusCancelled:
		work.NextRenewalDate = nil
	case changed["start_date"] || changed["billing_cycle"] || changed["status"]:
		next, err := renewal.Next(s.now(), work.StartDate, work.BillingCycle, nil)
		if err != nil {
			slog.Warn("could not recompute renewal date", "id", id, "error", err)
			work.NextRenewalDate = nil
		} else {
			work.NextRenewalDate = &next
		}
	}
	if !dateEqual(cur.NextRenewalDate, work.NextRenewalDate) {
		changed["next_renewal_date"] = true
	}

	if len(changed) == 0 {
		slog.Debug("no effective changes", "id", id)
		return res, nil
	}

	prev := *cur
	*cur = work
	if err := s.persist(ctx); err != nil {
		*cur = prev
		return res, err
	}

	for field := range changed {
		res.ChangedFields = append(res.ChangedFields, field)
	}
	sort.Strings(res.ChangedFields)
	res.Changed = true
	slog.Info("subscription updated", "id", id, "fields", res.ChangedFields)
	return res, nil
}

func dateEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
