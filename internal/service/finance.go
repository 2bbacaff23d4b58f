package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/subtrackr/subtrackr/internal/common"
	"github.com/subtrackr/subtrackr/internal/model"
	"github.com/subtrackr/subtrackr/internal/money"
	"github.com/subtrackr/subtrackr/internal/renewal"
)

// CostPerCategory normalizes every active subscription's cost to the target
// period and sums it by category. Every known category appears in the result,
// zero-cost ones included; "Uncategorized" appears only when at least one
// active subscription actually lacks a category.
func (s *Service) CostPerCategory(period money.Period) (map[string]float64, error) {
	if _, err := money.ParsePeriod(string(period)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]float64)
	hasUncategorized := false
	for _, sub := range s.subs {
		if !sub.IsActive() {
			continue
		}
		cost, err := money.Normalize(sub.Cost, sub.BillingCycle, period)
		if err != nil {
			return nil, err
		}
		label := sub.DisplayCategory()
		if strings.TrimSpace(sub.Category) == "" {
			hasUncategorized = true
		}
		out[label] += cost
	}

	for _, cat := range s.knownCategories() {
		if _, ok := out[cat]; !ok {
			out[cat] = 0
		}
	}
	if _, ok := out[model.UncategorizedLabel]; !ok && hasUncategorized {
		out[model.UncategorizedLabel] = 0
	}
	return out, nil
}

// CostPerPeriod sums the normalized cost of all active subscriptions into a
// single figure for the target period.
func (s *Service) CostPerPeriod(period money.Period) (float64, error) {
	if _, err := money.ParsePeriod(string(period)); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, sub := range s.subs {
		if !sub.IsActive() {
			continue
		}
		cost, err := money.Normalize(sub.Cost, sub.BillingCycle, period)
		if err != nil {
			return 0, err
		}
		total += cost
	}
	return total, nil
}

// SpendingForecast sums the raw per-renewal cost of every occurrence of every
// active, schedulable subscription inside [start, end] inclusive. The walk
// seeds from the cached renewal date (or the start date when none is cached)
// and steps one cycle at a time.
func (s *Service) SpendingForecast(start, end time.Time) (float64, error) {
	if start.IsZero() || end.IsZero() {
		return 0, fmt.Errorf("%w: missing date", common.ErrInvalidDateRange)
	}
	start = renewal.Midnight(start)
	end = renewal.Midnight(end)
	if start.After(end) {
		return 0, common.ErrInvalidDateRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, sub := range s.subs {
		if !sub.IsActive() || !sub.BillingCycle.Schedulable() {
			continue
		}

		occurrence := renewal.Midnight(sub.StartDate)
		if sub.NextRenewalDate != nil {
			occurrence = renewal.Midnight(*sub.NextRenewalDate)
		}

		walkable := true
		for occurrence.Before(start) {
			next, err := renewal.Step(occurrence, sub.BillingCycle)
			if err != nil {
				slog.Warn("forecast could not advance renewal", "id", sub.ID, "error", err)
				walkable = false
				break
			}
			occurrence = next
		}
		if !walkable {
			continue
		}

		for !occurrence.After(end) {
			total += sub.Cost
			next, err := renewal.Step(occurrence, sub.BillingCycle)
			if err != nil {
				break
			}
			occurrence = next
		}
	}
	return total, nil
}

// CheckBudgetAlerts compares current monthly spend against the configured
// global budget and each configured category budget. Both scopes fire
// independently; no budget configured means no alerts for that scope.
func (s *Service) CheckBudgetAlerts() ([]string, error) {
	var alerts []string

	s.mu.Lock()
	global := s.budget.Monthly.Global
	categoryBudgets := make(map[string]float64, len(s.budget.Monthly.Categories))
	for k, v := range s.budget.Monthly.Categories {
		categoryBudgets[k] = v
	}
	s.mu.Unlock()

	if global != nil && *global >= 0 {
		spend, err := s.CostPerPeriod(money.PeriodMonthly)
		if err != nil {
			return nil, err
		}
		if spend > *global {
			alerts = append(alerts, fmt.Sprintf(
				"Budget alert: monthly spending (%.2f) exceeds global budget (%.2f) by %.2f",
				spend, *global, spend-*global))
		}
	}

	if len(categoryBudgets) > 0 {
		perCategory, err := s.CostPerCategory(money.PeriodMonthly)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(categoryBudgets))
		for name := range categoryBudgets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			budget := categoryBudgets[name]
			if budget < 0 {
				continue
			}
			if spend := perCategory[name]; spend > budget {
				alerts = append(alerts, fmt.Sprintf(
					"Budget alert: monthly spending for %q (%.2f) exceeds budget (%.2f) by %.2f",
					name, spend, budget, spend-budget))
			}
		}
	}
	return alerts, nil
}

// EventKind distinguishes the upcoming-event types.
type EventKind string

const (
	// EventRenewal marks an upcoming charge.
	EventRenewal EventKind = "renewal"
	// EventTrialEnd marks a trial period ending.
	EventTrialEnd EventKind = "trial_end"
)

// Event is a dated occurrence for a subscription within a lookahead window.
type Event struct {
	Date         time.Time
	Subscription model.Subscription
	Kind         EventKind
}

// UpcomingEvents returns renewals and trial endings within daysAhead days of
// today, sorted by date.
func (s *Service) UpcomingEvents(daysAhead int) ([]Event, error) {
	if daysAhead < 0 {
		return nil, errors.New("days ahead must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	today := renewal.Midnight(s.now())
	horizon := today.AddDate(0, 0, daysAhead)

	var events []Event
	for _, sub := range s.subs {
		if sub.NextRenewalDate != nil &&
			sub.Status != model.StatusTrial &&
			sub.Status != model.StatusCancelled &&
			sub.Status != model.StatusInactive {
			d := renewal.Midnight(*sub.NextRenewalDate)
			if !d.Before(today) && !d.After(horizon) {
				events = append(events, Event{Date: d, Subscription: *sub, Kind: EventRenewal})
			}
		}
		if sub.TrialEndDate != nil && sub.Status == model.StatusTrial {
			d := renewal.Midnight(*sub.TrialEndDate)
			if !d.Before(today) && !d.After(horizon) {
				events = append(events, Event{Date: d, Subscription: *sub, Kind: EventTrialEnd})
			}
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Subscription.Name < events[j].Subscription.Name
	})
	return events, nil
}
