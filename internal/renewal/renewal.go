// Package renewal computes the next occurrence of a recurring charge.
package renewal

import (
	"errors"
	"fmt"
	"time"

	"github.com/subtrackr/subtrackr/internal/model"
)

// ErrUnschedulable is returned when a renewal date cannot be computed for the
// given cycle. Callers are expected to handle this and leave the renewal date
// unset rather than treat it as fatal.
var ErrUnschedulable = errors.New("billing cycle cannot be scheduled automatically")

// Next returns the first renewal on or after today for a subscription anchored
// at start with the given cycle. When lastKnown is provided and later than
// start it is used as the stepping base, so a previously computed renewal date
// is not thrown away on recalculation.
func Next(today, start time.Time, cycle model.BillingCycle, lastKnown *time.Time) (time.Time, error) {
	today = Midnight(today)
	base := Midnight(start)
	if lastKnown != nil && lastKnown.After(base) {
		base = Midnight(*lastKnown)
	}

	next, err := Step(base, cycle)
	if err != nil {
		return time.Time{}, err
	}
	for next.Before(today) {
		next, err = Step(next, cycle)
		if err != nil {
			return time.Time{}, err
		}
	}
	return next, nil
}

// Step advances a date by exactly one billing cycle. Month-based cycles use
// calendar arithmetic that clamps to the last valid day of the target month,
// and the clamp compounds: stepping monthly from Jan 31 yields Feb 28/29, then
// Mar 28/29, never returning to day 31.
func Step(d time.Time, cycle model.BillingCycle) (time.Time, error) {
	d = Midnight(d)
	switch cycle {
	case model.CycleWeekly:
		return d.AddDate(0, 0, 7), nil
	case model.CycleMonthly:
		return addMonthsClamped(d, 1), nil
	case model.CycleQuarterly:
		return addMonthsClamped(d, 3), nil
	case model.CycleYearly:
		return addMonthsClamped(d, 12), nil
	case model.CycleBiAnnually:
		return addMonthsClamped(d, 24), nil
	case model.CycleOther:
		return time.Time{}, ErrUnschedulable
	default:
		panic(fmt.Sprintf("renewal: unknown billing cycle %q", cycle))
	}
}

// Midnight truncates a time to its date in UTC. All schedule arithmetic works
// at date resolution.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// addMonthsClamped adds months without the day-of-month overflow of
// time.AddDate (which turns Jan 31 + 1 month into Mar 3). Days past the end
// of the target month clamp to its last day.
func addMonthsClamped(d time.Time, months int) time.Time {
	year, month, day := d.Date()
	total := int(month) - 1 + months
	year += total / 12
	month = time.Month(total%12 + 1)
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
