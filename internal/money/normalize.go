// Package money normalizes subscription costs across billing cycles so they
// can be compared on a monthly or annual basis.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/subtrackr/subtrackr/internal/model"
)

// Period is the target period for cost normalization.
type Period string

const (
	// PeriodMonthly normalizes costs to a per-month figure.
	PeriodMonthly Period = "monthly"
	// PeriodAnnually normalizes costs to a per-year figure.
	PeriodAnnually Period = "annually"
)

// ErrInvalidPeriod is returned for any period other than monthly or annually.
var ErrInvalidPeriod = errors.New("period must be 'monthly' or 'annually'")

// ParsePeriod converts user input into a Period.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodMonthly:
		return PeriodMonthly, nil
	case PeriodAnnually:
		return PeriodAnnually, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidPeriod, s)
	}
}

// AnnualFactor returns how many times a billing cycle occurs per year.
// CycleOther is non-recurring and contributes nothing to recurring costs.
func AnnualFactor(cycle model.BillingCycle) float64 {
	switch cycle {
	case model.CycleMonthly:
		return 12
	case model.CycleYearly:
		return 1
	case model.CycleQuarterly:
		return 4
	case model.CycleWeekly:
		return 52
	case model.CycleBiAnnually:
		return 0.5
	case model.CycleOther:
		return 0
	default:
		panic(fmt.Sprintf("money: unknown billing cycle %q", cycle))
	}
}

// Normalize converts a cost at the given billing cycle into an equivalent
// figure for the target period.
func Normalize(cost float64, cycle model.BillingCycle, period Period) (float64, error) {
	annual := cost * AnnualFactor(cycle)
	switch period {
	case PeriodMonthly:
		if annual <= 0 {
			return 0, nil
		}
		return annual / 12, nil
	case PeriodAnnually:
		return annual, nil
	default:
		return 0, fmt.Errorf("%w: got %q", ErrInvalidPeriod, period)
	}
}
