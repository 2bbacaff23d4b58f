package model

import (
	"fmt"
	"strings"
)

// BillingCycle describes how often a subscription is charged.
type BillingCycle string

const (
	// CycleMonthly bills once per calendar month.
	CycleMonthly BillingCycle = "monthly"
	// CycleYearly bills once per calendar year.
	CycleYearly BillingCycle = "yearly"
	// CycleQuarterly bills once every three months.
	CycleQuarterly BillingCycle = "quarterly"
	// CycleBiAnnually bills once every two years.
	CycleBiAnnually BillingCycle = "bi-annually"
	// CycleWeekly bills once every seven days.
	CycleWeekly BillingCycle = "weekly"
	// CycleOther marks a cadence the scheduler cannot compute.
	CycleOther BillingCycle = "other"
)

// ParseBillingCycle converts a stored string value into a BillingCycle.
func ParseBillingCycle(s string) (BillingCycle, error) {
	switch BillingCycle(strings.ToLower(strings.TrimSpace(s))) {
	case CycleMonthly:
		return CycleMonthly, nil
	case CycleYearly:
		return CycleYearly, nil
	case CycleQuarterly:
		return CycleQuarterly, nil
	case CycleBiAnnually:
		return CycleBiAnnually, nil
	case CycleWeekly:
		return CycleWeekly, nil
	case CycleOther:
		return CycleOther, nil
	default:
		return "", fmt.Errorf("invalid billing cycle: %q", s)
	}
}

// Valid reports whether the cycle is one of the known values.
func (c BillingCycle) Valid() bool {
	switch c {
	case CycleMonthly, CycleYearly, CycleQuarterly, CycleBiAnnually, CycleWeekly, CycleOther:
		return true
	default:
		return false
	}
}

// Schedulable reports whether a renewal date can be computed for the cycle.
func (c BillingCycle) Schedulable() bool {
	return c.Valid() && c != CycleOther
}
