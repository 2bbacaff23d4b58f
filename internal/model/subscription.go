// Package model defines the core data types for the subtrackr application.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// UncategorizedLabel is the bucket used for subscriptions without a category.
const UncategorizedLabel = "Uncategorized"

// Validation errors.
var (
	ErrEmptyName     = errors.New("name must not be empty")
	ErrNegativeCost  = errors.New("cost must not be negative")
	ErrMissingStart  = errors.New("start date is required")
	ErrInvalidCycle  = errors.New("invalid billing cycle")
	ErrInvalidStatus = errors.New("invalid status")
)

// Subscription represents a single recurring subscription entry.
type Subscription struct {
	StartDate       time.Time
	NextRenewalDate *time.Time
	TrialEndDate    *time.Time
	ID              string
	Name            string
	Currency        string
	Category        string
	Notes           string
	URL             string
	Username        string
	ServiceProvider string
	PaymentMethod   string
	BillingCycle    BillingCycle
	Status          SubscriptionStatus
	Cost            float64
}

// Validate ensures the subscription has acceptable field values.
func (s *Subscription) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.Cost < 0 {
		return fmt.Errorf("%w: %.2f", ErrNegativeCost, s.Cost)
	}
	if s.StartDate.IsZero() {
		return ErrMissingStart
	}
	if !s.BillingCycle.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCycle, s.BillingCycle)
	}
	if !s.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, s.Status)
	}
	return nil
}

// ApplyTrialConsistency enforces the two-way coupling between status and
// trial end date: a set trial end date forces trial status, and a cleared
// trial end date moves a trial back to active. Applying it twice is a no-op.
func (s *Subscription) ApplyTrialConsistency() bool {
	switch {
	case s.TrialEndDate != nil && s.Status != StatusTrial:
		s.Status = StatusTrial
		return true
	case s.TrialEndDate == nil && s.Status == StatusTrial:
		s.Status = StatusActive
		return true
	default:
		return false
	}
}

// IsActive reports whether the subscription contributes to recurring costs.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// DisplayCategory returns the category label used for aggregation. The stored
// value is left untouched; blanks map to UncategorizedLabel.
func (s *Subscription) DisplayCategory() string {
	if c := strings.TrimSpace(s.Category); c != "" {
		return c
	}
	return UncategorizedLabel
}
