package model

import (
	"fmt"
	"strings"
)

// SubscriptionStatus describes the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	// StatusActive means the subscription is currently being charged.
	StatusActive SubscriptionStatus = "active"
	// StatusInactive means the subscription is paused but not cancelled.
	StatusInactive SubscriptionStatus = "inactive"
	// StatusCancelled means the subscription has been permanently ended.
	StatusCancelled SubscriptionStatus = "cancelled"
	// StatusTrial means the subscription is in a trial period with an end date.
	StatusTrial SubscriptionStatus = "trial"
)

// ParseStatus converts a stored string value into a SubscriptionStatus.
func ParseStatus(s string) (SubscriptionStatus, error) {
	switch SubscriptionStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	case StatusCancelled:
		return StatusCancelled, nil
	case StatusTrial:
		return StatusTrial, nil
	default:
		return "", fmt.Errorf("invalid status: %q", s)
	}
}

// Valid reports whether the status is one of the known values.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusCancelled, StatusTrial:
		return true
	default:
		return false
	}
}
