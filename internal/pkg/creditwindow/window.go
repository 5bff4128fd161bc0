package creditwindow

import (
	"time"
)

// State of a lead share's credit window.
type State string

const (
	StateActive   State = "active"
	StateExpiring State = "expiring"
	StateExpired  State = "expired"
	StateCredited State = "credited"
)

// ExpiringThresholdDays is the remaining-day count at which an active
// window starts counting as expiring.
const ExpiringThresholdDays = 2

// DefaultAlertHorizonDays is the default look-ahead for alert listings.
const DefaultAlertHorizonDays = 3

// Status is the computed temporal state of one lead share.
type Status struct {
	State         State `json:"state"`
	DaysRemaining int   `json:"days_remaining"`
}

// DaysRemaining returns the whole calendar days left until expiresAt,
// as a ceiling over the remaining duration, clamped at 0. Exactly
// elapsed windows count as 0 (the boundary is inclusive of expiry).
func DaysRemaining(expiresAt, now time.Time) int {
	if !now.Before(expiresAt) {
		return 0
	}
	remaining := expiresAt.Sub(now)
	day := 24 * time.Hour
	return int((remaining + day - 1) / day)
}

// ComputeStatus classifies a share's credit window at the given instant.
// It is the single place the day-difference formula lives; callers must
// not recompute it. A recorded credit is terminal regardless of the
// remaining time, as is expiry.
func ComputeStatus(expiresAt time.Time, credited bool, now time.Time) Status {
	days := DaysRemaining(expiresAt, now)
	if credited {
		return Status{State: StateCredited, DaysRemaining: days}
	}
	if !now.Before(expiresAt) {
		return Status{State: StateExpired, DaysRemaining: 0}
	}
	if days <= ExpiringThresholdDays {
		return Status{State: StateExpiring, DaysRemaining: days}
	}
	return Status{State: StateActive, DaysRemaining: days}
}

// CanCredit reports whether a credit-back is still admissible for a
// window in the given state. Only active and expiring windows accept
// credits; expired and already-credited windows refuse them.
func CanCredit(s State) bool {
	return s == StateActive || s == StateExpiring
}
