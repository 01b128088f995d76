// Package health decides whether a signed-in account is legitimate or an
// abandoned signup that should collect strikes and eventually be removed.
package health

import (
	"time"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
)

// Outcome of an evaluation
type Outcome string

const (
	// Healthy accounts continue; any earlier strikes have been cleared.
	Healthy Outcome = "healthy"
	// Grace accounts are new enough to be left alone.
	Grace Outcome = "grace"
	// Strike accounts are rejected for this session.
	Strike Outcome = "strike"
	// Remove accounts reached the strike threshold.
	Remove Outcome = "remove"
)

// Policy holds the timing and threshold knobs
type Policy struct {
	Grace         time.Duration
	ExtendedGrace time.Duration
	Cooldown      time.Duration
	MaxStrikes    int
}

func DefaultPolicy() Policy {
	return Policy{
		Grace:         10 * time.Minute,
		ExtendedGrace: 26 * time.Hour,
		Cooldown:      time.Minute,
		MaxStrikes:    3,
	}
}

// State is the account data the policy looks at
type State struct {
	SubscriptionSelected bool
	PlanName             string
	Credits              int
	FirstSeen            time.Time

	Strikes           int
	LastStrikeAt      *time.Time
	Quarantined       bool
	PendingHardDelete bool
}

// Decision carries the outcome and the state to persist when Changed
type Decision struct {
	Outcome Outcome
	State   State
	Changed bool
}

// Evaluate applies the policy at time now
func (p Policy) Evaluate(s State, now time.Time) Decision {
	_, planErr := plan.Parse(s.PlanName)
	hasPlanHint := planErr == nil
	legit := s.SubscriptionSelected || s.Credits > 0 || hasPlanHint
	age := now.Sub(s.FirstSeen)

	if legit {
		// A plan name with zero credits and no confirmed selection usually
		// means checkout is still settling; give it the extended window.
		if hasPlanHint && s.Credits == 0 && !s.SubscriptionSelected {
			if age < p.ExtendedGrace {
				return Decision{Outcome: Grace, State: s}
			}
		} else {
			if s.Strikes > 0 || s.Quarantined || s.PendingHardDelete {
				s.Strikes = 0
				s.Quarantined = false
				s.PendingHardDelete = false
				return Decision{Outcome: Healthy, State: s, Changed: true}
			}
			return Decision{Outcome: Healthy, State: s}
		}
	}

	if age < p.Grace {
		return Decision{Outcome: Grace, State: s}
	}

	changed := false
	if s.LastStrikeAt == nil || now.Sub(*s.LastStrikeAt) > p.Cooldown {
		s.Strikes++
		at := now
		s.LastStrikeAt = &at
		changed = true
	}

	if s.Strikes >= p.MaxStrikes {
		return Decision{Outcome: Remove, State: s, Changed: changed}
	}
	return Decision{Outcome: Strike, State: s, Changed: changed}
}

// Quarantine marks the state for a later hard delete, used when removing
// the account outright failed.
func Quarantine(s State) State {
	s.Quarantined = true
	s.PendingHardDelete = true
	return s
}
