// Package credits implements the credit balance rules: debiting per
// generation, stamping depletion, the auto-refill countdown and restores.
//
// Everything here is pure arithmetic over a Balance; persistence and
// locking live in the repositories.
package credits

import (
	"errors"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
)

const (
	DefaultCost         = 10
	DefaultRefillWindow = 24 * time.Hour
)

var (
	ErrInsufficientCredits = errors.New("not enough credits")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

// Balance is the credit-bearing slice of a user record
type Balance struct {
	Plan       plan.Plan
	Credits    int
	DepletedAt *time.Time
}

// Ledger applies credit rules with a fixed cost and refill window
type Ledger struct {
	cost   int
	window time.Duration
}

func NewLedger(cost int, window time.Duration) *Ledger {
	if cost <= 0 {
		cost = DefaultCost
	}
	if window <= 0 {
		window = DefaultRefillWindow
	}
	return &Ledger{cost: cost, window: window}
}

func (l *Ledger) Cost() int {
	return l.cost
}

func (l *Ledger) Window() time.Duration {
	return l.window
}

// CanAfford reports whether one generation fits in the balance
func (l *Ledger) CanAfford(b Balance) bool {
	return b.Credits >= l.cost
}

// Debit takes one generation's cost from b. It returns true when this debit
// moved the balance to zero and stamped the depletion time.
func (l *Ledger) Debit(b *Balance, now time.Time) (bool, error) {
	if b.Credits < l.cost {
		return false, fmt.Errorf("%w: have %d, need %d", ErrInsufficientCredits, b.Credits, l.cost)
	}

	b.Credits -= l.cost
	if b.Credits == 0 && b.DepletedAt == nil {
		stamp := now
		b.DepletedAt = &stamp
		return true, nil
	}
	return false, nil
}

// NextRefillAt is depletion + window. ok is false when no refill is pending:
// the plan does not auto-refill, the balance is not zero, or nothing was stamped.
func (l *Ledger) NextRefillAt(b Balance) (time.Time, bool) {
	if !b.Plan.AutoRefill() || b.Credits != 0 || b.DepletedAt == nil {
		return time.Time{}, false
	}
	return b.DepletedAt.Add(l.window), true
}

// Countdown is the time left until the refill, clamped at zero
func (l *Ledger) Countdown(b Balance, now time.Time) time.Duration {
	next, ok := l.NextRefillAt(b)
	if !ok {
		return 0
	}
	remaining := next.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RefillDue reports whether a pending refill has reached its time
func (l *Ledger) RefillDue(b Balance, now time.Time) bool {
	next, ok := l.NextRefillAt(b)
	return ok && !now.Before(next)
}

// Refill restores the plan quota when due. Returns the credits restored.
func (l *Ledger) Refill(b *Balance, now time.Time) int {
	if !l.RefillDue(*b, now) {
		return 0
	}
	b.Credits = b.Plan.Quota()
	b.DepletedAt = nil
	return b.Credits
}

// Grant adds credits outside the plan quota (reward top-ups) and clears any
// depletion stamp so no stale countdown survives.
func (l *Ledger) Grant(b *Balance, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	b.Credits += amount
	b.DepletedAt = nil
	return nil
}

// ApplyPlan switches b to a confirmed plan and returns the credits granted.
// Paid plans reset the balance to their quota; Basic grants its quota only
// if it was never claimed before.
func (l *Ledger) ApplyPlan(b *Balance, p plan.Plan, basicClaimed bool) int {
	b.Plan = p

	granted := 0
	switch {
	case p.IsPaid():
		granted = p.Quota()
		b.Credits = granted
	case p == plan.Basic && !basicClaimed:
		granted = p.Quota()
		b.Credits += granted
	}

	if b.Credits > 0 {
		b.DepletedAt = nil
	}
	return granted
}

// FormatCountdown renders d as HH:MM:SS, truncating to whole seconds
func FormatCountdown(d time.Duration) string {
	if d <= 0 {
		return "00:00:00"
	}
	s := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
