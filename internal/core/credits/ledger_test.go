package credits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
)

var t0 = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

func TestDebit_ReducesByExactlyCost(t *testing.T) {
	l := NewLedger(10, 24*time.Hour)

	for start := 10; start <= 200; start += 7 {
		b := Balance{Plan: plan.Pro, Credits: start}
		_, err := l.Debit(&b, t0)
		require.NoError(t, err)
		assert.Equal(t, start-10, b.Credits)
		assert.GreaterOrEqual(t, b.Credits, 0)
	}
}

func TestDebit_RefusesBelowCost(t *testing.T) {
	l := NewLedger(10, 24*time.Hour)

	for _, start := range []int{0, 1, 9} {
		b := Balance{Plan: plan.Basic, Credits: start}
		stamped, err := l.Debit(&b, t0)
		assert.ErrorIs(t, err, ErrInsufficientCredits)
		assert.False(t, stamped)
		assert.Equal(t, start, b.Credits)
		assert.Nil(t, b.DepletedAt)
	}
}

func TestDebit_StampsDepletionOnce(t *testing.T) {
	l := NewLedger(10, 24*time.Hour)
	b := Balance{Plan: plan.Pro, Credits: 20}

	stamped, err := l.Debit(&b, t0)
	require.NoError(t, err)
	assert.False(t, stamped)
	assert.Nil(t, b.DepletedAt)

	stamped, err = l.Debit(&b, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, stamped)
	require.NotNil(t, b.DepletedAt)
	assert.Equal(t, t0.Add(time.Minute), *b.DepletedAt)

	// a failed debit at zero never moves the stamp
	_, err = l.Debit(&b, t0.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.Equal(t, t0.Add(time.Minute), *b.DepletedAt)
}

func TestDebit_KeepsExistingStamp(t *testing.T) {
	l := NewLedger(10, 24*time.Hour)
	earlier := t0.Add(-time.Hour)
	b := Balance{Plan: plan.Pro, Credits: 10, DepletedAt: &earlier}

	stamped, err := l.Debit(&b, t0)
	require.NoError(t, err)
	assert.False(t, stamped)
	assert.Equal(t, earlier, *b.DepletedAt)
}

func TestCountdown(t *testing.T) {
	l := NewLedger(10, 24*time.Hour)
	depleted := t0
	b := Balance{Plan: plan.Premium, Credits: 0, DepletedAt: &depleted}

	next, ok := l.NextRefillAt(b)
	require.True(t, ok)
	assert.Equal(t, t0.Add(24*time.Hour), next)

	assert.Equal(t, 24*time.Hour, l.Countdown(b, t0))
	assert.Equal(t, time.Nanosecond, l.Countdown(b, next.Add(-time.Nanosecond)))
	assert.Equal(t, time.Duration(0), l.Countdown(b, next))
	assert.Equal(t, time.Duration(0), l.Countdown(b, next.Add(time.Hour)))

	assert.False(t, l.RefillDue(b, next.Add(-time.Nanosecond)))
	assert.True(t, l.RefillDue(b, next))
}

func TestCountdown_NoRefillPending(t *testing.T) {
	l := NewLedger(10, 24*time.Hour)
	depleted := t0

	tests := []struct {
		name string
		b    Balance
	}{
		{"basic plan never refills", Balance{Plan: plan.Basic, Credits: 0, DepletedAt: &depleted}},
		{"balance not zero", Balance{Plan: plan.Pro, Credits: 10, DepletedAt: &depleted}},
		{"no stamp", Balance{Plan: plan.Pro, Credits: 0}},
		{"no plan", Balance{Credits: 0, DepletedAt: &depleted}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := l.NextRefillAt(tt.b)
			assert.False(t, ok)
			assert.Equal(t, time.Duration(0), l.Countdown(tt.b, t0))
			assert.False(t, l.RefillDue(tt.b, t0.Add(48*time.Hour)))
		})
	}
}

func TestRefill(t *testing.T) {
	l := NewLedger(10, 24*time.Hour)
	depleted := t0
	b := Balance{Plan: plan.Pro, Credits: 0, DepletedAt: &depleted}

	assert.Equal(t, 0, l.Refill(&b, t0.Add(23*time.Hour)))
	assert.Equal(t, 0, b.Credits)
	assert.NotNil(t, b.DepletedAt)

	assert.Equal(t, 200, l.Refill(&b, t0.Add(24*time.Hour)))
	assert.Equal(t, 200, b.Credits)
	assert.Nil(t, b.DepletedAt)

	// idempotent once restored
	assert.Equal(t, 0, l.Refill(&b, t0.Add(72*time.Hour)))
	assert.Equal(t, 200, b.Credits)
}

func TestGrant_ClearsStamp(t *testing.T) {
	l := NewLedger(10, 24*time.Hour)
	depleted := t0
	b := Balance{Plan: plan.Pro, Credits: 0, DepletedAt: &depleted}

	require.NoError(t, l.Grant(&b, 20))
	assert.Equal(t, 20, b.Credits)
	assert.Nil(t, b.DepletedAt)

	assert.ErrorIs(t, l.Grant(&b, 0), ErrInvalidAmount)
	assert.ErrorIs(t, l.Grant(&b, -5), ErrInvalidAmount)
}

func TestApplyPlan(t *testing.T) {
	l := NewLedger(10, 24*time.Hour)
	depleted := t0

	t.Run("paid plan resets to quota", func(t *testing.T) {
		b := Balance{Plan: plan.Basic, Credits: 0, DepletedAt: &depleted}
		granted := l.ApplyPlan(&b, plan.Premium, true)
		assert.Equal(t, 1000, granted)
		assert.Equal(t, 1000, b.Credits)
		assert.Equal(t, plan.Premium, b.Plan)
		assert.Nil(t, b.DepletedAt)
	})

	t.Run("basic granted once", func(t *testing.T) {
		b := Balance{Credits: 0}
		assert.Equal(t, 50, l.ApplyPlan(&b, plan.Basic, false))
		assert.Equal(t, 50, b.Credits)

		b = Balance{Plan: plan.Pro, Credits: 30}
		assert.Equal(t, 0, l.ApplyPlan(&b, plan.Basic, true))
		assert.Equal(t, 30, b.Credits)
		assert.Equal(t, plan.Basic, b.Plan)
	})
}

func TestFormatCountdown(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatCountdown(0))
	assert.Equal(t, "00:00:00", FormatCountdown(-time.Second))
	assert.Equal(t, "00:00:00", FormatCountdown(999*time.Millisecond))
	assert.Equal(t, "00:00:01", FormatCountdown(1500*time.Millisecond))
	assert.Equal(t, "23:59:59", FormatCountdown(24*time.Hour-time.Second))
	assert.Equal(t, "24:00:00", FormatCountdown(24*time.Hour))
}

func TestNewLedger_Defaults(t *testing.T) {
	l := NewLedger(0, 0)
	assert.Equal(t, DefaultCost, l.Cost())
	assert.Equal(t, DefaultRefillWindow, l.Window())
}
