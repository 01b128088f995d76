package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

func abandoned(age time.Duration) State {
	return State{FirstSeen: now.Add(-age)}
}

func TestEvaluate_LegitAccounts(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name  string
		state State
	}{
		{"selected plan", State{SubscriptionSelected: true, FirstSeen: now.Add(-72 * time.Hour)}},
		{"has credits", State{Credits: 10, FirstSeen: now.Add(-72 * time.Hour)}},
		{"plan with credits", State{PlanName: "Pro", Credits: 200, FirstSeen: now.Add(-72 * time.Hour)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Evaluate(tt.state, now)
			assert.Equal(t, Healthy, d.Outcome)
			assert.False(t, d.Changed)
		})
	}
}

func TestEvaluate_LegitClearsStrikes(t *testing.T) {
	p := DefaultPolicy()
	last := now.Add(-time.Hour)
	s := State{
		SubscriptionSelected: true,
		FirstSeen:            now.Add(-72 * time.Hour),
		Strikes:              2,
		LastStrikeAt:         &last,
		Quarantined:          true,
		PendingHardDelete:    true,
	}

	d := p.Evaluate(s, now)
	assert.Equal(t, Healthy, d.Outcome)
	assert.True(t, d.Changed)
	assert.Zero(t, d.State.Strikes)
	assert.False(t, d.State.Quarantined)
	assert.False(t, d.State.PendingHardDelete)
}

func TestEvaluate_ExtendedGraceForPendingCheckout(t *testing.T) {
	p := DefaultPolicy()
	s := State{PlanName: "Premium", Credits: 0, FirstSeen: now.Add(-25 * time.Hour)}

	d := p.Evaluate(s, now)
	assert.Equal(t, Grace, d.Outcome)
	assert.False(t, d.Changed)

	s.FirstSeen = now.Add(-27 * time.Hour)
	d = p.Evaluate(s, now)
	assert.Equal(t, Strike, d.Outcome)
	assert.Equal(t, 1, d.State.Strikes)
}

func TestEvaluate_GraceWindow(t *testing.T) {
	p := DefaultPolicy()

	d := p.Evaluate(abandoned(9*time.Minute), now)
	assert.Equal(t, Grace, d.Outcome)

	d = p.Evaluate(abandoned(10*time.Minute), now)
	assert.Equal(t, Strike, d.Outcome)
	assert.True(t, d.Changed)
	assert.Equal(t, 1, d.State.Strikes)
	require.NotNil(t, d.State.LastStrikeAt)
	assert.Equal(t, now, *d.State.LastStrikeAt)
}

func TestEvaluate_StrikeAtMostOncePerCooldown(t *testing.T) {
	p := DefaultPolicy()
	s := abandoned(time.Hour)

	d := p.Evaluate(s, now)
	require.Equal(t, 1, d.State.Strikes)

	// repeated sign-ins within the cooldown do not add strikes
	for _, dt := range []time.Duration{time.Second, 30 * time.Second, time.Minute} {
		again := p.Evaluate(d.State, now.Add(dt))
		assert.Equal(t, 1, again.State.Strikes, "after %s", dt)
		assert.False(t, again.Changed)
		assert.Equal(t, Strike, again.Outcome)
	}

	later := p.Evaluate(d.State, now.Add(time.Minute+time.Second))
	assert.Equal(t, 2, later.State.Strikes)
	assert.True(t, later.Changed)
}

func TestEvaluate_RemovalAtThreshold(t *testing.T) {
	p := DefaultPolicy()
	s := abandoned(time.Hour)

	at := now
	var d Decision
	for i := 1; i <= p.MaxStrikes; i++ {
		d = p.Evaluate(s, at)
		s = d.State
		assert.Equal(t, i, s.Strikes)
		if i < p.MaxStrikes {
			assert.Equal(t, Strike, d.Outcome)
		}
		at = at.Add(2 * time.Minute)
	}
	assert.Equal(t, Remove, d.Outcome)

	// already past threshold inside cooldown still removes
	d = p.Evaluate(s, at.Add(-2*time.Minute+time.Second))
	assert.Equal(t, Remove, d.Outcome)
	assert.False(t, d.Changed)
}

func TestQuarantine(t *testing.T) {
	s := Quarantine(State{Strikes: 3})
	assert.True(t, s.Quarantined)
	assert.True(t, s.PendingHardDelete)
	assert.Equal(t, 3, s.Strikes)
}
