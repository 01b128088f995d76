package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
)

func TestUserBalanceRoundTrip(t *testing.T) {
	stamp := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	u := &User{SubscriptionPlan: "pro", Credits: 0, CreditDepletedAt: &stamp}

	b := u.Balance()
	assert.Equal(t, plan.Pro, b.Plan)
	assert.Equal(t, &stamp, b.DepletedAt)

	b.Credits = 200
	b.DepletedAt = nil
	u.SetBalance(b)
	assert.Equal(t, "Pro", u.SubscriptionPlan)
	assert.Equal(t, 200, u.Credits)
	assert.Nil(t, u.CreditDepletedAt)
}

func TestUserUnknownPlan(t *testing.T) {
	u := &User{SubscriptionPlan: "enterprise"}
	assert.Equal(t, plan.Plan(""), u.Plan())

	u.SetBalance(u.Balance())
	assert.Equal(t, "enterprise", u.SubscriptionPlan, "empty plan in the balance leaves the column alone")
}

func TestUserHealthState(t *testing.T) {
	u := &User{SubscriptionPlan: "Basic", Credits: 50, HealthStrikes: 2}
	s := u.HealthState()
	assert.Equal(t, "Basic", s.PlanName)
	assert.Equal(t, 2, s.Strikes)

	s.Strikes = 0
	s.Quarantined = true
	u.SetHealthState(s)
	assert.Equal(t, 0, u.HealthStrikes)
	assert.True(t, u.HealthQuarantined)
}

func TestUserHealthState_PendingCheckout(t *testing.T) {
	u := &User{PendingPlan: "Pro"}
	assert.Equal(t, "Pro", u.HealthState().PlanName)

	u = &User{SubscriptionPlan: "Basic", PendingPlan: "Premium"}
	assert.Equal(t, "Basic", u.HealthState().PlanName, "a stored plan wins over the pending one")

	u = &User{PendingPlan: "Gold"}
	assert.Empty(t, u.HealthState().PlanName)
}
