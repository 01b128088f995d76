package services

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/checkout"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/health"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/payment"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/models"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/repositories/repotest"
)

func TestSignIn_CreatesAccounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	res, err := f.accounts.SignIn(ctx, Identity{UID: "landing", Email: "l@example.com"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 0, res.Account.Credits)
	assert.Equal(t, "", res.Account.Plan)

	res, err = f.accounts.SignIn(ctx, Identity{UID: "signup", Email: "s@example.com", ClaimBasic: true})
	require.NoError(t, err)
	assert.Equal(t, 50, res.Account.Credits)
	assert.Equal(t, "Basic", res.Account.Plan)
	assert.False(t, res.Account.SubscriptionSelected)

	row, _ := f.users.Row("signup")
	assert.True(t, row.BasicClaimed)
	assert.Equal(t, []string{"grant"}, f.events.Actions("signup"))

	res, err = f.accounts.SignIn(ctx, Identity{UID: "signup"})
	require.NoError(t, err)
	assert.False(t, res.Created)

	_, err = f.accounts.SignIn(ctx, Identity{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSignIn_StrikesThenRemoves(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.accounts.SignIn(ctx, Identity{UID: "ghost"})
	require.NoError(t, err)

	f.clock.Advance(11 * time.Minute)
	_, err = f.accounts.SignIn(ctx, Identity{UID: "ghost"})
	assert.ErrorIs(t, err, ErrAccountRejected)

	// Inside the cooldown the strike count does not move.
	f.clock.Advance(30 * time.Second)
	_, err = f.accounts.SignIn(ctx, Identity{UID: "ghost"})
	assert.ErrorIs(t, err, ErrAccountRejected)
	row, _ := f.users.Row("ghost")
	assert.Equal(t, 1, row.HealthStrikes)

	f.clock.Advance(61 * time.Second)
	_, err = f.accounts.SignIn(ctx, Identity{UID: "ghost"})
	assert.ErrorIs(t, err, ErrAccountRejected)

	f.clock.Advance(61 * time.Second)
	_, err = f.accounts.SignIn(ctx, Identity{UID: "ghost"})
	assert.ErrorIs(t, err, ErrAccountRemoved)

	_, ok := f.users.Row("ghost")
	assert.False(t, ok)
	assert.Equal(t, []string{"strike", "strike", "remove"}, f.events.Actions("ghost"))
}

func TestEvaluateHealth_QuarantinesWhenDeleteFails(t *testing.T) {
	ctx := context.Background()
	u := models.User{UID: "stuck", FirstSeen: t0.Add(-time.Hour), HealthStrikes: 2}
	f := newFixture(u)
	f.users.Fails["Delete"] = repotest.ErrInjected

	outcome, err := f.accounts.EvaluateHealth(ctx, &u)
	require.NoError(t, err)
	assert.Equal(t, health.Remove, outcome)

	row, ok := f.users.Row("stuck")
	require.True(t, ok)
	assert.True(t, row.HealthQuarantined)
	assert.True(t, row.HealthPendingHardDelete)
	assert.Equal(t, 3, row.HealthStrikes)
}

func TestEvaluateHealth_ClearsStrikesOnceLegit(t *testing.T) {
	u := paidUser("back", plan.Pro, 200)
	u.HealthStrikes = 2
	u.HealthQuarantined = true
	f := newFixture(u)

	outcome, err := f.accounts.EvaluateHealth(context.Background(), &u)
	require.NoError(t, err)
	assert.Equal(t, health.Healthy, outcome)

	row, _ := f.users.Row("back")
	assert.Zero(t, row.HealthStrikes)
	assert.False(t, row.HealthQuarantined)
}

func TestRefresh_RestoresAfterWindow(t *testing.T) {
	ctx := context.Background()
	u := paidUser("pro", plan.Pro, 0)
	u.CreditDepletedAt = ptr(t0)
	f := newFixture(u)

	f.clock.Advance(23*time.Hour + 59*time.Minute)
	view, err := f.accounts.RefreshCredits(ctx, "pro")
	require.NoError(t, err)
	assert.Equal(t, 0, view.Credits)
	assert.Equal(t, "00:01:00", view.Countdown)
	assert.Equal(t, int64(60), view.CountdownSeconds)
	require.NotNil(t, view.NextRefillAt)
	assert.Equal(t, t0.Add(24*time.Hour), *view.NextRefillAt)

	f.clock.Advance(time.Minute)
	view, err = f.accounts.RefreshCredits(ctx, "pro")
	require.NoError(t, err)
	assert.Equal(t, 200, view.Credits)
	assert.Nil(t, view.CreditDepletedAt)
	assert.Empty(t, view.Countdown)
	assert.Equal(t, []string{"refill"}, f.events.Actions("pro"))

	_, err = f.accounts.RefreshCredits(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRefresh_BasicNeverRefills(t *testing.T) {
	u := paidUser("basic", plan.Basic, 0)
	u.CreditDepletedAt = ptr(t0.Add(-72 * time.Hour))
	f := newFixture(u)

	view, err := f.accounts.Get(context.Background(), "basic")
	require.NoError(t, err)
	assert.Equal(t, 0, view.Credits)
	assert.False(t, view.AutoRefill)
	assert.Nil(t, view.NextRefillAt)
	assert.False(t, view.CanGenerate)
}

func TestSelectBasic(t *testing.T) {
	ctx := context.Background()

	t.Run("grants once", func(t *testing.T) {
		f := newFixture(models.User{UID: "u", FirstSeen: t0})
		view, err := f.accounts.SelectBasic(ctx, "u", false)
		require.NoError(t, err)
		assert.Equal(t, 50, view.Credits)
		assert.True(t, view.SubscriptionSelected)

		view, err = f.accounts.SelectBasic(ctx, "u", false)
		require.NoError(t, err)
		assert.Equal(t, 50, view.Credits, "Basic credits are not granted twice")
	})

	t.Run("already claimed at signup", func(t *testing.T) {
		f := newFixture(models.User{UID: "u", FirstSeen: t0, SubscriptionPlan: "Basic", Credits: 30, BasicClaimed: true})
		view, err := f.accounts.SelectBasic(ctx, "u", false)
		require.NoError(t, err)
		assert.Equal(t, 30, view.Credits)
	})

	t.Run("leaving a paid plan needs confirmation", func(t *testing.T) {
		f := newFixture(paidUser("u", plan.Premium, 400))
		_, err := f.accounts.SelectBasic(ctx, "u", false)
		assert.ErrorIs(t, err, ErrConfirmationRequired)

		view, err := f.accounts.SelectBasic(ctx, "u", true)
		require.NoError(t, err)
		assert.Equal(t, "Basic", view.Plan)
		assert.Equal(t, 450, view.Credits)
	})
}

func TestStartCheckout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(paidUser("pro", plan.Pro, 100), models.User{UID: "new", Email: "n@example.com", FirstSeen: t0})

	view, err := f.accounts.StartCheckout(ctx, "new", "", "premium", false)
	require.NoError(t, err)
	assert.Equal(t, "Premium", view.Plan)

	u, err := url.Parse(view.URL)
	require.NoError(t, err)
	assert.Equal(t, "pay.example.com", u.Host)
	q := u.Query()
	assert.Equal(t, "n@example.com", q.Get("customer_email"))
	assert.Equal(t, "https://app.example.com/checkout/success", q.Get("success_url"))
	assert.Equal(t, "https://app.example.com/plans", q.Get("cancel_url"))

	pt, err := checkout.Decode(q.Get("passthrough"))
	require.NoError(t, err)
	assert.Equal(t, "new", pt.UID)
	assert.Equal(t, "Premium", pt.Plan)

	row, _ := f.users.Row("new")
	assert.Equal(t, "Premium", row.PendingPlan)

	_, err = f.accounts.StartCheckout(ctx, "pro", "", "Premium", false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	_, err = f.accounts.StartCheckout(ctx, "pro", "", "Premium", true)
	assert.NoError(t, err)

	_, err = f.accounts.StartCheckout(ctx, "new", "", "Basic", false)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = f.accounts.StartCheckout(ctx, "new", "", "Gold", false)
	assert.ErrorIs(t, err, plan.ErrUnknownPlan)
}

func TestFinalizeCheckout(t *testing.T) {
	ctx := context.Background()
	u := models.User{UID: "u1", FirstSeen: t0, PendingPlan: "Pro", CreditDepletedAt: ptr(t0)}
	f := newFixture(u)
	f.paid("txn_1", "u1", plan.Pro).CustomerID = "ctm_1"

	pt, err := checkout.Encode(checkout.Passthrough{UID: "u1", Email: "u1@example.com", Plan: "Pro", Source: checkout.SourceHostedCheckout})
	require.NoError(t, err)

	res, err := f.accounts.FinalizeCheckout(ctx, FinalizeRequest{
		Passthrough:   pt,
		TransactionID: "txn_1",
	})
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, "Pro", res.Account.Plan)
	assert.Equal(t, 200, res.Account.Credits)
	assert.True(t, res.Account.SubscriptionSelected)
	assert.Empty(t, res.Account.PendingPlan)
	assert.Nil(t, res.Account.CreditDepletedAt)

	row, _ := f.users.Row("u1")
	assert.Equal(t, "ctm_1", row.PaddleCustomerID)
	assert.Equal(t, "txn_1", row.LastTransactionID)
	assert.Equal(t, "u1@example.com", row.Email)

	// Spend some, then replay the same transaction: nothing changes.
	_, err = f.users.Update(ctx, "u1", func(r *models.User) error { r.Credits = 40; return nil })
	require.NoError(t, err)
	res, err = f.accounts.FinalizeCheckout(ctx, FinalizeRequest{UID: "u1", Plan: "Pro", TransactionID: "txn_1"})
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Equal(t, 40, res.Account.Credits)
	assert.Equal(t, []string{"plan_change"}, f.events.Actions("u1"))
}

func TestFinalizeCheckout_Rejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.User{UID: "u1", FirstSeen: t0})
	f.paid("t2", "nobody", plan.Pro)

	_, err := f.accounts.FinalizeCheckout(ctx, FinalizeRequest{Plan: "Pro", TransactionID: "t"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.accounts.FinalizeCheckout(ctx, FinalizeRequest{UID: "u1", Plan: "Pro"})
	assert.ErrorIs(t, err, ErrInvalidRequest, "paid plans need a transaction id")

	_, err = f.accounts.FinalizeCheckout(ctx, FinalizeRequest{UID: "u1", Plan: "Platinum", TransactionID: "t"})
	assert.ErrorIs(t, err, plan.ErrUnknownPlan)

	_, err = f.accounts.FinalizeCheckout(ctx, FinalizeRequest{UID: "nobody", Plan: "Pro", TransactionID: "t2"})
	assert.ErrorIs(t, err, ErrNotFound)

	// The failed attempt released its key, so a retry can go through.
	claimed, err := f.idem.Claim(ctx, "finalize:t2")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestFinalizeCheckout_UnverifiedTransactions(t *testing.T) {
	ctx := context.Background()
	victim := paidUser("victim", plan.Premium, 0)
	f := newFixture(models.User{UID: "basic", FirstSeen: t0.Add(-time.Hour), SubscriptionPlan: "Basic", SubscriptionSelected: true}, victim)
	f.paid("txn_pro", "basic", plan.Pro)
	f.payments["txn_open"] = &payment.TransactionStatus{TransactionID: "txn_open", Status: payment.StatusPending, Plan: plan.Premium, UID: "basic"}

	tests := []struct {
		name string
		req  FinalizeRequest
	}{
		{"made-up id", FinalizeRequest{UID: "basic", Plan: "Premium", TransactionID: "forged-1"}},
		{"another made-up id", FinalizeRequest{UID: "basic", Plan: "Premium", TransactionID: "forged-2"}},
		{"plan upgraded in request", FinalizeRequest{UID: "basic", Plan: "Premium", TransactionID: "txn_pro"}},
		{"someone else's purchase", FinalizeRequest{UID: "victim", Plan: "Pro", TransactionID: "txn_pro"}},
		{"not paid yet", FinalizeRequest{UID: "basic", Plan: "Premium", TransactionID: "txn_open"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.accounts.FinalizeCheckout(ctx, tt.req)
			assert.ErrorIs(t, err, ErrPaymentNotVerified)
		})
	}

	_, err := f.accounts.FinalizeCheckout(ctx, FinalizeRequest{UID: "victim", Plan: "Basic", TransactionID: "anything"})
	assert.ErrorIs(t, err, ErrInvalidRequest, "Basic is never applied through checkout")

	row, _ := f.users.Row("basic")
	assert.Equal(t, "Basic", row.SubscriptionPlan)
	assert.Equal(t, 0, row.Credits)
	row, _ = f.users.Row("victim")
	assert.Equal(t, "Premium", row.SubscriptionPlan)
	assert.Empty(t, f.events.Actions("basic"))

	// The real purchase still goes through afterwards.
	res, err := f.accounts.FinalizeCheckout(ctx, FinalizeRequest{UID: "basic", Plan: "Pro", TransactionID: "txn_pro"})
	require.NoError(t, err)
	assert.Equal(t, "Pro", res.Account.Plan)
	assert.Equal(t, 200, res.Account.Credits)
}

func TestFinalizeCheckout_GatewayDown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.User{UID: "u1", FirstSeen: t0})
	f.accounts.payments = downGateway{}

	_, err := f.accounts.FinalizeCheckout(ctx, FinalizeRequest{UID: "u1", Plan: "Pro", TransactionID: "txn_1"})
	assert.ErrorIs(t, err, ErrPaymentUnavailable)

	// Nothing was claimed, so the buyer can retry once the provider is back.
	claimed, err := f.idem.Claim(ctx, "finalize:txn_1")
	require.NoError(t, err)
	assert.True(t, claimed)
}

type downGateway struct{}

func (downGateway) GetStatus(context.Context, string) (*payment.TransactionStatus, error) {
	return nil, payment.ErrGatewayDisabled
}

func (downGateway) Name() string { return "down" }

func TestEarnCredits(t *testing.T) {
	ctx := context.Background()
	u := paidUser("u", plan.Pro, 0)
	u.CreditDepletedAt = ptr(t0)
	f := newFixture(u)

	view, err := f.accounts.EarnCredits(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 20, view.Credits)
	assert.Nil(t, view.CreditDepletedAt)

	_, err = f.accounts.EarnCredits(ctx, "u")
	require.NoError(t, err)
	_, err = f.accounts.EarnCredits(ctx, "u")
	assert.ErrorIs(t, err, ErrRewardLimit)

	row, _ := f.users.Row("u")
	assert.Equal(t, 40, row.Credits)
}

func TestDeleteAndHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(paidUser("u", plan.Pro, 200))

	_, err := f.accounts.EarnCredits(ctx, "u")
	require.NoError(t, err)

	events, err := f.accounts.History(ctx, "u", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 220, events[0].BalanceAfter)

	require.NoError(t, f.accounts.Delete(ctx, "u"))
	assert.ErrorIs(t, f.accounts.Delete(ctx, "u"), ErrNotFound)
}
