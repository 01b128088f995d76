package services

import (
	"context"
	"time"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/checkout"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/credits"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/idempotency"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/payment"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/models"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/repositories/repotest"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time           { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeGateway answers transaction lookups from a map; unknown ids are
// reported as not found, like the provider does.
type fakeGateway map[string]*payment.TransactionStatus

func (g fakeGateway) GetStatus(_ context.Context, id string) (*payment.TransactionStatus, error) {
	if tx, ok := g[id]; ok {
		return tx, nil
	}
	return nil, payment.ErrTransactionNotFound
}

func (fakeGateway) Name() string { return "fake" }

type fixture struct {
	accounts *AccountService
	users    *repotest.Users
	scripts  *repotest.Scripts
	events   *repotest.Events
	idem     *idempotency.MemoryStore
	payments fakeGateway
	ledger   *credits.Ledger
	clock    *clock
}

func newFixture(seed ...models.User) *fixture {
	f := &fixture{
		users:    repotest.NewUsers(seed...),
		scripts:  repotest.NewScripts(),
		events:   repotest.NewEvents(),
		idem:     idempotency.NewMemoryStore(time.Hour),
		payments: fakeGateway{},
		ledger:   credits.NewLedger(10, 24*time.Hour),
		clock:    &clock{now: t0},
	}
	links := checkout.Links{
		plan.Pro:     "https://pay.example.com/pro",
		plan.Premium: "https://pay.example.com/premium",
	}
	f.accounts = NewAccountService(f.users, f.events, f.ledger, links, f.idem, f.payments, AccountOptions{
		Reward:         20,
		RewardDailyCap: 2,
		Origin:         "https://app.example.com",
	})
	f.accounts.now = f.clock.Now
	return f
}

// paid registers a completed transaction for uid buying p
func (f *fixture) paid(txID, uid string, p plan.Plan) *payment.TransactionStatus {
	tx := &payment.TransactionStatus{
		TransactionID: txID,
		Status:        payment.StatusPaid,
		Plan:          p,
		UID:           uid,
		CustomerID:    "ctm_" + uid,
	}
	f.payments[txID] = tx
	return tx
}

func paidUser(uid string, p plan.Plan, credits int) models.User {
	return models.User{
		UID:                  uid,
		Email:                uid + "@example.com",
		SubscriptionPlan:     p.String(),
		SubscriptionSelected: true,
		Credits:              credits,
		FirstSeen:            t0.Add(-48 * time.Hour),
	}
}

func ptr[T any](v T) *T { return &v }
