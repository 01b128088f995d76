package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/checkout"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/credits"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/health"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/idempotency"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/payment"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/models"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/repositories"
)

// Identity is a verified sign-in
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	// ClaimBasic is set by the sign-up flow: a new account starts on Basic
	// with its one-time credits instead of empty.
	ClaimBasic bool
}

// FinalizeRequest is what the checkout success page reports back
type FinalizeRequest struct {
	Passthrough      string `json:"passthrough"`
	UID              string `json:"uid"`
	Email            string `json:"email"`
	CustomerEmail    string `json:"customer_email"`
	Plan             string `json:"plan"`
	TransactionID    string `json:"transaction_id"`
	PaddleCustomerID string `json:"paddle_customer_id"`
}

// AccountOptions carries the tunables from config
type AccountOptions struct {
	Reward         int
	RewardDailyCap int
	Origin         string
	Policy         health.Policy
}

type AccountService struct {
	users    repositories.UserRepo
	events   audit.Recorder
	ledger   *credits.Ledger
	links    checkout.Links
	idem     idempotency.Store
	payments payment.Gateway
	opts     AccountOptions
	now      func() time.Time
}

func NewAccountService(
	users repositories.UserRepo,
	events audit.Recorder,
	ledger *credits.Ledger,
	links checkout.Links,
	idem idempotency.Store,
	payments payment.Gateway,
	opts AccountOptions,
) *AccountService {
	if opts.Policy == (health.Policy{}) {
		opts.Policy = health.DefaultPolicy()
	}
	if opts.Reward <= 0 {
		opts.Reward = 20
	}
	return &AccountService{
		users:    users,
		events:   events,
		ledger:   ledger,
		links:    links,
		idem:     idem,
		payments: payments,
		opts:     opts,
		now:      time.Now,
	}
}

// SignIn loads or creates the account for id and runs the health policy.
// ErrAccountRejected and ErrAccountRemoved mean no session may be issued.
func (s *AccountService) SignIn(ctx context.Context, id Identity) (*SignInResult, error) {
	if strings.TrimSpace(id.UID) == "" {
		return nil, fmt.Errorf("%w: missing uid", ErrInvalidRequest)
	}

	created := false
	u, err := s.users.Get(ctx, id.UID)
	if err != nil {
		if notFound(err) != ErrNotFound {
			return nil, fmt.Errorf("failed to load account: %w", err)
		}
		u, err = s.create(ctx, id)
		if err != nil {
			return nil, err
		}
		created = true
	}

	outcome, err := s.EvaluateHealth(ctx, u)
	if err != nil {
		return nil, err
	}
	switch outcome {
	case health.Strike:
		return nil, ErrAccountRejected
	case health.Remove:
		return nil, ErrAccountRemoved
	}

	u, _, err = s.refillIfDue(ctx, u, "sign_in")
	if err != nil {
		return nil, err
	}

	log.Info().Str("uid", u.UID).Bool("created", created).Str("health", string(outcome)).Msg("👤 Sign-in")
	return &SignInResult{Account: s.view(u), Created: created}, nil
}

func (s *AccountService) create(ctx context.Context, id Identity) (*models.User, error) {
	u := &models.User{
		UID:         id.UID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		FirstSeen:   s.now(),
	}
	granted := 0
	if id.ClaimBasic {
		b := u.Balance()
		granted = s.ledger.ApplyPlan(&b, plan.Basic, false)
		u.SetBalance(b)
		u.BasicClaimed = true
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	if granted > 0 {
		s.record(ctx, u.UID, audit.ActionGrant, granted, u.Credits, map[string]interface{}{"reason": "signup"})
	}
	return u, nil
}

// EvaluateHealth applies the strike policy to u and persists the result.
// A Remove outcome deletes the account, falling back to quarantine when
// the delete fails.
func (s *AccountService) EvaluateHealth(ctx context.Context, u *models.User) (health.Outcome, error) {
	d := s.opts.Policy.Evaluate(u.HealthState(), s.now())
	metrics.HealthOutcomes.WithLabelValues(string(d.Outcome)).Inc()

	if d.Outcome == health.Remove {
		s.record(ctx, u.UID, audit.ActionRemove, 0, u.Credits, map[string]interface{}{"strikes": d.State.Strikes})
		if err := s.users.Delete(ctx, u.UID); err != nil {
			log.Warn().Err(err).Str("uid", u.UID).Msg("account removal failed, quarantining")
			q := health.Quarantine(d.State)
			if _, err := s.users.Update(ctx, u.UID, func(row *models.User) error {
				row.SetHealthState(q)
				return nil
			}); err != nil {
				return "", fmt.Errorf("failed to quarantine account: %w", err)
			}
			u.SetHealthState(q)
		}
		return health.Remove, nil
	}

	if d.Changed {
		if _, err := s.users.Update(ctx, u.UID, func(row *models.User) error {
			row.SetHealthState(d.State)
			return nil
		}); err != nil {
			return "", fmt.Errorf("failed to save account health: %w", notFound(err))
		}
		if d.Outcome == health.Strike {
			s.record(ctx, u.UID, audit.ActionStrike, 0, u.Credits, map[string]interface{}{"strikes": d.State.Strikes})
		}
	}
	u.SetHealthState(d.State)
	return d.Outcome, nil
}

// Get returns the account view, applying a due refill first
func (s *AccountService) Get(ctx context.Context, uid string) (*AccountView, error) {
	u, _, err := s.RefillIfDue(ctx, uid, "read")
	if err != nil {
		return nil, err
	}
	return s.view(u), nil
}

// RefreshCredits is the explicit refresh hook clients call before reading
// their balance.
func (s *AccountService) RefreshCredits(ctx context.Context, uid string) (*AccountView, error) {
	u, _, err := s.RefillIfDue(ctx, uid, "refresh")
	if err != nil {
		return nil, err
	}
	return s.view(u), nil
}

// RefillIfDue restores the plan quota when the refill window has elapsed.
// The returned bool reports whether this call performed the refill.
func (s *AccountService) RefillIfDue(ctx context.Context, uid, trigger string) (*models.User, bool, error) {
	u, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, false, notFound(err)
	}
	return s.refillIfDue(ctx, u, trigger)
}

var errNothingToDo = errors.New("nothing to do")

func (s *AccountService) refillIfDue(ctx context.Context, u *models.User, trigger string) (*models.User, bool, error) {
	now := s.now()
	if !s.ledger.RefillDue(u.Balance(), now) {
		return u, false, nil
	}

	restored := 0
	updated, err := s.users.Update(ctx, u.UID, func(row *models.User) error {
		b := row.Balance()
		restored = s.ledger.Refill(&b, now)
		if restored == 0 {
			return errNothingToDo
		}
		row.SetBalance(b)
		return nil
	})
	if errors.Is(err, errNothingToDo) {
		// Someone else refilled between our read and the lock.
		fresh, err := s.users.Get(ctx, u.UID)
		if err != nil {
			return nil, false, notFound(err)
		}
		return fresh, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to refill credits: %w", notFound(err))
	}

	metrics.RefillsTotal.WithLabelValues(trigger).Inc()
	s.record(ctx, updated.UID, audit.ActionRefill, restored, updated.Credits, map[string]interface{}{
		"plan":    updated.SubscriptionPlan,
		"trigger": trigger,
	})
	log.Info().Str("uid", updated.UID).Int("credits", restored).Str("plan", updated.SubscriptionPlan).Msg("✅ Credits restored")
	return updated, true, nil
}

// SelectBasic confirms the free plan. Its credits are granted only if they
// were never claimed before.
func (s *AccountService) SelectBasic(ctx context.Context, uid string, confirmed bool) (*AccountView, error) {
	u, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, notFound(err)
	}
	if plan.NeedsSwitchConfirmation(confirmedPlan(u), plan.Basic) && !confirmed {
		return nil, ErrConfirmationRequired
	}

	granted := 0
	updated, err := s.users.Update(ctx, uid, func(row *models.User) error {
		granted = s.applyPlan(row, plan.Basic)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select Basic: %w", notFound(err))
	}

	s.planChanged(ctx, updated, granted, nil)
	return s.view(updated), nil
}

// StartCheckout marks target as pending and returns the hosted checkout URL.
// Leaving an auto-refill paid plan needs confirmed set.
func (s *AccountService) StartCheckout(ctx context.Context, uid, email, target string, confirmed bool) (*CheckoutView, error) {
	p, err := plan.Parse(target)
	if err != nil {
		return nil, err
	}
	if !p.IsPaid() {
		return nil, fmt.Errorf("%w: %s does not go through checkout", ErrInvalidRequest, p)
	}

	u, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, notFound(err)
	}
	if plan.NeedsSwitchConfirmation(confirmedPlan(u), p) && !confirmed {
		return nil, ErrConfirmationRequired
	}

	if email == "" {
		email = u.Email
	}
	url, err := s.links.BuildURL(p, uid, email, s.opts.Origin)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.Update(ctx, uid, func(row *models.User) error {
		row.PendingPlan = p.String()
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to mark pending plan: %w", notFound(err))
	}

	log.Info().Str("uid", uid).Str("plan", p.String()).Msg("💳 Checkout started")
	return &CheckoutView{Plan: p.String(), URL: url}, nil
}

// FinalizeCheckout applies the plan from a completed checkout. The
// transaction is looked up at the payment provider first: it must be paid,
// for the requested plan, and opened for the same account. Replays of the
// same transaction id leave the account untouched.
func (s *AccountService) FinalizeCheckout(ctx context.Context, req FinalizeRequest) (*FinalizeResult, error) {
	if req.Passthrough != "" {
		pt, err := checkout.Decode(req.Passthrough)
		if err != nil {
			log.Warn().Err(err).Msg("ignoring undecodable passthrough")
		} else {
			req.UID = firstNonEmpty(req.UID, pt.UID)
			req.Email = firstNonEmpty(req.Email, pt.Email)
			req.Plan = firstNonEmpty(req.Plan, pt.Plan)
		}
	}

	uid := strings.TrimSpace(req.UID)
	if uid == "" {
		return nil, fmt.Errorf("%w: missing uid", ErrInvalidRequest)
	}
	p, err := plan.Parse(req.Plan)
	if err != nil {
		return nil, err
	}
	if !p.IsPaid() {
		return nil, fmt.Errorf("%w: %s is selected with select-basic, not checkout", ErrInvalidRequest, p)
	}
	txID := strings.TrimSpace(req.TransactionID)
	if txID == "" {
		return nil, fmt.Errorf("%w: missing transaction_id", ErrInvalidRequest)
	}

	tx, err := s.verifyTransaction(ctx, txID, uid, p)
	if err != nil {
		return nil, err
	}

	key := "finalize:" + txID
	claimed, err := s.idem.Claim(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("transaction_id", txID).Msg("idempotency store unavailable, applying anyway")
		key = ""
	} else if !claimed {
		u, err := s.users.Get(ctx, uid)
		if err != nil {
			return nil, notFound(err)
		}
		return &FinalizeResult{Account: s.view(u), Duplicate: true}, nil
	}

	granted := 0
	updated, err := s.users.Update(ctx, uid, func(row *models.User) error {
		granted = s.applyPlan(row, p)
		if customer := firstNonEmpty(tx.CustomerID, req.PaddleCustomerID); customer != "" {
			row.PaddleCustomerID = customer
		}
		row.LastTransactionID = txID
		if row.Email == "" {
			row.Email = firstNonEmpty(tx.Email, req.CustomerEmail, req.Email)
		}
		return nil
	})
	if err != nil {
		if key != "" {
			if rerr := s.idem.Release(ctx, key); rerr != nil {
				log.Warn().Err(rerr).Str("transaction_id", txID).Msg("failed to release idempotency key")
			}
		}
		return nil, fmt.Errorf("failed to finalize checkout: %w", notFound(err))
	}

	s.planChanged(ctx, updated, granted, map[string]interface{}{"transaction_id": txID})
	return &FinalizeResult{Account: s.view(updated)}, nil
}

func (s *AccountService) verifyTransaction(ctx context.Context, txID, uid string, p plan.Plan) (*payment.TransactionStatus, error) {
	tx, err := s.payments.GetStatus(ctx, txID)
	if errors.Is(err, payment.ErrTransactionNotFound) {
		return nil, fmt.Errorf("%w: unknown transaction", ErrPaymentNotVerified)
	}
	if err != nil {
		log.Error().Err(err).Str("transaction_id", txID).Str("gateway", s.payments.Name()).Msg("❌ Transaction lookup failed")
		return nil, ErrPaymentUnavailable
	}

	reject := ""
	switch {
	case !tx.Paid():
		reject = "transaction is " + tx.Status
	case tx.Plan != p:
		reject = "transaction did not buy " + p.String()
	case tx.UID != uid:
		reject = "transaction belongs to another account"
	}
	if reject != "" {
		log.Warn().Str("uid", uid).Str("transaction_id", txID).Str("reason", reject).Msg("⚠️ Checkout finalize refused")
		return nil, fmt.Errorf("%w: %s", ErrPaymentNotVerified, reject)
	}
	return tx, nil
}

// applyPlan confirms p on row and returns the credits granted
func (s *AccountService) applyPlan(row *models.User, p plan.Plan) int {
	b := row.Balance()
	granted := s.ledger.ApplyPlan(&b, p, row.BasicClaimed)
	row.SetBalance(b)
	if p == plan.Basic {
		row.BasicClaimed = true
	}
	row.SubscriptionSelected = true
	row.PendingPlan = ""
	return granted
}

func (s *AccountService) planChanged(ctx context.Context, u *models.User, granted int, meta map[string]interface{}) {
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["plan"] = u.SubscriptionPlan
	metrics.PlanChanges.WithLabelValues(u.SubscriptionPlan).Inc()
	s.record(ctx, u.UID, audit.ActionPlanChange, granted, u.Credits, meta)
	log.Info().Str("uid", u.UID).Str("plan", u.SubscriptionPlan).Int("granted", granted).Msg("✅ Plan confirmed")
}

// EarnCredits grants the reward top-up, at most RewardDailyCap times per
// UTC day.
func (s *AccountService) EarnCredits(ctx context.Context, uid string) (*AccountView, error) {
	if _, err := s.users.Get(ctx, uid); err != nil {
		return nil, notFound(err)
	}

	if s.opts.RewardDailyCap > 0 {
		day := s.now().UTC().Format("2006-01-02")
		allowed := false
		for i := 1; i <= s.opts.RewardDailyCap; i++ {
			ok, err := s.idem.Claim(ctx, fmt.Sprintf("reward:%s:%s:%d", uid, day, i))
			if err != nil {
				log.Warn().Err(err).Str("uid", uid).Msg("reward cap check unavailable")
				allowed = true
				break
			}
			if ok {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, ErrRewardLimit
		}
	}

	updated, err := s.users.Update(ctx, uid, func(row *models.User) error {
		b := row.Balance()
		if err := s.ledger.Grant(&b, s.opts.Reward); err != nil {
			return err
		}
		row.SetBalance(b)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to grant reward: %w", notFound(err))
	}

	s.record(ctx, uid, audit.ActionGrant, s.opts.Reward, updated.Credits, map[string]interface{}{"reason": "reward"})
	return s.view(updated), nil
}

// Delete removes the account; its scripts go with it
func (s *AccountService) Delete(ctx context.Context, uid string) error {
	if err := s.users.Delete(ctx, uid); err != nil {
		return notFound(err)
	}
	s.record(ctx, uid, audit.ActionRemove, 0, 0, map[string]interface{}{"reason": "user_request"})
	log.Info().Str("uid", uid).Msg("🗑️ Account deleted")
	return nil
}

// History returns the newest credit events for uid
func (s *AccountService) History(ctx context.Context, uid string, limit int) ([]audit.CreditEvent, error) {
	return s.events.History(ctx, uid, limit)
}

func (s *AccountService) view(u *models.User) *AccountView {
	return newAccountView(u, s.ledger, s.now())
}

func (s *AccountService) record(ctx context.Context, uid, action string, amount, balance int, meta interface{}) {
	if err := s.events.Record(ctx, uid, action, amount, balance, meta); err != nil {
		log.Warn().Err(err).Str("uid", uid).Str("action", action).Msg("failed to record credit event")
	}
}

// confirmedPlan is the plan the user actually holds; a stored name without
// a confirmed selection is only a hint.
func confirmedPlan(u *models.User) plan.Plan {
	if !u.SubscriptionSelected {
		return ""
	}
	return u.Plan()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
