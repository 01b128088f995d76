package services

import (
	"time"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/credits"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/script"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/models"
)

// AccountView is what clients see of an account, countdown included
type AccountView struct {
	UID                  string     `json:"uid"`
	Email                string     `json:"email"`
	DisplayName          string     `json:"display_name,omitempty"`
	Plan                 string     `json:"plan"`
	SubscriptionSelected bool       `json:"subscription_selected"`
	PendingPlan          string     `json:"pending_plan,omitempty"`
	Credits              int        `json:"credits"`
	GenerationCost       int        `json:"generation_cost"`
	CanGenerate          bool       `json:"can_generate"`
	AutoRefill           bool       `json:"auto_refill"`
	CreditDepletedAt     *time.Time `json:"credit_depleted_at,omitempty"`
	NextRefillAt         *time.Time `json:"next_refill_at,omitempty"`
	Countdown            string     `json:"countdown,omitempty"`
	CountdownSeconds     int64      `json:"countdown_seconds"`
	RequestCount         int        `json:"request_count"`
}

func newAccountView(u *models.User, ledger *credits.Ledger, now time.Time) *AccountView {
	b := u.Balance()
	v := &AccountView{
		UID:                  u.UID,
		Email:                u.Email,
		DisplayName:          u.DisplayName,
		Plan:                 u.SubscriptionPlan,
		SubscriptionSelected: u.SubscriptionSelected,
		PendingPlan:          u.PendingPlan,
		Credits:              u.Credits,
		GenerationCost:       ledger.Cost(),
		CanGenerate:          ledger.CanAfford(b),
		AutoRefill:           b.Plan.AutoRefill(),
		CreditDepletedAt:     u.CreditDepletedAt,
		RequestCount:         u.RequestCount,
	}
	if next, ok := ledger.NextRefillAt(b); ok {
		left := ledger.Countdown(b, now)
		v.NextRefillAt = &next
		v.Countdown = credits.FormatCountdown(left)
		v.CountdownSeconds = int64(left / time.Second)
	}
	return v
}

// SignInResult is returned when a session may be issued
type SignInResult struct {
	Account *AccountView `json:"account"`
	Created bool         `json:"created"`
}

// CheckoutView points the client at the hosted checkout
type CheckoutView struct {
	Plan string `json:"plan"`
	URL  string `json:"url"`
}

// FinalizeResult reports the account after a checkout was applied
type FinalizeResult struct {
	Account   *AccountView `json:"account"`
	Duplicate bool         `json:"duplicate"`
}

// GenerationResult is the generate-review response. Response keeps the
// field name older clients read.
type GenerationResult struct {
	Response string           `json:"response"`
	Sections []script.Section `json:"sections"`
	ScriptID string           `json:"script_id,omitempty"`
	Account  *AccountView     `json:"account"`
}

// Attachment is a rendered download
type Attachment struct {
	Name        string
	ContentType string
	Body        []byte
}
