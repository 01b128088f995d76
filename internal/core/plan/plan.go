// Package plan holds the fixed subscription tiers and their credit rules.
package plan

import (
	"errors"
	"strings"
)

// Plan is a subscription tier
type Plan string

const (
	Basic   Plan = "Basic"
	Pro     Plan = "Pro"
	Premium Plan = "Premium"
)

// ErrUnknownPlan is returned by Parse for names outside the catalog
var ErrUnknownPlan = errors.New("unknown plan")

// Tier describes what a plan grants
type Tier struct {
	Plan       Plan     `json:"plan"`
	Quota      int      `json:"quota"`
	AutoRefill bool     `json:"auto_refill"`
	GrantOnce  bool     `json:"grant_once"`
	Price      string   `json:"price"`
	Period     string   `json:"period"`
	Features   []string `json:"features"`
}

var tiers = map[Plan]Tier{
	Basic: {
		Plan:      Basic,
		Quota:     50,
		GrantOnce: true,
		Price:     "0.00",
		Period:    "/mo",
		Features: []string{
			"50 AI credits included (granted once)",
			"Scripts usable for professional purpose",
			"No auto-reload after 50 credits (manual top-up)",
		},
	},
	Pro: {
		Plan:       Pro,
		Quota:      200,
		AutoRefill: true,
		Price:      "6.46",
		Period:     "/mo",
		Features: []string{
			"200 AI credits included",
			"Scripts usable for professional purpose",
			"Auto-reload after 24h only if credits are 0",
		},
	},
	Premium: {
		Plan:       Premium,
		Quota:      1000,
		AutoRefill: true,
		Price:      "16.69",
		Period:     "/mo",
		Features: []string{
			"1000 AI credits included",
			"Scripts usable for professional purpose",
			"Auto-reload after 24h only if credits are 0",
		},
	},
}

// All returns the catalog in display order
func All() []Tier {
	return []Tier{tiers[Basic], tiers[Pro], tiers[Premium]}
}

// Parse normalises a plan name ("pro", " PRO ") to its canonical value
func Parse(s string) (Plan, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrUnknownPlan
	}
	p := Plan(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
	if _, ok := tiers[p]; !ok {
		return "", ErrUnknownPlan
	}
	return p, nil
}

// Valid reports whether p is in the catalog
func (p Plan) Valid() bool {
	_, ok := tiers[p]
	return ok
}

func (p Plan) Tier() Tier {
	return tiers[p]
}

// Quota is the balance a plan restores to. Unknown plans have none.
func (p Plan) Quota() int {
	return tiers[p].Quota
}

func (p Plan) AutoRefill() bool {
	return tiers[p].AutoRefill
}

// IsPaid reports whether the plan goes through hosted checkout
func (p Plan) IsPaid() bool {
	return p == Pro || p == Premium
}

func (p Plan) String() string {
	return string(p)
}

// NeedsSwitchConfirmation is true iff the user currently holds an
// auto-refilling paid plan and is moving to a different one.
func NeedsSwitchConfirmation(current, target Plan) bool {
	return current.IsPaid() && current.AutoRefill() && current != target
}
