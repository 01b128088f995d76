package models

import (
	"time"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/credits"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/health"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
)

// User is a signed-in creator, keyed by the Google subject id
type User struct {
	UID         string `gorm:"type:text;primaryKey" json:"uid"`
	Email       string `gorm:"type:text;index" json:"email"`
	DisplayName string `gorm:"type:text" json:"display_name"`

	// Subscription
	SubscriptionPlan     string `gorm:"type:text" json:"subscription_plan"`
	SubscriptionSelected bool   `gorm:"default:false" json:"subscription_selected"`
	PendingPlan          string `gorm:"type:text" json:"pending_plan,omitempty"`
	BasicClaimed         bool   `gorm:"default:false" json:"basic_claimed"`

	// Credits
	Credits          int        `gorm:"not null;default:0" json:"credits"`
	CreditDepletedAt *time.Time `json:"credit_depleted_at,omitempty"`
	RequestCount     int        `gorm:"not null;default:0" json:"request_count"`

	// Account health
	FirstSeen               time.Time  `gorm:"not null" json:"first_seen"`
	HealthStrikes           int        `gorm:"not null;default:0" json:"-"`
	HealthLastStrikeAt      *time.Time `json:"-"`
	HealthQuarantined       bool       `gorm:"default:false" json:"-"`
	HealthPendingHardDelete bool       `gorm:"default:false" json:"-"`

	// Hosted checkout
	PaddleCustomerID  string `gorm:"type:text" json:"-"`
	LastTransactionID string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "creator_users"
}

// Plan is the stored plan name; empty or unknown names yield ""
func (u *User) Plan() plan.Plan {
	p, err := plan.Parse(u.SubscriptionPlan)
	if err != nil {
		return ""
	}
	return p
}

// Balance extracts the credit-bearing fields
func (u *User) Balance() credits.Balance {
	return credits.Balance{
		Plan:       u.Plan(),
		Credits:    u.Credits,
		DepletedAt: u.CreditDepletedAt,
	}
}

// SetBalance writes b back. The plan is written only when b carries one.
func (u *User) SetBalance(b credits.Balance) {
	if b.Plan != "" {
		u.SubscriptionPlan = b.Plan.String()
	}
	u.Credits = b.Credits
	u.CreditDepletedAt = b.DepletedAt
}

// HealthState extracts what the strike policy looks at. A checkout in
// progress counts as a plan hint so the buyer gets the extended grace.
func (u *User) HealthState() health.State {
	hint := u.SubscriptionPlan
	if u.Plan() == "" {
		if p, err := plan.Parse(u.PendingPlan); err == nil {
			hint = p.String()
		}
	}
	return health.State{
		SubscriptionSelected: u.SubscriptionSelected,
		PlanName:             hint,
		Credits:              u.Credits,
		FirstSeen:            u.FirstSeen,
		Strikes:              u.HealthStrikes,
		LastStrikeAt:         u.HealthLastStrikeAt,
		Quarantined:          u.HealthQuarantined,
		PendingHardDelete:    u.HealthPendingHardDelete,
	}
}

// SetHealthState writes the strike bookkeeping back
func (u *User) SetHealthState(s health.State) {
	u.HealthStrikes = s.Strikes
	u.HealthLastStrikeAt = s.LastStrikeAt
	u.HealthQuarantined = s.Quarantined
	u.HealthPendingHardDelete = s.PendingHardDelete
}
