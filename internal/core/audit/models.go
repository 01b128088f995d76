package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Action names recorded in credit_events
const (
	ActionDebit      = "debit"
	ActionRefill     = "refill"
	ActionGrant      = "grant"
	ActionPlanChange = "plan_change"
	ActionStrike     = "strike"
	ActionRemove     = "remove"
)

// CreditEvent is one entry of a user's credit and plan history
type CreditEvent struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserUID string    `json:"user_uid" gorm:"type:text;not null;index"`

	Action       string `json:"action" gorm:"type:text;not null;index"`
	Amount       int    `json:"amount" gorm:"not null;default:0"`
	BalanceAfter int    `json:"balance_after" gorm:"not null;default:0"`

	Metadata datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (CreditEvent) TableName() string {
	return "credit_events"
}
