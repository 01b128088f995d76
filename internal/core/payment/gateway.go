// Package payment looks up checkout transactions at the payment provider
// so a plan is only applied for a purchase that actually completed.
package payment

import (
	"context"
	"errors"
	"time"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrGatewayDisabled     = errors.New("payment verification is not configured")
)

// Gateway defines the interface for payment lookups
type Gateway interface {
	// GetStatus retrieves the current state of a checkout transaction
	GetStatus(ctx context.Context, transactionID string) (*TransactionStatus, error)

	// Name returns the gateway provider name
	Name() string
}

// TransactionStatus is what the provider reports about a transaction
type TransactionStatus struct {
	TransactionID string
	Status        string // pending, paid, failed, cancelled
	// Plan is resolved from the purchased price; empty when the price is
	// not one of ours.
	Plan       plan.Plan
	UID        string // from the checkout passthrough
	CustomerID string
	Email      string
	PaidAt     *time.Time
}

// Paid reports whether the provider collected the payment
func (s *TransactionStatus) Paid() bool {
	return s.Status == StatusPaid
}

// Payment status constants
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)
