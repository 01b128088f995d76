package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/checkout"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
)

const (
	PaddleProductionURL = "https://api.paddle.com"
	PaddleSandboxURL    = "https://sandbox-api.paddle.com"
)

// PaddlePaymentGateway reads transactions from the Paddle Billing API
type PaddlePaymentGateway struct {
	apiKey  string
	baseURL string
	prices  map[string]plan.Plan
	client  *http.Client
}

// NewPaddlePaymentGateway creates a gateway. prices maps Paddle price ids
// to the plan they buy.
func NewPaddlePaymentGateway(apiKey, baseURL string, prices map[string]plan.Plan) *PaddlePaymentGateway {
	if baseURL == "" {
		baseURL = PaddleProductionURL
	}
	return &PaddlePaymentGateway{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		prices:  prices,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type paddleTransaction struct {
	ID         string                 `json:"id"`
	Status     string                 `json:"status"`
	CustomerID string                 `json:"customer_id"`
	CustomData map[string]interface{} `json:"custom_data"`
	BilledAt   *time.Time             `json:"billed_at"`
	Items      []struct {
		PriceID string `json:"price_id"`
		Price   struct {
			ID string `json:"id"`
		} `json:"price"`
	} `json:"items"`
}

// GetStatus retrieves transaction status from Paddle
func (g *PaddlePaymentGateway) GetStatus(ctx context.Context, transactionID string) (*TransactionStatus, error) {
	endpoint := fmt.Sprintf("%s/transactions/%s", g.baseURL, url.PathEscape(transactionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query Paddle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, transactionID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paddle returned status %d", resp.StatusCode)
	}

	var result struct {
		Data paddleTransaction `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode Paddle transaction: %w", err)
	}
	tx := result.Data

	// Map Paddle status to our status
	var status string
	switch tx.Status {
	case "completed", "paid":
		status = StatusPaid
	case "canceled":
		status = StatusCancelled
	case "past_due":
		status = StatusFailed
	default:
		status = StatusPending
	}

	out := &TransactionStatus{
		TransactionID: tx.ID,
		Status:        status,
		CustomerID:    tx.CustomerID,
	}
	if status == StatusPaid {
		out.PaidAt = tx.BilledAt
	}
	for _, item := range tx.Items {
		id := item.Price.ID
		if id == "" {
			id = item.PriceID
		}
		if p, ok := g.prices[id]; ok {
			out.Plan = p
			break
		}
	}
	out.UID, out.Email = customOwner(tx.CustomData)

	log.Debug().Str("transaction_id", tx.ID).Str("status", tx.Status).Str("plan", out.Plan.String()).Msg("Paddle transaction fetched")
	return out, nil
}

// Name returns the gateway name
func (g *PaddlePaymentGateway) Name() string {
	return "Paddle Billing"
}

// customOwner reads the account the checkout was opened for. The hosted
// checkout forwards our passthrough string; flat uid/email keys are
// accepted too.
func customOwner(data map[string]interface{}) (uid, email string) {
	if raw, ok := data["passthrough"].(string); ok {
		if pt, err := checkout.Decode(raw); err == nil {
			return pt.UID, pt.Email
		}
	}
	uid, _ = data["uid"].(string)
	email, _ = data["email"].(string)
	return uid, email
}

// disabledGateway refuses every lookup. It stands in when no API key is
// configured so paid plans cannot be granted unverified.
type disabledGateway struct{}

func (disabledGateway) GetStatus(context.Context, string) (*TransactionStatus, error) {
	return nil, ErrGatewayDisabled
}

func (disabledGateway) Name() string {
	return "Disabled"
}
