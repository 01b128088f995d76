package payment

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/shared/config"
)

// NewGateway creates a payment gateway based on configuration
func NewGateway(cfg *config.Config) (Gateway, error) {
	switch cfg.PaymentMode {
	case "disabled":
		log.Warn().Msg("⚠️ Payment verification disabled, paid checkouts cannot be finalized")
		return disabledGateway{}, nil

	case "paddle", "":
		if cfg.PaddleAPIKey == "" {
			if cfg.IsProduction() {
				return nil, fmt.Errorf("PADDLE_API_KEY is required to verify checkouts")
			}
			log.Warn().Msg("⚠️ PADDLE_API_KEY not set, paid checkouts cannot be finalized")
			return disabledGateway{}, nil
		}

		baseURL := cfg.PaddleAPIURL
		if baseURL == "" {
			baseURL = PaddleProductionURL
			if cfg.PaddleSandbox {
				baseURL = PaddleSandboxURL
			}
		}
		prices := map[string]plan.Plan{}
		if cfg.PaddlePricePro != "" {
			prices[cfg.PaddlePricePro] = plan.Pro
		}
		if cfg.PaddlePricePremium != "" {
			prices[cfg.PaddlePricePremium] = plan.Premium
		}
		if len(prices) == 0 {
			return nil, fmt.Errorf("PADDLE_PRICE_PRO or PADDLE_PRICE_PREMIUM is required to map purchases to plans")
		}

		log.Info().Str("api", baseURL).Int("prices", len(prices)).Msg("💳 Using Paddle Payment Gateway")
		return NewPaddlePaymentGateway(cfg.PaddleAPIKey, baseURL, prices), nil

	default:
		return nil, fmt.Errorf("unknown PAYMENT_MODE %q", cfg.PaymentMode)
	}
}
