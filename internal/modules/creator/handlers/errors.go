package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/checkout"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/credits"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/script"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/services"
)

// respondError maps service errors onto HTTP statuses
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	body := fiber.Map{"error": err.Error()}

	switch {
	case errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, plan.ErrUnknownPlan),
		errors.Is(err, script.ErrMissingTargeting):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrConfirmationRequired):
		status = fiber.StatusConflict
		body["confirmation_required"] = true
	case errors.Is(err, credits.ErrInsufficientCredits):
		status = fiber.StatusPaymentRequired
	case errors.Is(err, services.ErrRewardLimit):
		status = fiber.StatusTooManyRequests
	case errors.Is(err, services.ErrAccountRejected):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrAccountRemoved):
		status = fiber.StatusGone
	case errors.Is(err, services.ErrPaymentNotVerified):
		status = fiber.StatusForbidden
	case errors.Is(err, checkout.ErrNoCheckoutURL),
		errors.Is(err, services.ErrPaymentUnavailable):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, services.ErrUpstream):
		status = fiber.StatusBadGateway
		body["error"] = services.ErrUpstream.Error()
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("❌ Request failed")
		body["error"] = "Internal server error"
	}

	return c.Status(status).JSON(body)
}
