package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/services"
)

type AccountHandler struct {
	accounts *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// SelectPlanRequest is the body of select-basic and checkout
type SelectPlanRequest struct {
	Plan      string `json:"plan"`
	Confirmed bool   `json:"confirmed"`
}

// Me godoc
// @Summary Current account
// @Description Plan, balance and refill countdown of the signed-in user
// @Tags Account
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} services.AccountView
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /me [get]
func (h *AccountHandler) Me(c *fiber.Ctx) error {
	view, err := h.accounts.Get(c.UserContext(), auth.CurrentUID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// DeleteMe godoc
// @Summary Delete account
// @Description Permanently deletes the account and its saved scripts
// @Tags Account
// @Param Authorization header string true "Bearer token"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /me [delete]
func (h *AccountHandler) DeleteMe(c *fiber.Ctx) error {
	if err := h.accounts.Delete(c.UserContext(), auth.CurrentUID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Events godoc
// @Summary Credit history
// @Tags Account
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param limit query int false "Max events (default 50)"
// @Success 200 {array} audit.CreditEvent
// @Router /me/events [get]
func (h *AccountHandler) Events(c *fiber.Ctx) error {
	events, err := h.accounts.History(c.UserContext(), auth.CurrentUID(c), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"events": events})
}

// RefreshCredits godoc
// @Summary Apply a due refill
// @Description Restores the plan quota when the 24h refill window after depletion has passed
// @Tags Credits
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} services.AccountView
// @Router /api/refresh-credits/ [post]
func (h *AccountHandler) RefreshCredits(c *fiber.Ctx) error {
	view, err := h.accounts.RefreshCredits(c.UserContext(), auth.CurrentUID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// EarnCredits godoc
// @Summary Reward top-up
// @Description Adds the reward credits, limited per day
// @Tags Credits
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} services.AccountView
// @Failure 429 {object} map[string]interface{}
// @Router /api/earn-credits/ [post]
func (h *AccountHandler) EarnCredits(c *fiber.Ctx) error {
	view, err := h.accounts.EarnCredits(c.UserContext(), auth.CurrentUID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// SelectBasic godoc
// @Summary Confirm the Basic plan
// @Description Basic credits are granted only once per account. Leaving a paid plan requires confirmed=true.
// @Tags Plans
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body SelectPlanRequest false "Confirmation flag"
// @Success 200 {object} services.AccountView
// @Failure 409 {object} map[string]interface{}
// @Router /api/select-basic/ [post]
func (h *AccountHandler) SelectBasic(c *fiber.Ctx) error {
	var req SelectPlanRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	view, err := h.accounts.SelectBasic(c.UserContext(), auth.CurrentUID(c), req.Confirmed)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// Checkout godoc
// @Summary Start a paid plan checkout
// @Description Returns the hosted checkout URL for Pro or Premium. Switching away from an auto-refill plan requires confirmed=true.
// @Tags Plans
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body SelectPlanRequest true "Target plan"
// @Success 200 {object} services.CheckoutView
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/checkout/ [post]
func (h *AccountHandler) Checkout(c *fiber.Ctx) error {
	var req SelectPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	view, err := h.accounts.StartCheckout(c.UserContext(), auth.CurrentUID(c), auth.CurrentEmail(c), req.Plan, req.Confirmed)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// FinalizeCheckout godoc
// @Summary Apply a completed checkout
// @Description Called by the checkout success page. The transaction is checked with Paddle: it must be paid, for the requested plan, and opened for the same account. Replays of a transaction id are no-ops. Basic is not accepted here.
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body services.FinalizeRequest true "Checkout result"
// @Success 200 {object} services.FinalizeResult
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/finalize-checkout/ [post]
func (h *AccountHandler) FinalizeCheckout(c *fiber.Ctx) error {
	var req services.FinalizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.accounts.FinalizeCheckout(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
