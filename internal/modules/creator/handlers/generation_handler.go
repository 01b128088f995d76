package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/script"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/services"
)

type GenerationHandler struct {
	generation *services.GenerationService
}

func NewGenerationHandler(generation *services.GenerationService) *GenerationHandler {
	return &GenerationHandler{generation: generation}
}

// GenerateReview godoc
// @Summary Generate a script
// @Description Writes a Hook/Body/CTA script for the chosen targeting and charges one generation
// @Tags Scripts
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body script.Request true "Targeting"
// @Success 200 {object} services.GenerationResult
// @Failure 400 {object} map[string]interface{}
// @Failure 402 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/generate-review/ [post]
func (h *GenerationHandler) GenerateReview(c *fiber.Ctx) error {
	var req script.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.generation.Generate(c.UserContext(), auth.CurrentUID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
