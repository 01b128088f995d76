package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/script"
)

type CatalogHandler struct {
	generationCost int
}

func NewCatalogHandler(generationCost int) *CatalogHandler {
	return &CatalogHandler{generationCost: generationCost}
}

// GetPlans godoc
// @Summary Subscription plans
// @Tags Plans
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /plans [get]
func (h *CatalogHandler) GetPlans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"plans":           plan.All(),
		"generation_cost": h.generationCost,
	})
}

// GetCatalog godoc
// @Summary Targeting options
// @Description Niches, follower brackets and tones offered by the generator
// @Tags Scripts
// @Produce json
// @Success 200 {object} script.Catalog
// @Router /catalog [get]
func (h *CatalogHandler) GetCatalog(c *fiber.Ctx) error {
	return c.JSON(script.DefaultCatalog())
}
