package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/services"
)

type ScriptHandler struct {
	scripts *services.ScriptService
}

func NewScriptHandler(scripts *services.ScriptService) *ScriptHandler {
	return &ScriptHandler{scripts: scripts}
}

// ListScripts godoc
// @Summary List saved scripts
// @Description Newest first, 12 per page
// @Tags Scripts
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param cursor query string false "next_cursor of the previous page"
// @Param q query string false "Search text, niche, sub-category, followers or tone"
// @Success 200 {object} models.ScriptPage
// @Router /scripts [get]
func (h *ScriptHandler) ListScripts(c *fiber.Ctx) error {
	page, err := h.scripts.List(c.UserContext(), auth.CurrentUID(c), c.Query("cursor"), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetScript godoc
// @Summary Get a saved script
// @Tags Scripts
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Script ID"
// @Success 200 {object} models.Script
// @Failure 404 {object} map[string]interface{}
// @Router /scripts/{id} [get]
func (h *ScriptHandler) GetScript(c *fiber.Ctx) error {
	sc, err := h.scripts.Get(c.UserContext(), auth.CurrentUID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sc)
}

// DownloadScript godoc
// @Summary Download a script
// @Description Plain text by default, PDF with format=pdf
// @Tags Scripts
// @Produce plain
// @Produce application/pdf
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Script ID"
// @Param format query string false "txt or pdf"
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /scripts/{id}/download [get]
func (h *ScriptHandler) DownloadScript(c *fiber.Ctx) error {
	att, err := h.scripts.Download(c.UserContext(), auth.CurrentUID(c), c.Params("id"), c.Query("format"))
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, att)
}

// ExportScripts godoc
// @Summary Export the script library
// @Description Excel workbook of the newest saved scripts, optionally filtered
// @Tags Scripts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param Authorization header string true "Bearer token"
// @Param q query string false "Search text"
// @Success 200 {file} file
// @Router /scripts/export [get]
func (h *ScriptHandler) ExportScripts(c *fiber.Ctx) error {
	att, err := h.scripts.ExportLibrary(c.UserContext(), auth.CurrentUID(c), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, att)
}

func sendAttachment(c *fiber.Ctx, att *services.Attachment) error {
	c.Set(fiber.HeaderContentType, att.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, att.Name))
	return c.Send(att.Body)
}
