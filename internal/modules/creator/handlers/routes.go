package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Routes bundles the handlers mounted by Register
type Routes struct {
	Health     *HealthHandler
	Catalog    *CatalogHandler
	Auth       *AuthHandler
	Account    *AccountHandler
	Generation *GenerationHandler
	Scripts    *ScriptHandler
}

// Register mounts every route; requireAuth guards the per-user ones
func (r *Routes) Register(app *fiber.App, requireAuth fiber.Handler) {
	// Public
	app.Get("/health", r.Health.GetHealth)
	app.Get("/plans", r.Catalog.GetPlans)
	app.Get("/catalog", r.Catalog.GetCatalog)
	app.Post("/auth/google", r.Auth.LoginWithGoogle)
	app.Post("/api/finalize-checkout/", r.Account.FinalizeCheckout)

	// Account
	app.Get("/me", requireAuth, r.Account.Me)
	app.Delete("/me", requireAuth, r.Account.DeleteMe)
	app.Get("/me/events", requireAuth, r.Account.Events)

	// Credits and plans
	app.Post("/api/refresh-credits/", requireAuth, r.Account.RefreshCredits)
	app.Post("/api/earn-credits/", requireAuth, r.Account.EarnCredits)
	app.Post("/api/select-basic/", requireAuth, r.Account.SelectBasic)
	app.Post("/api/checkout/", requireAuth, r.Account.Checkout)
	app.Post("/api/generate-review/", requireAuth, r.Generation.GenerateReview)

	// Saved scripts
	app.Get("/scripts", requireAuth, r.Scripts.ListScripts)
	app.Get("/scripts/export", requireAuth, r.Scripts.ExportScripts)
	app.Get("/scripts/:id", requireAuth, r.Scripts.GetScript)
	app.Get("/scripts/:id/download", requireAuth, r.Scripts.DownloadScript)
}
