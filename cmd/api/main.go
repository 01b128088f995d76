package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/checkout"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/credits"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/idempotency"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/payment"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/handlers"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/repositories"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/services"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/shared/cache"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/reelscript-be/cmd/api/docs"
)

// @title ReelScript API
// @version 1.0
// @description Accounts, credits, plans and AI script generation for short-form video creators
// @contact.name API Support
// @contact.email support@reelscript.app
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("🚀 Starting reelscript-api")

	// Init database
	db := database.NewDB(cfg.DatabaseURL, !cfg.IsProduction())
	defer db.Close()

	// Idempotency keys live in Redis when configured
	var idem idempotency.Store
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to configure redis")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = rdb.Ping(ctx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to connect to redis")
		}
		defer rdb.Close()
		idem = idempotency.NewRedisStore(rdb.Client, "reelscript:", idempotency.DefaultTTL)
		log.Info().Msg("✅ Redis connected")
	} else {
		utils.LogWarn("⚠️ REDIS_URL not set, idempotency keys are process-local", nil)
		idem = idempotency.NewMemoryStore(idempotency.DefaultTTL)
	}

	// Init LLM service (multi-provider support)
	llmService, err := llm.NewService(&llm.ProviderConfig{
		Type:        llm.ProviderType(cfg.LLMProvider),
		OpenAIKey:   cfg.OpenAIKey,
		GroqKey:     cfg.GroqKey,
		DeepSeekKey: cfg.DeepSeekKey,
		Model:       cfg.LLMModel,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize LLM service")
	}

	// Init repositories (use GORM instance)
	userRepo := repositories.NewUserRepo(db.GORM)
	scriptRepo := repositories.NewScriptRepo(db.GORM)
	events := audit.NewService(db.GORM)

	// Init services
	ledger := credits.NewLedger(cfg.GenerationCost, cfg.RefillWindow)
	utils.LogInfo("💳 Credit settings", map[string]interface{}{
		"generation_cost": ledger.Cost(),
		"refill_window":   ledger.Window().String(),
		"reward":          cfg.RewardCredits,
		"reward_cap":      cfg.RewardDailyCap,
	})
	links := checkout.Links{
		plan.Pro:     cfg.CheckoutURLPro,
		plan.Premium: cfg.CheckoutURLPremium,
	}
	payments, err := payment.NewGateway(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize payment gateway")
	}
	accountService := services.NewAccountService(userRepo, events, ledger, links, idem, payments, services.AccountOptions{
		Reward:         cfg.RewardCredits,
		RewardDailyCap: cfg.RewardDailyCap,
		Origin:         cfg.FrontendOrigin,
	})
	generationService := services.NewGenerationService(accountService, userRepo, scriptRepo, llmService, ledger, events)
	scriptService := services.NewScriptService(scriptRepo, export.NewService())
	sweepService := services.NewSweepService(userRepo, accountService, ledger)

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	googleOAuth := auth.NewGoogleOAuthService(cfg.GoogleClientID)

	// Init handlers
	routes := &handlers.Routes{
		Health:     handlers.NewHealthHandler(llmService.GetProviderName()),
		Catalog:    handlers.NewCatalogHandler(ledger.Cost()),
		Auth:       handlers.NewAuthHandler(accountService, googleOAuth, jwtService),
		Account:    handlers.NewAccountHandler(accountService),
		Generation: handlers.NewGenerationHandler(generationService),
		Scripts:    handlers.NewScriptHandler(scriptService),
	}

	// Background sweeps
	sched := scheduler.New()
	if err := sweepService.Register(sched, cfg.RefillSchedule, cfg.HealthSchedule); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to register sweeps")
	}
	sched.Start()

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "ReelScript API",
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger + metrics
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", metrics.Handler())

	routes.Register(app, auth.AuthMiddleware(jwtService))

	// Start server
	go func() {
		log.Info().Msgf("✅ reelscript-api running at :%s", cfg.Port)
		log.Info().Msgf("📄 Swagger UI: http://localhost:%s/swagger/", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("❌ Server stopped")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("🛑 Shutting down...")
	sched.Stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("❌ Server shutdown failed")
	}
}
