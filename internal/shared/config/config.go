package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	Port        string
	Env         string

	// Auth
	JWTSecret      string
	GoogleClientID string

	// LLM
	LLMProvider string
	LLMModel    string
	OpenAIKey   string
	GroqKey     string
	DeepSeekKey string

	// Credits
	GenerationCost int
	RefillWindow   time.Duration
	RewardCredits  int
	RewardDailyCap int

	// Hosted checkout (Paddle)
	CheckoutURLPro     string
	CheckoutURLPremium string
	FrontendOrigin     string

	// Payment verification
	PaymentMode        string
	PaddleAPIKey       string
	PaddleAPIURL       string
	PaddleSandbox      bool
	PaddlePricePro     string
	PaddlePricePremium string

	// Sweeps (cron expressions, seconds field included)
	RefillSchedule string
	HealthSchedule string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		Port:               os.Getenv("PORT"),
		Env:                os.Getenv("ENV"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		LLMProvider:        os.Getenv("LLM_PROVIDER"),
		LLMModel:           os.Getenv("LLM_MODEL"),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		GroqKey:            os.Getenv("GROQ_API_KEY"),
		DeepSeekKey:        os.Getenv("DEEPSEEK_API_KEY"),
		GenerationCost:     envInt("GENERATION_COST", 10),
		RefillWindow:       envDuration("REFILL_WINDOW", 24*time.Hour),
		RewardCredits:      envInt("REWARD_CREDITS", 20),
		RewardDailyCap:     envInt("REWARD_DAILY_CAP", 3),
		CheckoutURLPro:     os.Getenv("CHECKOUT_URL_PRO"),
		CheckoutURLPremium: os.Getenv("CHECKOUT_URL_PREMIUM"),
		FrontendOrigin:     os.Getenv("FRONTEND_ORIGIN"),
		PaymentMode:        os.Getenv("PAYMENT_MODE"),
		PaddleAPIKey:       os.Getenv("PADDLE_API_KEY"),
		PaddleAPIURL:       os.Getenv("PADDLE_API_URL"),
		PaddleSandbox:      os.Getenv("PADDLE_ENV") == "sandbox",
		PaddlePricePro:     os.Getenv("PADDLE_PRICE_PRO"),
		PaddlePricePremium: os.Getenv("PADDLE_PRICE_PREMIUM"),
		RefillSchedule:     os.Getenv("REFILL_SCHEDULE"),
		HealthSchedule:     os.Getenv("HEALTH_SCHEDULE"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "openai"
	}
	if cfg.FrontendOrigin == "" {
		cfg.FrontendOrigin = "http://localhost:3000"
	}
	if cfg.PaymentMode == "" {
		cfg.PaymentMode = "paddle"
	}
	if cfg.RefillSchedule == "" {
		cfg.RefillSchedule = "0 * * * * *" // every minute
	}
	if cfg.HealthSchedule == "" {
		cfg.HealthSchedule = "0 */5 * * * *"
	}
	if cfg.JWTSecret == "" && cfg.Env == "development" {
		log.Println("⚠️ JWT_SECRET not set, using development secret")
		cfg.JWTSecret = "dev-secret-change-me"
	}

	return cfg
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("⚠️ invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("⚠️ invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}
