package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelscript_generations_total",
			Help: "Script generation requests by result",
		},
		[]string{"result"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelscript_generation_duration_seconds",
			Help:    "LLM call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	CreditsDebited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelscript_credits_debited_total",
			Help: "Credits spent on generations",
		},
	)

	RefillsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelscript_refills_total",
			Help: "Automatic plan refills by trigger",
		},
		[]string{"trigger"},
	)

	PlanChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelscript_plan_changes_total",
			Help: "Confirmed plan selections",
		},
		[]string{"plan"},
	)

	HealthOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelscript_health_outcomes_total",
			Help: "Account health evaluations by outcome",
		},
		[]string{"outcome"},
	)
)

// Handler serves the default registry on a Fiber route
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
