package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mortgage-engine/service"
	"mortgage-engine/version"
)

// Services bundles what the router needs to serve every endpoint.
type Services struct {
	Scenarios *service.ScenarioService
	Terms     *service.TermRecommendationService
	Payoff    *service.LienPayoffService
	// Limiter is optional; nil disables rate limiting.
	Limiter *RateLimiter
	// Debug mounts the pprof handlers under /debug.
	Debug bool
}

func NewRouter(s Services) http.Handler {
	loans := NewLoanHandler()
	programs := NewProgramHandler(s.Scenarios.Validator())
	scenarios := NewScenarioHandler(s.Scenarios)
	terms := NewTermRecommendationHandler(s.Terms)
	payoff := NewPayoffHandler(s.Payoff)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", handleHealth)
	if s.Debug {
		r.Mount("/debug", middleware.Profiler())
	}

	r.Route("/v1", func(r chi.Router) {
		if s.Limiter != nil {
			r.Use(RateLimit(s.Limiter))
		}

		r.Post("/schedule", loans.Schedule)
		r.Post("/buydown", loans.Buydown)
		r.Post("/buydown/compare", loans.CompareBuydowns)
		r.Post("/second-lien", loans.SecondLien)
		r.Post("/second-lien/convert", loans.ConvertSecondLien)

		r.Get("/programs", programs.List)
		r.Post("/programs/validate", programs.Validate)

		r.Post("/scenarios", scenarios.Evaluate)
		r.Post("/terms/recommend", terms.RecommendTerm)
		r.Post("/payoff", payoff.CalculatePayoffPlan)
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": version.Get(),
	})
}
