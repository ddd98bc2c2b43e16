// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rewards-ledger/internal/api/handler"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Users   *handler.UserHandler
	Rewards *handler.RewardHandler
	Admin   *handler.AdminHandler
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// RouterConfig carries the router-level settings.
type RouterConfig struct {
	AdminToken string
	RateLimit  RateLimit
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(h Handlers, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)                       // Add a request ID to the context
	r.Use(middleware.RealIP)                          // Use the real IP address
	r.Use(RequestLogger(logger))                      // Log HTTP requests
	r.Use(middleware.Recoverer)                       // Recover from panics and return 500
	r.Use(middleware.Timeout(handler.DefaultTimeout)) // Set a default timeout for requests

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	limiter := NewRateLimiter(cfg.RateLimit)

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Put("/", h.Users.Start)
			r.Get("/", h.Users.GetUser)
			r.Get("/referrals/count", h.Users.GetReferralCount)
			r.Post("/bonus/claim", h.Rewards.ClaimBonus)
			r.Post("/withdrawals", h.Rewards.Withdraw)
			r.Get("/withdrawals", h.Users.ListWithdrawals)
		})

		r.Get("/catalog", h.Rewards.ListCatalog)
	})

	// Operator routes are authenticated, not rate limited.
	r.Route("/admin", func(r chi.Router) {
		r.Use(AdminAuth(cfg.AdminToken))
		r.Post("/users/{userID}/credit", h.Admin.CreditUser)
		r.Post("/credit-all", h.Admin.CreditAll)
		r.Get("/stats", h.Admin.Stats)
	})

	return r
}
