package rest

import (
	"log/slog"

	"github.com/frahmantamala/spendwise/internal"
	"github.com/frahmantamala/spendwise/internal/category"
	"github.com/frahmantamala/spendwise/internal/expense"
	"github.com/frahmantamala/spendwise/internal/transport/middleware"
	"github.com/frahmantamala/spendwise/internal/transport/openapi"
	"github.com/frahmantamala/spendwise/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// APIPrefix is the mount point the browser front end uses.
const APIPrefix = "/api"

func RegisterAllRoutes(router *chi.Mux, cfg *internal.Config, healthHandler *HealthHandler, expenseHandler *expense.Handler, categoryHandler *category.Handler, logger *slog.Logger) {
	router.Use(middleware.CORS(cfg.Server.Origins()))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware)
	}

	router.Get("/openapi.yml", openapi.Handler())
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))

	router.Get("/health", healthHandler.Health)
	router.Get("/ping", healthHandler.Ping)

	routes := expenseRoutes(expenseHandler, categoryHandler)
	router.Group(routes)
	router.Route(APIPrefix, routes)
}

func expenseRoutes(h *expense.Handler, ch *category.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", h.Home)
		r.Get("/stats", h.Stats)
		r.Get("/categories", ch.GetCategories)
		r.Route("/expenses", func(er chi.Router) {
			er.Get("/", h.ListExpenses)
			er.Post("/", h.CreateExpense)
			er.Delete("/{id}", h.DeleteExpense)
		})
	}
}
