package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Pledge/internal/allocation"
	"github.com/MikeSquared-Agency/Pledge/internal/config"
	"github.com/MikeSquared-Agency/Pledge/internal/hermes"
)

func NewRouter(c Catalog, a *allocation.Allocator, h hermes.Client, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.Server.RequestsPerMinute))

	categories := NewCategoriesHandler(c)
	allocations := NewAllocationsHandler(c, a, h, cfg.Allocation.SliderStep, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", categories.List)

		r.Post("/allocations", allocations.Create)
		r.Post("/allocations/rebalance", allocations.Rebalance)
		r.Post("/allocations/impact", allocations.Impact)
		r.Post("/allocations/split", allocations.Split)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Post("/admin/catalog/reload", categories.Reload)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
