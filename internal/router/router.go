package router

import (
	"net/http"

	"itemhub-rest-api/internal/handler"
	"itemhub-rest-api/internal/middleware"
	"itemhub-rest-api/pkg/apierror"
	"itemhub-rest-api/pkg/response"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Config holds the configuration for creating a router.
type Config struct {
	ItemHandler   *handler.ItemHandler
	HealthHandler *handler.HealthHandler
	Logger        *zap.Logger
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Unmatched routes get the same JSON error shape as everything else.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, apierror.NotFound(""))
	})

	r.Get("/health", cfg.HealthHandler.Health)
	r.Get("/api/status", cfg.HealthHandler.Status)

	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", cfg.ItemHandler.ListItems)
		r.Post("/", cfg.ItemHandler.CreateItem)

		// The id pattern is digits-only, so /api/items/abc falls through to
		// the JSON 404 handler.
		r.Route("/{id:[0-9]+}", func(r chi.Router) {
			r.Get("/", cfg.ItemHandler.GetItem)
			r.Put("/", cfg.ItemHandler.UpdateItem)
			r.Patch("/", cfg.ItemHandler.PatchItem)
			r.Delete("/", cfg.ItemHandler.DeleteItem)
		})
	})

	return r
}
