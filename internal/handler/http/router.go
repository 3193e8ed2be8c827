package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Costin94/LiveOn-Ecommerce/pkg/health"
	"github.com/Costin94/LiveOn-Ecommerce/pkg/middleware"
)

// NewRouter creates a chi router with all catalog service routes registered.
func NewRouter(
	products *ProductHandler,
	categories *CategoryHandler,
	users *UserHandler,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("catalog"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			// Catalog reads are safe to cache briefly at the edge.
			r.Use(middleware.CacheControl(60))
			r.Get("/", products.ListProducts)
			r.Post("/", products.CreateProduct)
			r.Get("/sku/{sku}", products.GetProductBySKU)
			r.Get("/{id}", products.GetProduct)
			r.Put("/{id}", products.UpdateProduct)
			r.Delete("/{id}", products.DeleteProduct)
			r.Patch("/{id}/stock", products.AdjustStock)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.CacheControl(60))
			r.Get("/", categories.ListCategories)
			r.Post("/", categories.CreateCategory)
			r.Get("/{id}", categories.GetCategory)
			r.Put("/{id}", categories.UpdateCategory)
			r.Delete("/{id}", categories.DeleteCategory)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", users.ListUsers)
			r.Post("/", users.CreateUser)
			r.Get("/email/{email}", users.GetUserByEmail)
			r.Get("/{id}", users.GetUser)
			r.Put("/{id}", users.UpdateUser)
			r.Delete("/{id}", users.DeleteUser)
			r.Post("/{id}/activate", users.ActivateUser)
			r.Post("/{id}/deactivate", users.DeactivateUser)
		})
	})

	return r
}
