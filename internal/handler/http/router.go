package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Benitta1729/Product-application/docs"
	"github.com/Benitta1729/Product-application/internal/config"
	"github.com/Benitta1729/Product-application/internal/service"
	"github.com/Benitta1729/Product-application/pkg/health"
	"github.com/Benitta1729/Product-application/pkg/middleware"
)

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(
	productService *service.ProductService,
	generator *service.Generator,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(config.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(config.ServiceName))

	// Operational endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())
	r.Get(docs.SpecPath, docs.ServeSpec)
	r.Handle("/docs", docs.Redoc())

	productHandler := NewProductHandler(productService, logger)

	r.Route("/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", productHandler.ListProducts)
		r.Post("/", productHandler.CreateProduct)
		r.Get("/summaries", productHandler.ListSummaries)
		r.Get("/allreviews/{productId}", productHandler.ListReviews)
		r.Post("/reviews/{productId}", productHandler.AddReview)
		r.Post("/offers/{productId}", productHandler.AddOffer)
		r.Get("/{productId}", productHandler.GetProduct)
		r.Put("/{productId}", productHandler.UpdateProduct)
		r.Delete("/{productId}", productHandler.DeleteProduct)
	})

	populateHandler := NewPopulateHandler(generator, logger)
	r.Post("/populate-data", populateHandler.Populate)

	return r
}
