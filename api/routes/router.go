package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/brewlytics/api/controllers"
	analyticscontrollers "github.com/angelmondragon/brewlytics/api/controllers/analytics"
	"github.com/angelmondragon/brewlytics/api/middleware"
	"github.com/angelmondragon/brewlytics/internal/customeranalytics"
	"github.com/angelmondragon/brewlytics/pkg/config"
	"github.com/angelmondragon/brewlytics/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	cacheP controllers.Pinger,
	gatherer prometheus.Gatherer,
	analyticsService customeranalytics.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    dbP,
			"cache": cacheP,
		}))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/customers/{customerId}", func(r chi.Router) {
		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/products", analyticscontrollers.ProductRecommendations(analyticsService, logg))
			r.Get("/coffee-beans", analyticscontrollers.CoffeeBeanRecommendations(analyticsService, logg))
			r.Delete("/cache", analyticscontrollers.ClearRecommendationCache(analyticsService, logg))
		})
		r.Route("/affinity", func(r chi.Router) {
			r.Post("/", analyticscontrollers.AffinityScores(analyticsService, logg))
			r.Get("/{productId}", analyticscontrollers.AffinityScore(analyticsService, logg))
		})
		r.Route("/insights", func(r chi.Router) {
			r.Get("/", analyticscontrollers.CustomerInsights(analyticsService, logg))
			r.Delete("/cache", analyticscontrollers.ClearInsightsCache(analyticsService, logg))
		})
	})

	return r
}
