package api

import (
	"errors"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maltedev/amazon-review-scraper/internal/scraper"
)

var (
	errInvalidBody     = errors.New("invalid request body")
	errInvalidMaxPages = errors.New("max_pages must be an integer")
)

// NewRouter wires the middleware stack and routes. requestTimeout bounds a
// whole scrape request; it has to cover max_pages sequential page loads.
func NewRouter(h *Handlers, metrics *scraper.Metrics, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", h.Home)
	r.Get("/health", h.Health)
	r.Get("/scrape-reviews", h.ScrapeReviews)
	r.Post("/scrape-reviews", h.ScrapeReviews)

	if metrics != nil {
		r.Method("GET", "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	}

	return r
}
