package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scrape loop.
type Metrics struct {
	Registry              *prometheus.Registry
	RequestsTotal         *prometheus.CounterVec
	PagesScrapedTotal     prometheus.Counter
	ReviewsExtractedTotal prometheus.Counter
	ScrapeDuration        prometheus.Histogram
	ErrorsTotal           *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_requests_total",
			Help: "Total scrape requests handled, by result status.",
		},
		[]string{"status"},
	)
	pages := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pages_scraped_total",
			Help: "Total review pages scraped.",
		},
	)
	reviews := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reviews_extracted_total",
			Help: "Total review records extracted.",
		},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scrape_duration_seconds",
			Help:    "Wall-clock duration of a full scrape request.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_errors_total",
			Help: "Total scrape errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, pages, reviews, duration, errorsTotal)

	return &Metrics{
		Registry:              registry,
		RequestsTotal:         requests,
		PagesScrapedTotal:     pages,
		ReviewsExtractedTotal: reviews,
		ScrapeDuration:        duration,
		ErrorsTotal:           errorsTotal,
	}
}

// IncRequest increments the request counter for a result status.
func (m *Metrics) IncRequest(status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(status).Inc()
}

// IncPage increments the scraped-pages counter.
func (m *Metrics) IncPage() {
	if m == nil {
		return
	}
	m.PagesScrapedTotal.Inc()
}

// AddReviews adds to the extracted-reviews counter.
func (m *Metrics) AddReviews(n int) {
	if m == nil {
		return
	}
	m.ReviewsExtractedTotal.Add(float64(n))
}

// ObserveDuration records a full scrape duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.ScrapeDuration.Observe(d.Seconds())
}

// IncError increments the error counter for an error's type label.
func (m *Metrics) IncError(err error) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorTypeLabel(err)).Inc()
}
