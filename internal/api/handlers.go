package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/maltedev/amazon-review-scraper/internal/models"
)

const apiVersion = "1.0.0"

// ReviewScraper is what the handlers need from the pagination driver.
type ReviewScraper interface {
	ScrapeReviews(ctx context.Context, req models.ScrapeRequest) *models.ScrapeResult
}

type Handlers struct {
	scraper ReviewScraper
	logger  *slog.Logger
}

func NewHandlers(scraper ReviewScraper, logger *slog.Logger) *Handlers {
	return &Handlers{
		scraper: scraper,
		logger:  logger.With("component", "api"),
	}
}

// ScrapeReviews accepts the request as query parameters (GET) or a JSON body
// (POST); both shapes normalize into one ScrapeRequest. Validation happens
// here, before any browser session is opened.
func (h *Handlers) ScrapeReviews(w http.ResponseWriter, r *http.Request) {
	req, err := parseScrapeRequest(r)
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, models.ErrorResult(err.Error()))
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		h.respondJSON(w, http.StatusBadRequest, models.ErrorResult(err.Error()))
		return
	}

	h.logger.Info("scraping reviews", "url", req.ProductURL, "max_pages", req.MaxPages)

	result := h.scraper.ScrapeReviews(r.Context(), req)
	h.respondJSON(w, http.StatusOK, result)
}

func parseScrapeRequest(r *http.Request) (models.ScrapeRequest, error) {
	var req models.ScrapeRequest

	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, errInvalidBody
		}
		return req, nil
	}

	req.ProductURL = r.URL.Query().Get("url")
	if raw := r.URL.Query().Get("max_pages"); raw != "" {
		pages, err := strconv.Atoi(raw)
		if err != nil {
			return req, errInvalidMaxPages
		}
		req.MaxPages = pages
	}
	return req, nil
}

// Health is the liveness probe.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":  models.StatusSuccess,
		"message": "Amazon Review Scraper API is running",
		"version": apiVersion,
	})
}

// Home serves the static API usage documentation.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Amazon Review Scraper API",
		"version": apiVersion,
		"endpoints": map[string]string{
			"POST /scrape-reviews":                 "Scrape reviews with JSON payload",
			"GET /scrape-reviews?url=<amazon_url>": "Scrape reviews with URL parameter",
			"GET /health":                          "Health check",
			"GET /metrics":                         "Prometheus metrics",
			"GET /":                                "This documentation",
		},
		"example_usage": map[string]interface{}{
			"POST": map[string]interface{}{
				"url":    "/scrape-reviews",
				"method": "POST",
				"body": map[string]interface{}{
					"product_url": "https://www.amazon.in/dp/B0CGP252T4",
					"max_pages":   5,
				},
			},
			"GET": map[string]string{
				"url":    "/scrape-reviews?url=https://www.amazon.in/dp/B0CGP252T4&max_pages=5",
				"method": "GET",
			},
		},
	})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
