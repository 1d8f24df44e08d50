package models

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	// DefaultMaxPages is used when the caller does not specify a page limit.
	DefaultMaxPages = 3
	// MaxPagesCap bounds worst-case request time regardless of caller input.
	MaxPagesCap = 10
)

type Review struct {
	ReviewerName     string   `json:"reviewer_name"`
	Rating           int      `json:"rating"`
	ReviewTitle      string   `json:"review_title"`
	ReviewText       string   `json:"review_text"`
	ReviewDate       string   `json:"review_date"`
	VerifiedPurchase bool     `json:"verified_purchase"`
	HelpfulVotes     int      `json:"helpful_votes"`
	Images           []string `json:"images,omitempty"`
}

// ScrapeRequest is the normalized input of the scrape endpoint, whether it
// arrived as query parameters or as a JSON body.
type ScrapeRequest struct {
	ProductURL string `json:"product_url"`
	MaxPages   int    `json:"max_pages"`
}

// Normalize applies the default page limit and the hard cap.
func (r *ScrapeRequest) Normalize() {
	if r.MaxPages == 0 {
		r.MaxPages = DefaultMaxPages
	}
	if r.MaxPages > MaxPagesCap {
		r.MaxPages = MaxPagesCap
	}
}

// Validate checks the request shape. It does not touch the network.
func (r *ScrapeRequest) Validate() error {
	if r.ProductURL == "" {
		return fmt.Errorf("product_url is required")
	}

	u, err := url.Parse(r.ProductURL)
	if err != nil {
		return fmt.Errorf("product_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("product_url must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("product_url must include a host")
	}
	if !strings.Contains(u.Path, "/dp/") && !strings.Contains(u.Path, "/gp/product/") {
		return fmt.Errorf("product_url does not look like a product page")
	}

	if r.MaxPages < 1 {
		return fmt.Errorf("max_pages must be at least 1")
	}

	return nil
}

type ScrapeResult struct {
	Status       string   `json:"status"`
	Message      string   `json:"message"`
	TotalReviews int      `json:"total_reviews"`
	Reviews      []Review `json:"reviews"`
}

func SuccessResult(message string, reviews []Review) *ScrapeResult {
	if reviews == nil {
		reviews = make([]Review, 0)
	}
	return &ScrapeResult{
		Status:       StatusSuccess,
		Message:      message,
		TotalReviews: len(reviews),
		Reviews:      reviews,
	}
}

func ErrorResult(message string) *ScrapeResult {
	return &ScrapeResult{
		Status:  StatusError,
		Message: message,
		Reviews: make([]Review, 0),
	}
}
