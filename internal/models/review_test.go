package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrapeRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     ScrapeRequest
		wantErr bool
	}{
		{"Valid dp URL", ScrapeRequest{ProductURL: "https://www.amazon.in/dp/B0CGP252T4", MaxPages: 3}, false},
		{"Valid gp URL", ScrapeRequest{ProductURL: "https://www.amazon.com/gp/product/B0CGP252T4", MaxPages: 1}, false},
		{"Valid fixture host", ScrapeRequest{ProductURL: "https://example.test/dp/VALID1", MaxPages: 2}, false},
		{"Missing URL", ScrapeRequest{MaxPages: 3}, true},
		{"Not a URL", ScrapeRequest{ProductURL: "not-a-url", MaxPages: 3}, true},
		{"Wrong scheme", ScrapeRequest{ProductURL: "ftp://amazon.com/dp/B0CGP252T4", MaxPages: 3}, true},
		{"Not a product page", ScrapeRequest{ProductURL: "https://www.amazon.com/gp/cart", MaxPages: 3}, true},
		{"Zero max pages", ScrapeRequest{ProductURL: "https://www.amazon.com/dp/B0CGP252T4", MaxPages: 0}, true},
		{"Negative max pages", ScrapeRequest{ProductURL: "https://www.amazon.com/dp/B0CGP252T4", MaxPages: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScrapeRequestNormalize(t *testing.T) {
	req := ScrapeRequest{ProductURL: "https://www.amazon.com/dp/B0CGP252T4"}
	req.Normalize()
	assert.Equal(t, DefaultMaxPages, req.MaxPages)

	req.MaxPages = 50
	req.Normalize()
	assert.Equal(t, MaxPagesCap, req.MaxPages)

	req.MaxPages = 7
	req.Normalize()
	assert.Equal(t, 7, req.MaxPages)
}

func TestResultConstructors(t *testing.T) {
	res := SuccessResult("done", nil)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 0, res.TotalReviews)
	assert.NotNil(t, res.Reviews)

	res = SuccessResult("done", []Review{{Rating: 5}, {Rating: 4}})
	assert.Equal(t, 2, res.TotalReviews)

	res = ErrorResult("boom")
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "boom", res.Message)
	assert.NotNil(t, res.Reviews)
}
