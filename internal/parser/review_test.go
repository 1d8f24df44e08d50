package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/amazon-review-scraper/internal/models"
)

const fullReviewHTML = `<li data-hook="review">
	<div class="a-profile-content"><span class="a-profile-name">Ravi Kumar</span></div>
	<a data-hook="review-title" class="review-title">
		<i class="a-icon a-icon-star a-star-4"><span class="a-icon-alt">4.0 out of 5 stars</span></i>
		<span>Good value power bank</span>
	</a>
	<span data-hook="review-date">Reviewed in India on 12 March 2024</span>
	<span data-hook="avp-badge-linkless" class="a-size-mini">Verified Purchase</span>
	<div data-hook="review-collapsed" class="a-expander-content">
		<span>Charges my phone twice. Slightly heavy but worth it.</span>
	</div>
	<div class="review-image-tile-section">
		<img data-hook="review-image-tile" src="https://m.media-amazon.com/images/I/img1.jpg"/>
		<img data-hook="review-image-tile" src="https://m.media-amazon.com/images/I/img2.jpg"/>
	</div>
	<span data-hook="helpful-vote-statement">23 people found this helpful</span>
</li>`

func TestExtractReview(t *testing.T) {
	parser := NewReviewParser()

	review := parser.ExtractReview(fullReviewHTML)

	assert.Equal(t, "Ravi Kumar", review.ReviewerName)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "Good value power bank", review.ReviewTitle)
	assert.Equal(t, "Charges my phone twice. Slightly heavy but worth it.", review.ReviewText)
	assert.Equal(t, "Reviewed in India on 12 March 2024", review.ReviewDate)
	assert.True(t, review.VerifiedPurchase)
	assert.Equal(t, 23, review.HelpfulVotes)
	require.Len(t, review.Images, 2)
	assert.Equal(t, "https://m.media-amazon.com/images/I/img1.jpg", review.Images[0])
	assert.Equal(t, "https://m.media-amazon.com/images/I/img2.jpg", review.Images[1])
}

func TestExtractRating(t *testing.T) {
	parser := NewReviewParser()

	tests := []struct {
		name     string
		html     string
		expected int
	}{
		{
			name:     "From icon alt text",
			html:     `<div data-hook="review-star-rating"><span class="a-icon-alt">5.0 out of 5 stars</span></div>`,
			expected: 5,
		},
		{
			name:     "German locale alt text",
			html:     `<div data-hook="review-star-rating"><span class="a-icon-alt">3,0 von 5 Sternen</span></div>`,
			expected: 3,
		},
		{
			name:     "From star class fallback",
			html:     `<i class="a-icon a-icon-star a-star-2"></i>`,
			expected: 2,
		},
		{
			name:     "Small star class fallback",
			html:     `<i class="a-icon a-icon-star-small a-star-small-5"></i>`,
			expected: 5,
		},
		{
			name:     "Missing rating defaults to zero",
			html:     `<div><span class="a-profile-name">Someone</span></div>`,
			expected: 0,
		},
		{
			name:     "Out of range text clamps to zero",
			html:     `<div data-hook="review-star-rating"><span class="a-icon-alt">7 out of 5 stars</span></div>`,
			expected: 0,
		},
		{
			name:     "Garbage text defaults to zero",
			html:     `<div data-hook="review-star-rating"><span class="a-icon-alt">no stars here</span></div>`,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := parser.ExtractReview(tt.html)
			assert.Equal(t, tt.expected, review.Rating)
		})
	}
}

func TestExtractHelpfulVotes(t *testing.T) {
	parser := NewReviewParser()

	tests := []struct {
		name     string
		html     string
		expected int
	}{
		{
			name:     "Plain count",
			html:     `<span data-hook="helpful-vote-statement">14 people found this helpful</span>`,
			expected: 14,
		},
		{
			name:     "Thousands separator",
			html:     `<span data-hook="helpful-vote-statement">2,315 people found this helpful</span>`,
			expected: 2315,
		},
		{
			name:     "Worded single vote",
			html:     `<span data-hook="helpful-vote-statement">One person found this helpful</span>`,
			expected: 1,
		},
		{
			name:     "Missing statement",
			html:     `<div></div>`,
			expected: 0,
		},
		{
			name:     "Unparsable statement",
			html:     `<span data-hook="helpful-vote-statement">Helpful</span>`,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := parser.ExtractReview(tt.html)
			assert.Equal(t, tt.expected, review.HelpfulVotes)
			assert.GreaterOrEqual(t, review.HelpfulVotes, 0)
		})
	}
}

func TestExtractReviewDefaults(t *testing.T) {
	parser := NewReviewParser()

	// A review missing its rating keeps every other field and stays in the
	// result set with rating 0.
	review := parser.ExtractReview(`<li data-hook="review">
		<span class="a-profile-name">Jo</span>
		<a data-hook="review-title"><span>Decent</span></a>
		<div data-hook="review-collapsed"><span>Works fine.</span></div>
	</li>`)

	assert.Equal(t, "Jo", review.ReviewerName)
	assert.Equal(t, 0, review.Rating)
	assert.Equal(t, "Decent", review.ReviewTitle)
	assert.Equal(t, "Works fine.", review.ReviewText)
	assert.False(t, review.VerifiedPurchase)
	assert.Empty(t, review.Images)

	// Fully empty container falls back to documented defaults.
	review = parser.ExtractReview(`<li data-hook="review"></li>`)
	assert.Equal(t, models.Review{ReviewerName: "Anonymous"}, review)
}

func TestExtractVerifiedBadge(t *testing.T) {
	parser := NewReviewParser()

	verified := parser.ExtractReview(`<span data-hook="avp-badge">Verified Purchase</span>`)
	assert.True(t, verified.VerifiedPurchase)

	vine := parser.ExtractReview(`<span data-hook="avp-badge">Vine Customer Review</span>`)
	assert.False(t, vine.VerifiedPurchase)
}

func TestExtractTitleSkipsRatingSpan(t *testing.T) {
	parser := NewReviewParser()

	review := parser.ExtractReview(`<a data-hook="review-title">
		<span class="a-icon-alt">5.0 out of 5 stars</span>
		<span>Exactly as described</span>
	</a>`)

	assert.Equal(t, "Exactly as described", review.ReviewTitle)
}
