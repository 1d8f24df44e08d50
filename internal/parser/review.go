package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/amazon-review-scraper/internal/models"
)

// Fallback defaults for fields that are missing or malformed. A review is
// never dropped because one of its fields failed to parse.
const (
	defaultReviewerName = "Anonymous"
)

type ReviewParser struct {
	ratingTextPattern  *regexp.Regexp
	starClassPattern   *regexp.Regexp
	helpfulVotePattern *regexp.Regexp
}

func NewReviewParser() *ReviewParser {
	return &ReviewParser{
		// "4.0 out of 5 stars", "4,0 von 5 Sternen"
		ratingTextPattern: regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:out of|von|sur|de)\s*5`),
		// class="a-icon a-icon-star a-star-4"
		starClassPattern: regexp.MustCompile(`a-star(?:-small)?-(\d)`),
		// "2,315 people found this helpful", "One person found this helpful"
		helpfulVotePattern: regexp.MustCompile(`(?i)^\s*(one|[\d,.]+)\s+(?:person|people)\s+found\s+this\s+helpful`),
	}
}

// ExtractReview parses a single rendered review container. Every field is
// extracted independently; a missing field yields its documented default
// rather than failing the record.
func (p *ReviewParser) ExtractReview(html string) models.Review {
	review := models.Review{
		ReviewerName: defaultReviewerName,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return review
	}

	if name := strings.TrimSpace(doc.Find(".a-profile-name").First().Text()); name != "" {
		review.ReviewerName = name
	}

	review.Rating = p.extractRating(doc)
	review.ReviewTitle = p.extractTitle(doc)
	review.ReviewText = p.extractText(doc)
	review.ReviewDate = strings.TrimSpace(doc.Find(`[data-hook="review-date"]`).First().Text())
	review.VerifiedPurchase = p.extractVerified(doc)
	review.HelpfulVotes = p.extractHelpfulVotes(doc)
	review.Images = p.extractImages(doc)

	return review
}

func (p *ReviewParser) extractRating(doc *goquery.Document) int {
	ratingSelectors := []string{
		`[data-hook="review-star-rating"] .a-icon-alt`,
		`[data-hook="cmps-review-star-rating"] .a-icon-alt`,
		`.review-rating .a-icon-alt`,
		`[data-hook="review-star-rating"]`,
	}

	for _, selector := range ratingSelectors {
		text := doc.Find(selector).First().Text()
		if text == "" {
			continue
		}
		if rating := p.parseRatingText(text); rating > 0 {
			return rating
		}
	}

	// Fallback: the star icon class encodes the rating ("a-star-5")
	rating := 0
	doc.Find(".a-icon-star, .a-icon-star-small").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		matches := p.starClassPattern.FindStringSubmatch(class)
		if len(matches) == 2 {
			if v, err := strconv.Atoi(matches[1]); err == nil && v >= 1 && v <= 5 {
				rating = v
				return false
			}
		}
		return true
	})

	return rating
}

func (p *ReviewParser) parseRatingText(text string) int {
	matches := p.ratingTextPattern.FindStringSubmatch(text)
	if len(matches) != 2 {
		return 0
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(matches[1], ",", "."), 64)
	if err != nil {
		return 0
	}

	rating := int(value)
	if rating < 1 || rating > 5 {
		return 0
	}
	return rating
}

func (p *ReviewParser) extractTitle(doc *goquery.Document) string {
	// The title block also carries the star icon's alt text in a classed
	// span; the actual title is the span without a class attribute.
	title := ""
	doc.Find(`[data-hook="review-title"] span`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if _, classed := s.Attr("class"); classed {
			return true
		}
		title = strings.TrimSpace(s.Text())
		return title == ""
	})
	if title != "" {
		return title
	}

	// Some layouts put the title text directly on the hook element
	full := strings.TrimSpace(doc.Find(`[data-hook="review-title"]`).First().Text())
	if idx := strings.Index(full, "stars"); idx >= 0 {
		full = strings.TrimSpace(full[idx+len("stars"):])
	}
	return full
}

func (p *ReviewParser) extractText(doc *goquery.Document) string {
	textSelectors := []string{
		`[data-hook="review-collapsed"] span`,
		`[data-hook="review-body"] span`,
		`[data-hook="review-body"]`,
	}

	for _, selector := range textSelectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func (p *ReviewParser) extractVerified(doc *goquery.Document) bool {
	badge := doc.Find(`[data-hook="avp-badge"], [data-hook="avp-badge-linkless"]`).First()
	if badge.Length() == 0 {
		return false
	}

	text := strings.ToLower(badge.Text())
	return strings.Contains(text, "verified") || strings.Contains(text, "purchase")
}

func (p *ReviewParser) extractHelpfulVotes(doc *goquery.Document) int {
	statement := strings.TrimSpace(doc.Find(`[data-hook="helpful-vote-statement"]`).First().Text())
	if statement == "" {
		return 0
	}

	matches := p.helpfulVotePattern.FindStringSubmatch(statement)
	if len(matches) != 2 {
		return 0
	}

	if strings.EqualFold(matches[1], "one") {
		return 1
	}

	digits := strings.NewReplacer(",", "", ".", "").Replace(matches[1])
	votes, err := strconv.Atoi(digits)
	if err != nil || votes < 0 {
		return 0
	}
	return votes
}

func (p *ReviewParser) extractImages(doc *goquery.Document) []string {
	var images []string
	doc.Find(`img[data-hook="review-image-tile"], [data-hook="review-image-tile"] img`).Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			images = append(images, src)
		}
	})
	return images
}
