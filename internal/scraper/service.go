package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/maltedev/amazon-review-scraper/internal/models"
	"github.com/maltedev/amazon-review-scraper/internal/parser"
	"github.com/maltedev/amazon-review-scraper/internal/proxy"
	"github.com/maltedev/amazon-review-scraper/internal/ratelimit"
)

const defaultWaitTimeout = 10 * time.Second

// Service is the pagination driver. It owns one browser session per scrape
// request and walks successive review pages up to the caller's limit.
type Service struct {
	sessions    SessionFactory
	proxies     *proxy.Pool
	parser      *parser.ReviewParser
	limiter     ratelimit.RateLimiter
	metrics     *Metrics
	logger      *slog.Logger
	waitTimeout time.Duration
}

func NewService(sessions SessionFactory, proxies *proxy.Pool, limiter ratelimit.RateLimiter, metrics *Metrics, logger *slog.Logger) *Service {
	return &Service{
		sessions:    sessions,
		proxies:     proxies,
		parser:      parser.NewReviewParser(),
		limiter:     limiter,
		metrics:     metrics,
		logger:      logger.With("component", "scraper"),
		waitTimeout: defaultWaitTimeout,
	}
}

// SetWaitTimeout overrides how long a page may take to render its review
// list before pagination gives up on it.
func (s *Service) SetWaitTimeout(d time.Duration) {
	if d > 0 {
		s.waitTimeout = d
	}
}

// ScrapeReviews drives a full scrape: validate, open, navigate, paginate,
// aggregate. Session-level faults never escape as errors; they are
// translated into a ScrapeResult with status "error". The session is
// released on every exit path.
func (s *Service) ScrapeReviews(ctx context.Context, req models.ScrapeRequest) *models.ScrapeResult {
	start := time.Now()
	logger := s.logger.With("scrape_id", uuid.NewString(), "url", req.ProductURL)

	req.Normalize()
	if err := req.Validate(); err != nil {
		s.metrics.IncRequest(models.StatusError)
		s.metrics.IncError(ErrInvalidURL)
		return models.ErrorResult(fmt.Sprintf("%v: %v", ErrInvalidURL, err))
	}

	sess, err := s.openSession(ctx)
	if err != nil {
		logger.Error("failed to open browser session", "error", err)
		s.metrics.IncRequest(models.StatusError)
		s.metrics.IncError(err)
		return models.ErrorResult(fmt.Sprintf("failed to open browser session: %v", err))
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			logger.Error("failed to close browser session", "error", cerr)
		}
	}()

	if err := sess.Navigate(ctx, req.ProductURL); err != nil {
		if !errors.Is(err, ErrBlocked) {
			err = fmt.Errorf("%w: %v", ErrNavigation, err)
		}
		logger.Error("navigation failed", "error", err)
		s.metrics.IncRequest(models.StatusError)
		s.metrics.IncError(err)
		return models.ErrorResult(err.Error())
	}

	reviews, result := s.paginate(ctx, logger, sess, req.MaxPages)
	if result != nil {
		s.metrics.IncRequest(result.Status)
		s.metrics.ObserveDuration(time.Since(start))
		return result
	}

	message := fmt.Sprintf("Successfully scraped %d reviews", len(reviews))
	if len(reviews) == 0 {
		message = "No reviews found on the product page"
	}

	logger.Info("scrape finished", "reviews", len(reviews), "duration", time.Since(start))
	s.metrics.IncRequest(models.StatusSuccess)
	s.metrics.ObserveDuration(time.Since(start))
	return models.SuccessResult(message, reviews)
}

// paginate runs the page loop. It returns the aggregated reviews, or a
// non-nil result when the loop terminated in a way that dictates the whole
// response (first-page timeout, cancellation).
func (s *Service) paginate(ctx context.Context, logger *slog.Logger, sess Session, maxPages int) ([]models.Review, *models.ScrapeResult) {
	var reviews []models.Review

	for pageNum := 1; pageNum <= maxPages; pageNum++ {
		if err := s.wait(ctx); err != nil {
			logger.Warn("scrape cancelled", "page", pageNum, "error", err)
			s.metrics.IncError(err)
			return nil, models.ErrorResult(fmt.Sprintf("scrape cancelled: %v", err))
		}

		pageReviews, hasNext, err := s.scrapePage(ctx, sess.Page())
		if err != nil {
			if errors.Is(err, ErrRenderTimeout) && pageNum == 1 {
				// Empty is not an error: report success with an explanation.
				logger.Warn("no reviews rendered on first page")
				s.metrics.IncError(err)
				return nil, models.SuccessResult(
					"No reviews rendered; the product may have no reviews or the request was blocked", nil)
			}
			// Mid-pagination faults end the walk; collected reviews stand.
			logger.Warn("pagination stopped early", "page", pageNum, "error", err)
			s.metrics.IncError(err)
			break
		}

		logger.Info("scraped page", "page", pageNum, "reviews", len(pageReviews), "has_next", hasNext)
		reviews = append(reviews, pageReviews...)
		s.metrics.IncPage()
		s.metrics.AddReviews(len(pageReviews))

		if !hasNext || pageNum == maxPages {
			break
		}

		if err := sess.NextPage(ctx); err != nil {
			logger.Warn("failed to advance to next page", "page", pageNum, "error", err)
			s.metrics.IncError(err)
			break
		}
	}

	return reviews, nil
}

// scrapePage reads one already-navigated page: wait for the review list,
// extract every container, probe for a next-page control.
func (s *Service) scrapePage(ctx context.Context, page PageSource) ([]models.Review, bool, error) {
	if err := page.WaitForContent(ctx, s.waitTimeout); err != nil {
		return nil, false, err
	}

	nodes, err := page.ReviewNodes(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to snapshot review nodes: %w", err)
	}

	reviews := make([]models.Review, 0, len(nodes))
	for _, node := range nodes {
		reviews = append(reviews, s.parser.ExtractReview(node))
	}

	hasNext, err := page.HasNextPage(ctx)
	if err != nil {
		// Treat an unreadable control as the end of pagination.
		hasNext = false
	}

	return reviews, hasNext, nil
}

// openSession selects a proxy in rotation and opens the session. A proxied
// connect failure gets exactly one retry with the next pool entry; proxy
// failures are only detected at open time, there is no mid-session failover.
func (s *Service) openSession(ctx context.Context) (Session, error) {
	prox := s.proxies.Next()

	sess, err := s.sessions.Open(ctx, prox)
	if err == nil {
		return sess, nil
	}
	if prox == nil {
		return nil, err
	}

	s.logger.Warn("proxied session failed, retrying with next pool entry",
		"proxy", prox.Server, "error", err)

	retry := s.proxies.Next()
	sess, retryErr := s.sessions.Open(ctx, retry)
	if retryErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrProxyUnavailable, retryErr)
	}
	return sess, nil
}

func (s *Service) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}
