package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/amazon-review-scraper/internal/scraper"
)

// Selectors for the review list, most specific first. Amazon serves several
// layouts depending on marketplace and widget version.
var reviewListSelectors = []string{
	`li[data-hook="review"]`,
	`#cm-cr-dp-review-list li[data-hook="review"]`,
	`[data-hook="review"]`,
	`.review`,
}

const nextPageSelector = `li.a-last:not(.a-disabled) a`

var botWallMarkers = []string{
	"Robot or human?",
	"not a robot",
	"Type the characters you see in this image",
	"Geben Sie die Zeichen unten ein",
}

// session owns one playwright instance for one scrape request.
type session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	timeout time.Duration
	logger  *slog.Logger
}

func (s *session) Navigate(ctx context.Context, url string) error {
	s.logger.Info("navigating to product page", "url", url)

	if _, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(s.timeout.Milliseconds())),
	}); err != nil {
		return fmt.Errorf("goto failed: %w", err)
	}

	if err := s.checkBotWall(); err != nil {
		return err
	}

	s.scrollToReviews()
	return nil
}

// checkBotWall inspects the rendered page for captcha markers and tries one
// "continue shopping" click-through before giving up.
func (s *session) checkBotWall() error {
	content, err := s.page.Content()
	if err != nil {
		return fmt.Errorf("failed to read page content: %w", err)
	}

	if !containsAny(content, botWallMarkers) {
		return nil
	}

	s.logger.Warn("bot protection detected, attempting bypass")

	buttonSelectors := []string{
		`button:has-text("Continue shopping")`,
		`button:has-text("Weiter shoppen")`,
		`input[type="submit"]`,
		`.a-button-primary`,
	}

	for _, selector := range buttonSelectors {
		button := s.page.Locator(selector).First()
		count, err := button.Count()
		if err != nil || count == 0 {
			continue
		}
		if err := button.Click(); err != nil {
			continue
		}
		time.Sleep(3 * time.Second)

		newContent, _ := s.page.Content()
		if !containsAny(newContent, botWallMarkers) {
			s.logger.Info("bypassed bot protection")
			return nil
		}
	}

	return scraper.ErrBlocked
}

// scrollToReviews walks down the page in steps so the lazily rendered review
// widget loads. Reviews are read from the product page itself; the
// "see all reviews" view sits behind a login wall on most marketplaces.
func (s *session) scrollToReviews() {
	for _, fraction := range []string{"0.3", "0.6", "0.85"} {
		s.page.Evaluate("window.scrollTo(0, document.body.scrollHeight * " + fraction + ")")
		time.Sleep(time.Second)
	}
}

func (s *session) Page() scraper.PageSource {
	return &pageSource{page: s.page, logger: s.logger}
}

func (s *session) NextPage(ctx context.Context) error {
	next := s.page.Locator(nextPageSelector).First()
	if err := next.Click(); err != nil {
		return fmt.Errorf("failed to click next page: %w", err)
	}

	if err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("next page did not load: %w", err)
	}

	s.scrollToReviews()
	return nil
}

func (s *session) Close() error {
	var errs []error

	if s.page != nil {
		if err := s.page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close page: %w", err))
		}
	}
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close context: %w", err))
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}

// pageSource reads the already-rendered page. It never navigates.
type pageSource struct {
	page   playwright.Page
	logger *slog.Logger
}

func (p *pageSource) WaitForContent(ctx context.Context, timeout time.Duration) error {
	perSelector := float64(timeout.Milliseconds()) / float64(len(reviewListSelectors))

	for _, selector := range reviewListSelectors {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(perSelector),
		})
		if err == nil {
			p.logger.Debug("review list rendered", "selector", selector)
			return nil
		}
	}

	return fmt.Errorf("%w: no review container after %s", scraper.ErrRenderTimeout, timeout)
}

func (p *pageSource) ReviewNodes(ctx context.Context) ([]string, error) {
	locators, err := p.page.Locator(`[data-hook="review"]`).All()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate review containers: %w", err)
	}

	nodes := make([]string, 0, len(locators))
	for _, locator := range locators {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := locator.Evaluate("el => el.outerHTML", nil)
		if err != nil {
			p.logger.Warn("failed to snapshot review container", "error", err)
			continue
		}
		if html, ok := raw.(string); ok {
			nodes = append(nodes, html)
		}
	}

	return nodes, nil
}

func (p *pageSource) HasNextPage(ctx context.Context) (bool, error) {
	count, err := p.page.Locator(nextPageSelector).Count()
	if err != nil {
		return false, fmt.Errorf("failed to probe next-page control: %w", err)
	}
	return count > 0, nil
}

func containsAny(content string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}
