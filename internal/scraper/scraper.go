package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/maltedev/amazon-review-scraper/internal/proxy"
)

var (
	ErrInvalidURL       = errors.New("invalid product URL")
	ErrNavigation       = errors.New("failed to reach product page")
	ErrBlocked          = errors.New("blocked by anti-bot protection")
	ErrRenderTimeout    = errors.New("review content did not render in time")
	ErrProxyUnavailable = errors.New("no reachable proxy in pool")
)

// PageSource is the capability a loaded review page exposes. The real
// implementation wraps a playwright page; tests implement it over fixture
// HTML. It only reads the already-rendered page and never navigates.
type PageSource interface {
	// WaitForContent blocks until the review list container is present or
	// the timeout elapses. A timeout reports ErrRenderTimeout.
	WaitForContent(ctx context.Context, timeout time.Duration) error
	// ReviewNodes returns the rendered outerHTML of each review container
	// currently in the DOM snapshot.
	ReviewNodes(ctx context.Context) ([]string, error)
	// HasNextPage reports whether an enabled "next page" control exists.
	HasNextPage(ctx context.Context) (bool, error)
}

// Session owns one browser for the duration of a single scrape request.
// Sessions are never shared or pooled across requests.
type Session interface {
	Navigate(ctx context.Context, url string) error
	Page() PageSource
	// NextPage activates the next-page control and waits for the load.
	NextPage(ctx context.Context) error
	Close() error
}

// SessionFactory opens sessions, optionally through a proxy. A nil proxy
// means a direct connection.
type SessionFactory interface {
	Open(ctx context.Context, prox *proxy.Proxy) (Session, error)
}

func errorTypeLabel(err error) string {
	switch {
	case err == nil:
		return "unknown"
	case errors.Is(err, ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, ErrBlocked):
		return "blocked"
	case errors.Is(err, ErrRenderTimeout):
		return "render_timeout"
	case errors.Is(err, ErrProxyUnavailable):
		return "proxy"
	case errors.Is(err, ErrNavigation):
		return "navigation"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}
