package browser

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/amazon-review-scraper/internal/proxy"
	"github.com/maltedev/amazon-review-scraper/internal/scraper"
)

type Options struct {
	Headless       bool
	Timeout        time.Duration
	UserAgents     []string
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	TimezoneID     string
	Locale         string
	ExtraHeaders   map[string]string
}

func DefaultOptions() *Options {
	return &Options{
		Headless:       true,
		Timeout:        30 * time.Second,
		UserAgents:     defaultUserAgents(),
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		AcceptLanguage: "en-US,en;q=0.5",
		TimezoneID:     "America/New_York",
		Locale:         "en-US",
		ExtraHeaders: map[string]string{
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Encoding":           "gzip, deflate, br",
			"DNT":                       "1",
			"Upgrade-Insecure-Requests": "1",
		},
	}
}

func defaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:121.0) Gecko/20100101 Firefox/121.0",
	}
}

// Hides the obvious automation markers before any page script runs.
const stealthScript = `
	try {
		Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
	} catch (e) {}
	try {
		Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
	} catch (e) {}
	try {
		Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
	} catch (e) {}
	window.chrome = { runtime: {} };
`

// Factory launches one browser per session. Each scrape request gets its own
// playwright instance so the proxy, which is a launch-time option, can rotate
// per request.
type Factory struct {
	opts   *Options
	logger *slog.Logger
}

func NewFactory(opts *Options, logger *slog.Logger) *Factory {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Factory{
		opts:   opts,
		logger: logger.With("component", "browser"),
	}
}

func (f *Factory) randomUserAgent() string {
	agents := f.opts.UserAgents
	if len(agents) == 0 {
		agents = defaultUserAgents()
	}
	return agents[rand.Intn(len(agents))]
}

// Open launches a browser session, optionally through prox, applying the
// anti-detection configuration. The caller owns the returned session and
// must Close it on every exit path.
func (f *Factory) Open(ctx context.Context, prox *proxy.Proxy) (scraper.Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(f.opts.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--disable-extensions",
			"--disable-gpu",
			"--no-first-run",
			"--no-default-browser-check",
			"--disable-popup-blocking",
			"--disable-background-timer-throttling",
			"--disable-renderer-backgrounding",
		},
	}

	if prox != nil {
		launchOpts.Proxy = &playwright.Proxy{
			Server: prox.Server,
		}
		if prox.Username != "" {
			launchOpts.Proxy.Username = playwright.String(prox.Username)
		}
		if prox.Password != "" {
			launchOpts.Proxy.Password = playwright.String(prox.Password)
		}
		f.logger.Info("opening proxied session", "proxy", prox.Server)
	}

	br, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	userAgent := f.randomUserAgent()
	contextOpts := playwright.BrowserNewContextOptions{
		UserAgent:         playwright.String(userAgent),
		AcceptDownloads:   playwright.Bool(false),
		JavaScriptEnabled: playwright.Bool(true),
		Locale:            playwright.String(f.opts.Locale),
		TimezoneId:        playwright.String(f.opts.TimezoneID),
		Viewport: &playwright.Size{
			Width:  f.opts.ViewportWidth,
			Height: f.opts.ViewportHeight,
		},
		ExtraHttpHeaders: f.headers(),
	}

	browserCtx, err := br.NewContext(contextOpts)
	if err != nil {
		br.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	if err := browserCtx.AddInitScript(playwright.Script{
		Content: playwright.String(stealthScript),
	}); err != nil {
		browserCtx.Close()
		br.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to add init script: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		br.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(f.opts.Timeout.Milliseconds()))

	f.logger.Debug("session opened", "user_agent", userAgent)

	return &session{
		pw:      pw,
		browser: br,
		context: browserCtx,
		page:    page,
		timeout: f.opts.Timeout,
		logger:  f.logger,
	}, nil
}

func (f *Factory) headers() map[string]string {
	headers := make(map[string]string, len(f.opts.ExtraHeaders)+1)
	for k, v := range f.opts.ExtraHeaders {
		headers[k] = v
	}
	if f.opts.AcceptLanguage != "" {
		headers["Accept-Language"] = f.opts.AcceptLanguage
	}
	return headers
}
