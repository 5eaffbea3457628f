package scrape

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonathan/company-brief/internal/fetch"
)

// RenderFunc renders a page in a browser and returns its HTML.
type RenderFunc func(ctx context.Context, pageURL string, timeout time.Duration, logger *slog.Logger) (string, error)

// DirectOptions configures a DirectScraper.
type DirectOptions struct {
	// UseBrowser enables a headless browser retry for pages whose static
	// HTML yields too little text.
	UseBrowser bool
	Timeout    time.Duration
	UserAgent  string
	Client     *http.Client
	Render     RenderFunc
	Logger     *slog.Logger
}

// DirectScraper fetches HTML itself and extracts the main text with goquery.
type DirectScraper struct {
	opts DirectOptions
}

// NewDirect creates a DirectScraper.
func NewDirect(opts DirectOptions) *DirectScraper {
	if opts.Timeout <= 0 {
		opts.Timeout = fetch.DefaultTimeout
	}
	if opts.Render == nil {
		opts.Render = fetch.WithBrowser
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &DirectScraper{opts: opts}
}

// Scrape fetches pageURL and returns its cleaned text.
func (s *DirectScraper) Scrape(ctx context.Context, pageURL string) (string, error) {
	page, err := fetch.Get(ctx, pageURL, fetch.Options{
		Timeout:   s.opts.Timeout,
		UserAgent: s.opts.UserAgent,
		Client:    s.opts.Client,
	})
	if err != nil {
		statusCode := 0
		if page != nil {
			statusCode = page.StatusCode
		}
		return "", &Error{URL: pageURL, StatusCode: statusCode, Message: "fetch failed", Cause: err}
	}

	text, err := fetch.MainText(page.HTML)
	if err != nil {
		return "", &Error{URL: pageURL, Message: "extract text", Cause: err}
	}

	if s.opts.UseBrowser && fetch.ShouldUseBrowser(text) {
		s.opts.Logger.Debug("static content too short, rendering in browser",
			"url", pageURL, "chars", len(text))
		html, err := s.opts.Render(ctx, pageURL, s.opts.Timeout, s.opts.Logger)
		if err != nil {
			// Fall back to the static text.
			s.opts.Logger.Debug("browser render failed", "url", pageURL, "error", err)
			return text, nil
		}
		if rendered, err := fetch.MainText(html); err == nil && len(rendered) > len(text) {
			text = rendered
		}
	}

	return text, nil
}
