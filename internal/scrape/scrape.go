// Package scrape turns a page URL into readable text, either through the
// Firecrawl API or by fetching and extracting the HTML directly.
package scrape

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/company-brief/internal/config"
)

// Scraper returns the main readable content of a page.
// Implementations must be safe for concurrent use.
type Scraper interface {
	Scrape(ctx context.Context, pageURL string) (string, error)
}

// Error is returned when a page cannot be scraped.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("scrape %s: HTTP %d: %s", e.URL, e.StatusCode, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("scrape %s: %s: %v", e.URL, e.Message, e.Cause)
	default:
		return fmt.Sprintf("scrape %s: %s", e.URL, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds the scraper selected by cfg.Backend.
func New(cfg config.ScraperConfig, logger *slog.Logger) (Scraper, error) {
	switch cfg.Backend {
	case "", "firecrawl":
		if cfg.FirecrawlAPIKey == "" {
			return nil, fmt.Errorf("firecrawl backend requires an API key")
		}
		return NewFirecrawl(cfg.FirecrawlAPIKey, WithFirecrawlBaseURL(cfg.FirecrawlBaseURL)), nil
	case "direct":
		return NewDirect(DirectOptions{UseBrowser: cfg.UseBrowser, Logger: logger}), nil
	default:
		return nil, fmt.Errorf("unsupported scraper backend: %s", cfg.Backend)
	}
}
