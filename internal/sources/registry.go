package sources

import (
	"log/slog"
	"net/http"

	"github.com/jonathan/company-brief/internal/config"
	"github.com/jonathan/company-brief/internal/scrape"
	"github.com/jonathan/company-brief/internal/search"
)

// Deps holds the shared clients the fetchers are built from.
type Deps struct {
	Search     search.Provider
	Scraper    scrape.Scraper
	HTTPClient *http.Client
	Clock      Clock
	Logger     *slog.Logger
}

// NewAll builds one fetcher per source, in bundle order.
func NewAll(cfg *config.Config, deps Deps) []Fetcher {
	return []Fetcher{
		NewWebFetcher(deps.Search, cfg.Interview.Region, deps.Clock),
		NewEdgarFetcher(EdgarOptions{
			BaseURL:   cfg.Sources.EdgarBaseURL,
			UserAgent: cfg.Sources.UserAgent,
			Client:    deps.HTTPClient,
			Clock:     deps.Clock,
		}),
		NewWebsiteFetcher(deps.Search, deps.Scraper, WebsiteOptions{
			Workers: cfg.Research.SubpageWorkers,
			Logger:  deps.Logger,
		}),
		NewWikipediaFetcher(cfg.Sources.WikipediaBaseURL, cfg.Sources.UserAgent, deps.HTTPClient),
		NewLinkedInFetcher(deps.Search),
	}
}
