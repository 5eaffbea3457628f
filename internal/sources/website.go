package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/company-brief/internal/fetch"
	"github.com/jonathan/company-brief/internal/scrape"
	"github.com/jonathan/company-brief/internal/search"
)

const (
	websiteDiscoveryTimeout = 10 * time.Second
	websiteScrapeTimeout    = 20 * time.Second
	homepageLimit           = 2000
	subpageLimit            = 1500
	// subpageMinLength is the shortest subpage content worth keeping.
	subpageMinLength = 100
	// DefaultSubpageWorkers bounds concurrent subpage scrapes.
	DefaultSubpageWorkers = 4
)

// Subpages are the paths scraped under the company root. News and press
// pages are left out.
var Subpages = []string{"/about", "/about-us", "/leadership", "/company"}

// WebsiteOptions configures a WebsiteFetcher.
type WebsiteOptions struct {
	Workers int
	Logger  *slog.Logger
}

// WebsiteFetcher scrapes the company homepage and a few fixed subpages.
type WebsiteFetcher struct {
	provider search.Provider
	scraper  scrape.Scraper
	workers  int
	logger   *slog.Logger
}

// NewWebsiteFetcher creates a WebsiteFetcher. provider is used to discover the
// homepage when the request does not carry one.
func NewWebsiteFetcher(provider search.Provider, scraper scrape.Scraper, opts WebsiteOptions) *WebsiteFetcher {
	if opts.Workers <= 0 {
		opts.Workers = DefaultSubpageWorkers
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &WebsiteFetcher{
		provider: provider,
		scraper:  scraper,
		workers:  opts.Workers,
		logger:   opts.Logger,
	}
}

// Name returns Website.
func (f *WebsiteFetcher) Name() Name { return Website }

// Fetch never returns an error; faults are reported in the text.
// Subpages appear in completion order.
func (f *WebsiteFetcher) Fetch(ctx context.Context, company Company) (string, error) {
	root := company.URL
	if root == "" {
		discovered, err := f.discover(ctx, company.Name)
		if err != nil {
			return websiteError(err), nil
		}
		if discovered == "" {
			return "[Website] Could not find official website.", nil
		}
		root = discovered
	}

	homepage, err := f.scrape(ctx, root)
	if err != nil {
		return websiteError(err), nil
	}

	var (
		mu sync.Mutex
		b  strings.Builder
	)
	fmt.Fprintf(&b, "[Homepage: %s]\n%s", root, Truncate(homepage, homepageLimit))

	base := strings.TrimRight(root, "/")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for _, path := range Subpages {
		g.Go(func() error {
			content, err := f.scrape(gctx, base+path)
			if err != nil {
				f.logger.Debug("subpage dropped", "url", base+path, "error", err)
				return nil
			}
			if n := utf8.RuneCountInString(content); n <= subpageMinLength {
				f.logger.Debug("subpage dropped", "url", base+path, "reason", "too short", "chars", n)
				return nil
			}
			mu.Lock()
			fmt.Fprintf(&b, "\n\n[Subpage: %s]\n%s", path, Truncate(content, subpageLimit))
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return b.String(), nil
}

// discover finds the company root URL through a one-result search.
// It returns "" when the search has no hits.
func (f *WebsiteFetcher) discover(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, websiteDiscoveryTimeout)
	defer cancel()

	results, err := f.provider.Search(ctx, search.Query{
		Text:       name + " official website",
		Depth:      search.DepthBasic,
		MaxResults: 1,
	})
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}
	return fetch.RootURL(results[0].URL)
}

func (f *WebsiteFetcher) scrape(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, websiteScrapeTimeout)
	defer cancel()
	return f.scraper.Scrape(ctx, pageURL)
}

func websiteError(err error) string {
	return fmt.Sprintf("[Website] Error scraping: %v", err)
}
