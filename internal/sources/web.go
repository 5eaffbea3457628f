package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/company-brief/internal/search"
)

const (
	webMaxResults   = 3
	webRecencyDays  = 180
	webQueryTimeout = 15 * time.Second
	webQueryCount   = 6
	webContentLimit = 400
)

// WebFetcher runs a fixed set of general web searches about the company.
type WebFetcher struct {
	provider search.Provider
	region   string
	clock    Clock
}

// NewWebFetcher creates a WebFetcher. region is used in the market query.
func NewWebFetcher(provider search.Provider, region string, clock Clock) *WebFetcher {
	return &WebFetcher{provider: provider, region: region, clock: clock}
}

// Name returns Web.
func (f *WebFetcher) Name() Name { return Web }

// Queries returns the search queries issued for name, in order.
func (f *WebFetcher) Queries(name string) []string {
	year := f.clock.now().Year()
	return []string{
		fmt.Sprintf("%s company overview business model revenue", name),
		fmt.Sprintf("%s recent news challenges opportunities %d %d", name, year-1, year),
		fmt.Sprintf("%s %s market competitors industry", name, f.region),
		fmt.Sprintf("%s CEO leadership team executives", name),
		fmt.Sprintf("%s annual revenue employees growth", name),
		fmt.Sprintf("%s technology innovation strategy", name),
	}
}

// Fetch runs every query in order. The first search error aborts the fetch.
func (f *WebFetcher) Fetch(ctx context.Context, company Company) (string, error) {
	var lines []string
	for _, q := range f.Queries(company.Name) {
		results, err := f.search(ctx, q)
		if err != nil {
			return "", err
		}
		for _, r := range results {
			lines = append(lines, searchLine("Web", r.Title, r.Content, webContentLimit))
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (f *WebFetcher) search(ctx context.Context, text string) ([]search.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, webQueryTimeout)
	defer cancel()
	return f.provider.Search(ctx, search.Query{
		Text:       text,
		Depth:      search.DepthBasic,
		MaxResults: webMaxResults,
		Days:       webRecencyDays,
	})
}
