package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/company-brief/internal/search"
)

const linkedInQueryTimeout = 10 * time.Second

// LinkedInFetcher looks for company profile data through web search.
type LinkedInFetcher struct {
	provider search.Provider
}

// NewLinkedInFetcher creates a LinkedInFetcher.
func NewLinkedInFetcher(provider search.Provider) *LinkedInFetcher {
	return &LinkedInFetcher{provider: provider}
}

// Name returns LinkedIn.
func (f *LinkedInFetcher) Name() Name { return LinkedIn }

// Fetch never returns an error; faults are reported in the text.
func (f *LinkedInFetcher) Fetch(ctx context.Context, company Company) (string, error) {
	queries := []string{
		fmt.Sprintf("%s site:linkedin.com/company", company.Name),
		fmt.Sprintf("%s employees industry headquarters linkedin", company.Name),
	}

	var lines []string
	for _, q := range queries {
		qctx, cancel := context.WithTimeout(ctx, linkedInQueryTimeout)
		results, err := f.provider.Search(qctx, search.Query{
			Text:       q,
			Depth:      search.DepthBasic,
			MaxResults: webMaxResults,
			Days:       webRecencyDays,
		})
		cancel()
		if err != nil {
			return fmt.Sprintf("[LinkedIn] Error: %v", err), nil
		}
		for _, r := range results {
			lines = append(lines, searchLine("LinkedIn/Web", r.Title, r.Content, webContentLimit))
		}
	}

	if len(lines) == 0 {
		return fmt.Sprintf("[LinkedIn] No results found for %s", company.Name), nil
	}
	return strings.Join(lines, "\n"), nil
}
