package search

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// maxGoogleResults is the page size limit of the Custom Search JSON API.
const maxGoogleResults = 10

// GoogleProvider searches through the Google Custom Search JSON API.
type GoogleProvider struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogle creates a Google Custom Search provider for the engine cx.
func NewGoogle(ctx context.Context, apiKey, cx string, opts ...option.ClientOption) (*GoogleProvider, error) {
	if cx == "" {
		return nil, fmt.Errorf("search engine id (cx) is required")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &GoogleProvider{svc: svc, cx: cx}, nil
}

// Name returns "google".
func (p *GoogleProvider) Name() string {
	return "google"
}

// Search runs the query. Depth is ignored; Days maps to dateRestrict.
func (p *GoogleProvider) Search(ctx context.Context, q Query) ([]Result, error) {
	call := p.svc.Cse.List().Cx(p.cx).Q(q.Text)
	if n := q.MaxResults; n > 0 {
		call = call.Num(int64(min(n, maxGoogleResults)))
	}
	if q.Days > 0 {
		call = call.DateRestrict(fmt.Sprintf("d%d", q.Days))
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, &Error{Provider: p.Name(), Message: "request failed", Cause: err}
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, Result{
			Title:   item.Title,
			Content: item.Snippet,
			URL:     item.Link,
		})
	}
	return results, nil
}
