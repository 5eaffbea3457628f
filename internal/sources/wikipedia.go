package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	wikipediaTimeout      = 10 * time.Second
	wikipediaExtractLimit = 2000
)

// WikipediaFetcher reads the article summary from the Wikipedia REST API.
type WikipediaFetcher struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewWikipediaFetcher creates a WikipediaFetcher. A nil client uses a default one.
func NewWikipediaFetcher(baseURL, userAgent string, client *http.Client) *WikipediaFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &WikipediaFetcher{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    client,
	}
}

// Name returns Wikipedia.
func (f *WikipediaFetcher) Name() Name { return Wikipedia }

type wikipediaSummary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// SummaryURL returns the summary endpoint for a company name.
func (f *WikipediaFetcher) SummaryURL(name string) string {
	title := strings.ReplaceAll(name, " ", "_")
	return f.baseURL + "/api/rest_v1/page/summary/" + url.PathEscape(title)
}

// Fetch never returns an error; faults are reported in the text.
func (f *WikipediaFetcher) Fetch(ctx context.Context, company Company) (string, error) {
	notFound := fmt.Sprintf("[Wikipedia] No article found for %s", company.Name)

	summary, status, err := f.summary(ctx, company.Name)
	if status == http.StatusNotFound {
		return notFound, nil
	}
	if err != nil {
		return fmt.Sprintf("[Wikipedia] Error: %v", err), nil
	}
	if summary.Extract == "" {
		return notFound, nil
	}

	title := valueOr(summary.Title, company.Name)
	return fmt.Sprintf("[Wikipedia] %s: %s", title, Truncate(summary.Extract, wikipediaExtractLimit)), nil
}

func (f *WikipediaFetcher) summary(ctx context.Context, name string) (*wikipediaSummary, int, error) {
	ctx, cancel := context.WithTimeout(ctx, wikipediaTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.SummaryURL(name), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var summary wikipediaSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return &summary, resp.StatusCode, nil
}
