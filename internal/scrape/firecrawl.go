package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultFirecrawlBaseURL = "https://api.firecrawl.dev"

// FirecrawlScraper scrapes pages through the Firecrawl API as markdown.
type FirecrawlScraper struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// FirecrawlOption customizes a FirecrawlScraper.
type FirecrawlOption func(*FirecrawlScraper)

// WithFirecrawlBaseURL points the scraper at a different endpoint.
func WithFirecrawlBaseURL(baseURL string) FirecrawlOption {
	return func(s *FirecrawlScraper) {
		if baseURL != "" {
			s.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithFirecrawlHTTPClient replaces the HTTP client.
func WithFirecrawlHTTPClient(client *http.Client) FirecrawlOption {
	return func(s *FirecrawlScraper) {
		s.httpClient = client
	}
}

type firecrawlRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type firecrawlResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    struct {
		Markdown string `json:"markdown"`
	} `json:"data"`
}

// NewFirecrawl creates a Firecrawl scraper.
func NewFirecrawl(apiKey string, opts ...FirecrawlOption) *FirecrawlScraper {
	s := &FirecrawlScraper{
		apiKey:     apiKey,
		baseURL:    defaultFirecrawlBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape returns the page's main content as markdown.
func (s *FirecrawlScraper) Scrape(ctx context.Context, pageURL string) (string, error) {
	body, err := json.Marshal(firecrawlRequest{
		URL:             pageURL,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
	})
	if err != nil {
		return "", &Error{URL: pageURL, Message: "marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/scrape", bytes.NewReader(body))
	if err != nil {
		return "", &Error{URL: pageURL, Message: "new request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &Error{URL: pageURL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &Error{URL: pageURL, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(payload))}
	}

	var parsed firecrawlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &Error{URL: pageURL, Message: "decode response", Cause: err}
	}
	if !parsed.Success && parsed.Error != "" {
		return "", &Error{URL: pageURL, Message: parsed.Error}
	}

	return parsed.Data.Markdown, nil
}
