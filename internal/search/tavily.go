package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTavilyBaseURL = "https://api.tavily.com"

// TavilyProvider searches through the Tavily API.
type TavilyProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// TavilyOption customizes a TavilyProvider.
type TavilyOption func(*TavilyProvider)

// WithTavilyBaseURL points the provider at a different endpoint.
func WithTavilyBaseURL(baseURL string) TavilyOption {
	return func(p *TavilyProvider) {
		if baseURL != "" {
			p.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTavilyHTTPClient replaces the HTTP client.
func WithTavilyHTTPClient(client *http.Client) TavilyOption {
	return func(p *TavilyProvider) {
		p.httpClient = client
	}
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
	Days        int    `json:"days,omitempty"`
}

type tavilyResponse struct {
	Results []Result `json:"results"`
}

// NewTavily creates a Tavily provider. Per-call deadlines come from the context.
func NewTavily(apiKey string, opts ...TavilyOption) *TavilyProvider {
	p := &TavilyProvider{
		apiKey:     apiKey,
		baseURL:    defaultTavilyBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns "tavily".
func (p *TavilyProvider) Name() string {
	return "tavily"
}

// Search posts the query to /search.
func (p *TavilyProvider) Search(ctx context.Context, q Query) ([]Result, error) {
	depth := q.Depth
	if depth == "" {
		depth = DepthBasic
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      p.apiKey,
		Query:       q.Text,
		SearchDepth: string(depth),
		MaxResults:  q.MaxResults,
		Days:        q.Days,
	})
	if err != nil {
		return nil, &Error{Provider: p.Name(), Message: "marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Provider: p.Name(), Message: "new request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Provider: p.Name(), Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &Error{Provider: p.Name(), StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(payload))}
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &Error{Provider: p.Name(), Message: "decode response", Cause: err}
	}

	return parsed.Results, nil
}
