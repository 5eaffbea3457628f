// Package search provides keyed web search providers behind a single interface.
package search

import (
	"context"
	"fmt"
)

// Depth controls how thoroughly a provider searches.
type Depth string

const (
	// DepthBasic is a fast, shallow search.
	DepthBasic Depth = "basic"
	// DepthAdvanced asks the provider for a deeper crawl where supported.
	DepthAdvanced Depth = "advanced"
)

// Query describes a single search request.
type Query struct {
	Text       string
	Depth      Depth
	MaxResults int
	// Days restricts results to roughly the last N days. Zero means no restriction.
	Days int
}

// Result is a single search hit.
type Result struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// Provider is the interface all search providers must implement.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Name returns the provider identifier (e.g., "tavily", "google")
	Name() string
	// Search runs one query and returns its hits in provider order.
	Search(ctx context.Context, q Query) ([]Result, error)
}

// Error is returned when a provider call fails.
type Error struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s search failed: HTTP %d: %s", e.Provider, e.StatusCode, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s search failed: %s: %v", e.Provider, e.Message, e.Cause)
	default:
		return fmt.Sprintf("%s search failed: %s", e.Provider, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}
