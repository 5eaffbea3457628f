// Package sources implements the per-source fetchers that each produce one
// block of research text about a company.
package sources

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// Name identifies a research source.
type Name string

// Source names in bundle order.
const (
	Web       Name = "web"
	Edgar     Name = "edgar"
	Website   Name = "website"
	Wikipedia Name = "wikipedia"
	LinkedIn  Name = "linkedin"
)

// All returns every source in the fixed order used by the research bundle.
func All() []Name {
	return []Name{Web, Edgar, Website, Wikipedia, LinkedIn}
}

// Company identifies the subject of a research request.
type Company struct {
	Name string
	// URL is the homepage, already normalized to include a scheme. Empty when unknown.
	URL string
}

// Result is the outcome of one fetcher run.
type Result struct {
	Source   Name
	Text     string
	Err      error
	Duration time.Duration
}

// Fetcher gathers text about a company from one source.
//
// Fetchers report source faults inside the returned text (e.g.
// "[Wikipedia] Error: ...") and only return an error when they cannot
// produce any text at all.
type Fetcher interface {
	Name() Name
	Fetch(ctx context.Context, company Company) (string, error)
}

// Clock returns the current time. Fetchers that build date-relative queries take one.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// SlowestFetch is the longest any fetcher takes when every one of its network
// calls runs to its own timeout. The web fetcher's sequential queries set it.
const SlowestFetch = webQueryCount * webQueryTimeout

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// searchLine formats one search hit as "[tag] title: content".
func searchLine(tag, title, content string, limit int) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(tag)
	b.WriteString("] ")
	b.WriteString(title)
	b.WriteString(": ")
	b.WriteString(Truncate(content, limit))
	return b.String()
}
