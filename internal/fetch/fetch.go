// Package fetch retrieves company web pages and reduces them to readable text.
// It backs the direct page scraper used when no scraping API is configured.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultTimeout bounds a single page request.
	DefaultTimeout = 20 * time.Second
	// DefaultUserAgent identifies the scraper to company sites.
	DefaultUserAgent = "Mozilla/5.0 (compatible; CompanyBrief/1.0)"
)

// maxBodyBytes caps how much of a page is read into memory.
const maxBodyBytes = 5 << 20

// boilerplate is removed from every page before the content lookup.
const boilerplate = "nav, footer, header, script, style, noscript, form, iframe, .cookie-banner, .popup, .sidebar"

// contentSelectors are tried in order; the first match is the page body.
var contentSelectors = []string{
	"main",
	"article",
	".about-content",
	".leadership",
	".team",
	".content",
	"#content",
}

// pressSelectors carry dated announcements that go stale quickly.
var pressSelectors = []string{
	".news",
	".press",
	".press-releases",
	"#news",
	"#press",
}

// Page is a fetched HTML document.
type Page struct {
	URL        string
	HTML       string
	StatusCode int
}

// Error represents an error during page fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures Get. Zero values fall back to the defaults above.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
}

// Get downloads pageURL. A non-200 answer returns the page together with an
// *Error so callers can inspect the status.
func Get(ctx context.Context, pageURL string, opts Options) (*Page, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: pageURL, Message: "invalid URL", Cause: err}
	}

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "build request", Cause: err}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "read body", Cause: err}
	}

	page := &Page{URL: pageURL, HTML: string(body), StatusCode: resp.StatusCode}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: pageURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

// RootURL reduces a URL to its scheme and host, e.g. "https://acme.com".
func RootURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid URL %q: missing scheme or host", raw)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}

// MainText parses a company page and returns its main body text, one
// trimmed line per text block. Navigation, press and news blocks are dropped.
// Without a recognizable content container the whole body is used.
func MainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(boilerplate).Remove()
	doc.Find(strings.Join(pressSelectors, ", ")).Remove()

	content := doc.Find("body")
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			content = selection.First()
			break
		}
	}

	return compactLines(content.Text()), nil
}

func compactLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
