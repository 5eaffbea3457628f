package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	edgarTimeout        = 15 * time.Second
	edgarSnippetLimit   = 400
	edgarHighlightHits  = 2
	edgarSnippetsPerKey = 2
)

// EdgarOptions configures an EdgarFetcher.
type EdgarOptions struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
	Clock     Clock
}

// EdgarFetcher looks up recent 10-K filings through SEC EDGAR full-text search.
type EdgarFetcher struct {
	baseURL   string
	userAgent string
	client    *http.Client
	clock     Clock
}

// NewEdgarFetcher creates an EdgarFetcher.
func NewEdgarFetcher(opts EdgarOptions) *EdgarFetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	return &EdgarFetcher{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		client:    client,
		clock:     opts.Clock,
	}
}

// Name returns Edgar.
func (f *EdgarFetcher) Name() Name { return Edgar }

type edgarResponse struct {
	Hits struct {
		Hits []edgarHit `json:"hits"`
	} `json:"hits"`
}

type edgarHit struct {
	Source    edgarFiling         `json:"_source"`
	Highlight map[string][]string `json:"highlight"`
}

type edgarFiling struct {
	EntityName     string     `json:"entity_name"`
	PeriodOfReport string     `json:"period_of_report"`
	FormType       string     `json:"form_type"`
	AccessionNo    string     `json:"accession_no"`
	EntityID       flexString `json:"entity_id"`
}

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	*s = flexString(data)
	return nil
}

// Fetch never returns an error; faults are reported in the text.
func (f *EdgarFetcher) Fetch(ctx context.Context, company Company) (string, error) {
	year := f.clock.now().Year()

	first, err := f.search(ctx, company.Name, year-2, year)
	if err != nil {
		return edgarError(err), nil
	}
	if len(first.Hits.Hits) == 0 {
		return "[SEC EDGAR] No 10-K found - likely a private company.", nil
	}

	filing := first.Hits.Hits[0].Source
	entity := valueOr(filing.EntityName, company.Name)
	form := valueOr(filing.FormType, "10-K")
	period := valueOr(filing.PeriodOfReport, "unknown period")
	parts := []string{fmt.Sprintf("[SEC EDGAR 10-K] %s | %s | Period: %s", entity, form, period)}

	accession := strings.ReplaceAll(filing.AccessionNo, "-", "")
	entityID := strings.TrimLeft(string(filing.EntityID), "0")
	if accession != "" && entityID != "" {
		second, err := f.search(ctx, company.Name, year-1, year)
		if err != nil {
			return edgarError(err), nil
		}
		parts = append(parts, highlights(second)...)
	}

	return strings.Join(parts, "\n"), nil
}

func (f *EdgarFetcher) search(ctx context.Context, name string, startYear, endYear int) (*edgarResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, edgarTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", `"`+name+`"`)
	params.Set("forms", "10-K")
	params.Set("dateRange", "custom")
	params.Set("startdt", fmt.Sprintf("%d-01-01", startYear))
	params.Set("enddt", fmt.Sprintf("%d-12-31", endYear))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/LATEST/search-index?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var parsed edgarResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &parsed, nil
}

// highlights extracts snippet lines from the first hits. Fields are visited
// in sorted order so output is stable.
func highlights(resp *edgarResponse) []string {
	var lines []string
	hits := resp.Hits.Hits
	if len(hits) > edgarHighlightHits {
		hits = hits[:edgarHighlightHits]
	}
	for _, hit := range hits {
		fields := make([]string, 0, len(hit.Highlight))
		for field := range hit.Highlight {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			snippets := hit.Highlight[field]
			if len(snippets) > edgarSnippetsPerKey {
				snippets = snippets[:edgarSnippetsPerKey]
			}
			for _, s := range snippets {
				clean := strings.NewReplacer("<em>", "", "</em>", "").Replace(s)
				lines = append(lines, "  → "+Truncate(clean, edgarSnippetLimit))
			}
		}
	}
	return lines
}

func edgarError(err error) string {
	return fmt.Sprintf("[SEC EDGAR] Error fetching 10-K: %v", err)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
