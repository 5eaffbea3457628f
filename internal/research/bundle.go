package research

import (
	"strings"

	"github.com/jonathan/company-brief/internal/sources"
)

// Unavailable is the section body used when a source produced no text.
const Unavailable = "Unavailable"

// Headers maps each source to its section header in the rendered bundle.
var Headers = map[sources.Name]string{
	sources.Web:       "=== WEB RESEARCH ===",
	sources.Edgar:     "=== SEC EDGAR 10-K FILING ===",
	sources.Website:   "=== COMPANY WEBSITE ===",
	sources.Wikipedia: "=== WIKIPEDIA (may contain outdated information - verify before using) ===",
	sources.LinkedIn:  "=== LINKEDIN COMPANY DATA ===",
}

// Section is one rendered block of the bundle.
type Section struct {
	Source sources.Name
	Header string
	Body   string
}

// Bundle is the research gathered for one company. It always renders exactly
// one section per source, in sources.All order.
type Bundle struct {
	Company sources.Company
	results map[sources.Name]sources.Result
}

// NewBundle builds a bundle from fetcher results. Results for unknown sources
// are ignored; missing sources render as Unavailable.
func NewBundle(company sources.Company, results []sources.Result) *Bundle {
	b := &Bundle{
		Company: company,
		results: make(map[sources.Name]sources.Result, len(results)),
	}
	for _, r := range results {
		if _, ok := Headers[r.Source]; ok {
			b.results[r.Source] = r
		}
	}
	return b
}

// Result returns the stored result for a source.
func (b *Bundle) Result(name sources.Name) (sources.Result, bool) {
	r, ok := b.results[name]
	return r, ok
}

// Failed lists the sources whose fetcher returned an error, in bundle order.
func (b *Bundle) Failed() []sources.Name {
	var failed []sources.Name
	for _, name := range sources.All() {
		if r, ok := b.results[name]; ok && r.Err != nil {
			failed = append(failed, name)
		}
	}
	return failed
}

// Sections returns the five sections in fixed order.
func (b *Bundle) Sections() []Section {
	all := sources.All()
	sections := make([]Section, 0, len(all))
	for _, name := range all {
		body := Unavailable
		if r, ok := b.results[name]; ok && strings.TrimSpace(r.Text) != "" {
			body = r.Text
		}
		sections = append(sections, Section{Source: name, Header: Headers[name], Body: body})
	}
	return sections
}

// Render returns the bundle text passed to the document generator.
func (b *Bundle) Render() string {
	var sb strings.Builder
	for i, s := range b.Sections() {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(s.Header)
		sb.WriteString("\n")
		sb.WriteString(s.Body)
	}
	return strings.TrimSpace(sb.String())
}

func (b *Bundle) String() string {
	return b.Render()
}
