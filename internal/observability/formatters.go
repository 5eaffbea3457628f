// Package observability provides Prometheus metrics for the service and
// formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/company-brief/internal/research"
	"github.com/jonathan/company-brief/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// previewLines is how many lines of a document the summary shows
	previewLines = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to n runes, marking the cut with "...".
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// PrintBundleSummary outputs one line per research source with its size and outcome.
func (p *Printer) PrintBundleSummary(bundle *research.Bundle) {
	if bundle == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Company:  %s\n", bundle.Company.Name)
	if bundle.Company.URL != "" {
		fmt.Fprintf(&sb, "Website:  %s\n", bundle.Company.URL)
	}
	sb.WriteString("\n")

	for _, section := range bundle.Sections() {
		mark := "✓"
		detail := fmt.Sprintf("%d chars", utf8.RuneCountInString(section.Body))
		if r, ok := bundle.Result(section.Source); ok {
			if r.Err != nil {
				mark = "✗"
				detail = r.Err.Error()
			}
			detail += fmt.Sprintf(" (%dms)", r.Duration.Milliseconds())
		} else {
			mark = "-"
			detail = research.Unavailable
		}
		fmt.Fprintf(&sb, "%s %-10s %s\n", mark, section.Source, detail)
	}

	p.printBox("RESEARCH BUNDLE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDocument outputs the opening lines of a generated document.
func (p *Printer) PrintDocument(title, text string) {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d chars, %d lines\n\n", utf8.RuneCountInString(text), len(lines))

	count := min(len(lines), previewLines)
	for i := 0; i < count; i++ {
		sb.WriteString(lines[i])
		sb.WriteString("\n")
	}
	if len(lines) > previewLines {
		fmt.Fprintf(&sb, "... and %d more lines\n", len(lines)-previewLines)
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResponse outputs both documents of a response.
func (p *Printer) PrintResponse(resp *types.BriefResponse) {
	if resp == nil {
		return
	}
	p.PrintDocument("INTERVIEWER BRIEF: "+resp.Company, resp.InterviewerBrief)
	p.PrintDocument("INTERVIEWEE PACKET: "+resp.Company, resp.IntervieweePacket)
}
