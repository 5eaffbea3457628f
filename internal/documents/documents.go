// Package documents turns a research bundle into the interviewer brief and the
// interviewee packet with one text-generation call each.
package documents

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jonathan/company-brief/internal/llm"
	"github.com/jonathan/company-brief/internal/prompts"
)

// Kind selects which document to generate. Its value is the prompt key.
type Kind string

const (
	// Brief is the internal interviewer brief.
	Brief Kind = "interviewer-brief"
	// Packet is the candidate-facing interviewee packet.
	Packet Kind = "interviewee-packet"
)

// GenerationError wraps a failed text-generation call.
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Recorder receives per-call outcomes. Outcome is "ok" or "error".
type Recorder interface {
	ObserveGeneration(kind string, outcome string, d time.Duration)
}

// Options configures a Generator.
type Options struct {
	Organization string
	Region       string
	Clock        func() time.Time
	Logger       *slog.Logger
	Recorder     Recorder
}

// Generator renders prompts and calls the text-generation client.
type Generator struct {
	client llm.Client
	opts   Options
}

// NewGenerator creates a Generator backed by client.
func NewGenerator(client llm.Client, opts Options) *Generator {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Generator{client: client, opts: opts}
}

// Prompt returns the full prompt for kind.
func (g *Generator) Prompt(kind Kind, company, research string) (string, error) {
	now := g.opts.Clock()
	year := now.Year()
	return prompts.Render(prompts.DocumentsFile, string(kind), map[string]string{
		"Today":        now.Format("January 02, 2006"),
		"Company":      company,
		"Research":     research,
		"Organization": g.opts.Organization,
		"Region":       g.opts.Region,
		"RecentWindow": fmt.Sprintf("late %d or %d", year-1, year),
		"StaleCutoff":  strconv.Itoa(year - 2),
	})
}

// Generate produces one document. The model's text is returned unmodified.
func (g *Generator) Generate(ctx context.Context, kind Kind, company, research string) (string, error) {
	prompt, err := g.Prompt(kind, company, research)
	if err != nil {
		return "", fmt.Errorf("build %s prompt: %w", kind, err)
	}

	start := time.Now()
	text, err := g.client.GenerateContent(ctx, prompt)
	g.record(kind, err, time.Since(start))
	if err != nil {
		return "", &GenerationError{Kind: kind, Err: err}
	}

	g.opts.Logger.Info("document generated",
		"kind", kind,
		"model", g.client.Model(),
		"prompt_chars", len(prompt),
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func (g *Generator) record(kind Kind, err error, d time.Duration) {
	if g.opts.Recorder == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	g.opts.Recorder.ObserveGeneration(string(kind), outcome, d)
}

// Brief generates the interviewer brief.
func (g *Generator) Brief(ctx context.Context, company, research string) (string, error) {
	return g.Generate(ctx, Brief, company, research)
}

// Packet generates the interviewee packet.
func (g *Generator) Packet(ctx context.Context, company, research string) (string, error) {
	return g.Generate(ctx, Packet, company, research)
}
