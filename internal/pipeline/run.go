// Package pipeline runs one brief request through its steps: validate the
// request, gather research, then generate the brief and the packet in turn.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonathan/company-brief/internal/research"
	"github.com/jonathan/company-brief/internal/sources"
	"github.com/jonathan/company-brief/internal/types"
)

// Step is a state in the request lifecycle.
type Step string

// Steps in the order a successful request passes through them.
const (
	StepReceived        Step = "RECEIVED"
	StepValidated       Step = "VALIDATED"
	StepResearched      Step = "RESEARCHED"
	StepBriefGenerated  Step = "BRIEF_GENERATED"
	StepPacketGenerated Step = "PACKET_GENERATED"
	StepResponded       Step = "RESPONDED"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step      Step   `json:"step"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Content   any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Gatherer collects research for a company.
type Gatherer interface {
	Gather(ctx context.Context, company sources.Company) *research.Bundle
}

// Writer produces the two documents from rendered research.
type Writer interface {
	Brief(ctx context.Context, company, research string) (string, error)
	Packet(ctx context.Context, company, research string) (string, error)
}

// RunOptions holds per-request settings.
type RunOptions struct {
	RequestID string
	// BundleOnly stops after research; no documents are generated.
	BundleOnly bool
	OnProgress ProgressCallback
}

// Result is the outcome of a successful run.
type Result struct {
	Response *types.BriefResponse
	Bundle   *research.Bundle
	Steps    []Step
}

// StepError reports the step a run failed in.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Pipeline wires research and document generation together.
type Pipeline struct {
	gatherer Gatherer
	writer   Writer
	logger   *slog.Logger
}

// New creates a Pipeline.
func New(gatherer Gatherer, writer Writer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{gatherer: gatherer, writer: writer, logger: logger}
}

type run struct {
	opts   RunOptions
	logger *slog.Logger
	steps  []Step
}

// emitProgress records the step and calls the progress callback if configured
func (r *run) emitProgress(step Step, message string, content any) {
	r.steps = append(r.steps, step)
	r.logger.Debug("pipeline step", "step", step, "message", message)
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(ProgressEvent{
			Step:      step,
			Message:   message,
			RequestID: r.opts.RequestID,
			Content:   content,
		})
	}
}

// Run executes the pipeline for req. A validation failure returns before any
// research or generation call is made.
func (p *Pipeline) Run(ctx context.Context, req types.BriefRequest, opts RunOptions) (*Result, error) {
	logger := p.logger
	if opts.RequestID != "" {
		logger = logger.With("request_id", opts.RequestID)
	}
	r := &run{opts: opts, logger: logger}
	start := time.Now()

	r.emitProgress(StepReceived, "request received", nil)

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, &StepError{Step: StepValidated, Err: err}
	}
	logger.Info("brief requested", "company", req.CompanyName, "company_url", req.CompanyURL)
	r.emitProgress(StepValidated, "request validated", nil)

	company := sources.Company{Name: req.CompanyName, URL: req.CompanyURL}
	bundle := p.gatherer.Gather(ctx, company)
	r.emitProgress(StepResearched, fmt.Sprintf("research gathered (%d of %d sources failed)",
		len(bundle.Failed()), len(sources.All())), bundle.Failed())

	result := &Result{Bundle: bundle}
	if opts.BundleOnly {
		result.Steps = r.steps
		return result, nil
	}

	text := bundle.Render()

	brief, err := p.writer.Brief(ctx, company.Name, text)
	if err != nil {
		return nil, &StepError{Step: StepBriefGenerated, Err: err}
	}
	r.emitProgress(StepBriefGenerated, "interviewer brief generated", nil)

	packet, err := p.writer.Packet(ctx, company.Name, text)
	if err != nil {
		return nil, &StepError{Step: StepPacketGenerated, Err: err}
	}
	r.emitProgress(StepPacketGenerated, "interviewee packet generated", nil)

	result.Response = &types.BriefResponse{
		Company:           company.Name,
		InterviewerBrief:  brief,
		IntervieweePacket: packet,
	}
	r.emitProgress(StepResponded, "response assembled", nil)
	result.Steps = r.steps

	logger.Info("brief completed", "company", company.Name, "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}
