// Package research fans a company lookup out to every source fetcher and
// collects the results into a Bundle.
package research

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/company-brief/internal/sources"
)

const (
	// DefaultSourceTimeout bounds a single fetcher. It leaves room for the
	// slowest fetcher to finish all of its own network calls.
	DefaultSourceTimeout = sources.SlowestFetch + 5*time.Second
	// DefaultDeadline bounds the whole gather.
	DefaultDeadline = DefaultSourceTimeout + 5*time.Second
)

// Recorder receives per-source outcomes. Outcome is "ok" or "error".
type Recorder interface {
	ObserveSource(source string, outcome string, d time.Duration)
}

// Options configures an Aggregator.
type Options struct {
	SourceTimeout time.Duration
	Deadline      time.Duration
	Logger        *slog.Logger
	Recorder      Recorder
}

// Aggregator runs every registered fetcher concurrently.
type Aggregator struct {
	fetchers []sources.Fetcher
	opts     Options
}

// NewAggregator creates an Aggregator over fetchers.
func NewAggregator(fetchers []sources.Fetcher, opts Options) *Aggregator {
	if opts.SourceTimeout <= 0 {
		opts.SourceTimeout = DefaultSourceTimeout
	}
	if opts.Deadline <= 0 {
		opts.Deadline = DefaultDeadline
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Aggregator{fetchers: fetchers, opts: opts}
}

// Gather fetches from every source and waits for all of them, or for the
// deadline, before building the bundle. It never fails: a source that errors
// or overruns is recorded as "[<source>] Failed: <err>".
func (a *Aggregator) Gather(ctx context.Context, company sources.Company) *Bundle {
	ctx, cancel := context.WithTimeout(ctx, a.opts.Deadline)
	defer cancel()

	start := time.Now()
	results := make([]sources.Result, len(a.fetchers))

	g := new(errgroup.Group)
	g.SetLimit(max(len(a.fetchers), 1))
	for i, f := range a.fetchers {
		g.Go(func() error {
			results[i] = a.run(ctx, f, company)
			return nil
		})
	}
	_ = g.Wait()

	bundle := NewBundle(company, results)
	a.opts.Logger.Info("research gathered",
		"company", company.Name,
		"sources", len(results),
		"failed", len(bundle.Failed()),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return bundle
}

type fetchOutcome struct {
	text string
	err  error
}

// run executes one fetcher under the per-source timeout. A fetcher that
// ignores its context is abandoned once the context expires; its goroutine
// finishes in the background and its result is discarded.
func (a *Aggregator) run(ctx context.Context, f sources.Fetcher, company sources.Company) sources.Result {
	ctx, cancel := context.WithTimeout(ctx, a.opts.SourceTimeout)
	defer cancel()

	name := f.Name()
	start := time.Now()

	done := make(chan fetchOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchOutcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		text, err := f.Fetch(ctx, company)
		done <- fetchOutcome{text: text, err: err}
	}()

	var out fetchOutcome
	select {
	case out = <-done:
	case <-ctx.Done():
		select {
		case out = <-done:
		default:
			out = fetchOutcome{err: ctx.Err()}
		}
	}

	result := sources.Result{Source: name, Text: out.text, Duration: time.Since(start)}
	outcome := "ok"
	if out.err != nil {
		outcome = "error"
		result.Err = out.err
		result.Text = fmt.Sprintf("[%s] Failed: %v", name, out.err)
		a.opts.Logger.Warn("source failed", "source", name, "error", out.err, "duration_ms", result.Duration.Milliseconds())
	} else {
		a.opts.Logger.Debug("source fetched", "source", name, "chars", len(out.text), "duration_ms", result.Duration.Milliseconds())
	}
	if a.opts.Recorder != nil {
		a.opts.Recorder.ObserveSource(string(name), outcome, result.Duration)
	}
	return result
}
