package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/company-brief/internal/logging"
	"github.com/jonathan/company-brief/internal/research"
	"github.com/jonathan/company-brief/internal/sources"
	"github.com/jonathan/company-brief/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGatherer struct {
	calls   int
	company sources.Company
	results []sources.Result
}

func (g *fakeGatherer) Gather(ctx context.Context, company sources.Company) *research.Bundle {
	g.calls++
	g.company = company
	return research.NewBundle(company, g.results)
}

type fakeWriter struct {
	calls     []string
	research  string
	briefErr  error
	packetErr error
}

func (w *fakeWriter) Brief(ctx context.Context, company, research string) (string, error) {
	w.calls = append(w.calls, "brief")
	w.research = research
	return "brief for " + company, w.briefErr
}

func (w *fakeWriter) Packet(ctx context.Context, company, research string) (string, error) {
	w.calls = append(w.calls, "packet")
	return "packet for " + company, w.packetErr
}

func TestRun_Success(t *testing.T) {
	g := &fakeGatherer{results: []sources.Result{{Source: sources.Web, Text: "web text"}}}
	w := &fakeWriter{}
	var events []ProgressEvent

	p := New(g, w, logging.Discard())
	result, err := p.Run(context.Background(),
		types.BriefRequest{CompanyName: "  Acme  ", CompanyURL: "acme.com"},
		RunOptions{RequestID: "req-1", OnProgress: func(e ProgressEvent) { events = append(events, e) }},
	)
	require.NoError(t, err)

	assert.Equal(t, &types.BriefResponse{
		Company:           "Acme",
		InterviewerBrief:  "brief for Acme",
		IntervieweePacket: "packet for Acme",
	}, result.Response)
	assert.Equal(t, sources.Company{Name: "Acme", URL: "https://acme.com"}, g.company)
	assert.Equal(t, []string{"brief", "packet"}, w.calls)
	assert.Equal(t, result.Bundle.Render(), w.research)

	want := []Step{StepReceived, StepValidated, StepResearched, StepBriefGenerated, StepPacketGenerated, StepResponded}
	assert.Equal(t, want, result.Steps)
	require.Len(t, events, len(want))
	for i, e := range events {
		assert.Equal(t, want[i], e.Step)
		assert.Equal(t, "req-1", e.RequestID)
	}
}

func TestRun_ValidationShortCircuits(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		g := &fakeGatherer{}
		w := &fakeWriter{}

		_, err := New(g, w, logging.Discard()).Run(context.Background(), types.BriefRequest{CompanyName: name}, RunOptions{})
		require.Error(t, err)

		var stepErr *StepError
		require.True(t, errors.As(err, &stepErr))
		assert.Equal(t, StepValidated, stepErr.Step)

		var vErr *types.ValidationError
		assert.True(t, errors.As(err, &vErr))
		assert.Zero(t, g.calls, "no research for invalid request")
		assert.Empty(t, w.calls, "no generation for invalid request")
	}
}

func TestRun_AllSourcesFailedStillGenerates(t *testing.T) {
	var results []sources.Result
	for _, name := range sources.All() {
		results = append(results, sources.Result{Source: name, Text: "[" + string(name) + "] Failed: x", Err: errors.New("x")})
	}
	g := &fakeGatherer{results: results}
	w := &fakeWriter{}

	result, err := New(g, w, logging.Discard()).Run(context.Background(), types.BriefRequest{CompanyName: "Acme"}, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"brief", "packet"}, w.calls)
	assert.Len(t, result.Bundle.Failed(), 5)
}

func TestRun_BriefFailureStopsBeforePacket(t *testing.T) {
	w := &fakeWriter{briefErr: errors.New("model down")}

	_, err := New(&fakeGatherer{}, w, logging.Discard()).Run(context.Background(), types.BriefRequest{CompanyName: "Acme"}, RunOptions{})
	require.Error(t, err)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepBriefGenerated, stepErr.Step)
	assert.Equal(t, []string{"brief"}, w.calls)
}

func TestRun_PacketFailure(t *testing.T) {
	w := &fakeWriter{packetErr: errors.New("model down")}

	_, err := New(&fakeGatherer{}, w, logging.Discard()).Run(context.Background(), types.BriefRequest{CompanyName: "Acme"}, RunOptions{})
	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepPacketGenerated, stepErr.Step)
	assert.Contains(t, err.Error(), "PACKET_GENERATED: model down")
}

func TestRun_BundleOnly(t *testing.T) {
	g := &fakeGatherer{}
	w := &fakeWriter{}

	result, err := New(g, w, logging.Discard()).Run(context.Background(), types.BriefRequest{CompanyName: "Acme"}, RunOptions{BundleOnly: true})
	require.NoError(t, err)
	assert.Nil(t, result.Response)
	require.NotNil(t, result.Bundle)
	assert.Equal(t, 1, g.calls)
	assert.Empty(t, w.calls)
	assert.Equal(t, []Step{StepReceived, StepValidated, StepResearched}, result.Steps)
}
