package documents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/company-brief/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	prompts []string
	reply   string
	err     error
}

func (c *fakeClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.reply, c.err
}

func (c *fakeClient) Model() string { return "fake-model" }

func (c *fakeClient) Close() error { return nil }

func newGenerator(client *fakeClient) *Generator {
	return NewGenerator(client, Options{
		Organization: "State University",
		Region:       "Oklahoma",
		Clock: func() time.Time {
			return time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
		},
		Logger: logging.Discard(),
	})
}

func TestPrompt_Brief(t *testing.T) {
	g := newGenerator(&fakeClient{})
	prompt, err := g.Prompt(Brief, "Acme", "=== WEB RESEARCH ===\n[Web] Acme: anvils")
	require.NoError(t, err)

	assert.Contains(t, prompt, "March 04, 2025")
	assert.Contains(t, prompt, "Acme")
	assert.Contains(t, prompt, "[Web] Acme: anvils")
	assert.Contains(t, prompt, "State University")
	assert.Contains(t, prompt, "Oklahoma")
	assert.Contains(t, prompt, "late 2024 or 2025")
	assert.Contains(t, prompt, "2023")
	assert.NotContains(t, prompt, "{{.")
}

func TestPrompt_Packet(t *testing.T) {
	g := newGenerator(&fakeClient{})
	prompt, err := g.Prompt(Packet, "Acme", "research text")
	require.NoError(t, err)

	assert.Contains(t, prompt, "research text")
	assert.Contains(t, prompt, "State University")
	assert.NotContains(t, prompt, "{{.")
}

func TestPrompt_ResearchInsertedLiterally(t *testing.T) {
	g := newGenerator(&fakeClient{})
	prompt, err := g.Prompt(Brief, "Acme", "page said {{.Company}}")
	require.NoError(t, err)
	assert.Contains(t, prompt, "page said {{.Company}}")
}

func TestPrompt_UnknownKind(t *testing.T) {
	g := newGenerator(&fakeClient{})
	_, err := g.Prompt(Kind("press-release"), "Acme", "x")
	assert.Error(t, err)
}

func TestGenerate_ReturnsTextVerbatim(t *testing.T) {
	reply := "  # INTERVIEWER BRIEF\n\nAcme makes anvils.\n"
	client := &fakeClient{reply: reply}
	g := newGenerator(client)

	text, err := g.Brief(context.Background(), "Acme", "research")
	require.NoError(t, err)
	assert.Equal(t, reply, text)
	require.Len(t, client.prompts, 1)
	assert.True(t, strings.Contains(client.prompts[0], "research"))
}

func TestGenerate_BriefAndPacketDiffer(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	g := newGenerator(client)

	_, err := g.Brief(context.Background(), "Acme", "research")
	require.NoError(t, err)
	_, err = g.Packet(context.Background(), "Acme", "research")
	require.NoError(t, err)

	require.Len(t, client.prompts, 2)
	assert.NotEqual(t, client.prompts[0], client.prompts[1])
}

type fakeRecorder struct {
	outcomes []string
}

func (r *fakeRecorder) ObserveGeneration(kind, outcome string, d time.Duration) {
	r.outcomes = append(r.outcomes, kind+":"+outcome)
}

func TestGenerate_ClientError(t *testing.T) {
	cause := errors.New("model overloaded")
	rec := &fakeRecorder{}
	g := newGenerator(&fakeClient{err: cause})
	g.opts.Recorder = rec

	_, err := g.Packet(context.Background(), "Acme", "research")
	require.Error(t, err)

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, Packet, genErr.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []string{"interviewee-packet:error"}, rec.outcomes)
}
