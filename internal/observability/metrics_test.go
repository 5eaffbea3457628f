package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_ObserveSource(t *testing.T) {
	m := NewMetrics()
	m.ObserveSource("web", "ok", 2*time.Second)
	m.ObserveSource("web", "ok", time.Second)
	m.ObserveSource("edgar", "error", time.Second)

	body := scrape(t, m)
	assert.Contains(t, body, `company_brief_source_fetches_total{outcome="ok",source="web"} 2`)
	assert.Contains(t, body, `company_brief_source_fetches_total{outcome="error",source="edgar"} 1`)
	assert.Contains(t, body, `company_brief_source_fetch_duration_seconds_count{source="web"} 2`)
}

func TestMetrics_ObserveGeneration(t *testing.T) {
	m := NewMetrics()
	m.ObserveGeneration("interviewer-brief", "ok", 30*time.Second)

	body := scrape(t, m)
	assert.Contains(t, body, `company_brief_document_generations_total{kind="interviewer-brief",outcome="ok"} 1`)
	assert.Contains(t, body, `company_brief_document_generation_duration_seconds_sum{kind="interviewer-brief"} 30`)
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest("/brief", http.MethodPost, http.StatusBadRequest, 5*time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `company_brief_http_requests_total{code="400",method="POST",route="/brief"} 1`)
}

func TestMetrics_IncludesRuntimeCollectors(t *testing.T) {
	body := scrape(t, NewMetrics())
	assert.Contains(t, body, "go_goroutines")
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.ObserveSource("web", "ok", time.Second)

	assert.NotContains(t, scrape(t, b), `source="web"`)
	assert.NotSame(t, a.Registry(), b.Registry())
}
