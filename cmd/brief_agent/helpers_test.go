package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jonathan/company-brief/internal/config"
	"github.com/stretchr/testify/require"
)

// upstream fakes every external API the pipeline calls.
type upstream struct {
	*httptest.Server
	llmCalls atomic.Int32
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /search", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"results": []map[string]string{{
			"title":   "Acme expands Houston campus",
			"content": "Acme Corp announced a new engineering office.",
			"url":     "https://acme.example/news",
		}}})
	})
	mux.HandleFunc("POST /v1/scrape", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"success": true,
			"data":    map[string]string{"markdown": strings.Repeat("Acme builds industrial robots. ", 10)},
		})
	})
	mux.HandleFunc("GET /LATEST/search-index", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"hits": map[string]any{"hits": []any{}}})
	})
	mux.HandleFunc("GET /api/rest_v1/page/summary/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"title": "Acme Corp", "extract": "Acme Corp is a robotics company."})
	})
	mux.HandleFunc("POST /v1/messages", func(w http.ResponseWriter, _ *http.Request) {
		n := u.llmCalls.Add(1)
		writeJSON(w, map[string]any{
			"content":     []map[string]string{{"type": "text", "text": fmt.Sprintf("# DOCUMENT %d", n)}},
			"stop_reason": "end_turn",
		})
	})

	u.Server = httptest.NewServer(mux)
	t.Cleanup(u.Close)
	return u
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeConfig points every client at base and returns the config path.
func writeConfig(t *testing.T, base string) string {
	t.Helper()
	content := fmt.Sprintf(`
search:
  provider: tavily
  tavily_api_key: tvly-test
  tavily_base_url: %[1]s
scraper:
  backend: firecrawl
  firecrawl_api_key: fc-test
  firecrawl_base_url: %[1]s
llm:
  provider: anthropic
  anthropic_api_key: sk-test
  anthropic_base_url: %[1]s
sources:
  edgar_base_url: %[1]s
  wikipedia_base_url: %[1]s
log:
  level: error
`, base)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// isolateEnv clears variables that would override the test config.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvConfigPath, config.EnvPort, config.EnvLogLevel, config.EnvLogFormat,
		config.EnvSearchProvider, config.EnvTavilyKey, config.EnvGoogleSearchKey, config.EnvGoogleSearchCX,
		config.EnvScraperBackend, config.EnvFirecrawlKey, config.EnvLLMProvider, config.EnvLLMModel,
		config.EnvGeminiKey, config.EnvAnthropicKey, config.EnvSECUserAgent,
	} {
		t.Setenv(key, "")
	}
}

// execute runs the root command with args and fresh flag state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath = ""
	researchCompany, researchURL = "", ""
	researchBundleOnly, researchJSON, researchVerbose = false, false, false
	servePort = 0

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), err
}
