package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func validConfig() *Config {
	cfg := Default()
	cfg.Search.TavilyAPIKey = "tvly-test"
	cfg.Scraper.FirecrawlAPIKey = "fc-test"
	cfg.LLM.GeminiAPIKey = "gemini-test"
	return cfg
}

func TestLoadFile_ValidYAML(t *testing.T) {
	content := `
server:
  port: 9090
search:
  provider: google
  google_api_key: g-key
  google_cx: cx-123
research:
  source_timeout: 20s
  deadline: 1m
interview:
  organization: State University
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadFile(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "google", cfg.Search.Provider)
	assert.Equal(t, "cx-123", cfg.Search.GoogleCX)
	assert.Equal(t, 20*time.Second, cfg.Research.SourceTimeout)
	assert.Equal(t, time.Minute, cfg.Research.Deadline)
	assert.Equal(t, "State University", cfg.Interview.Organization)
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("server: [unclosed"), 0644))

	cfg, err := LoadFile(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadFile_FileNotFound(t *testing.T) {
	cfg, err := LoadFile("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFile_EmptyPath(t *testing.T) {
	cfg, err := LoadFile("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestLoad_FileMergedWithDefaults(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("llm:\n  provider: anthropic\n"), 0644))

	cfg, err := Load(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "tavily", cfg.Search.Provider)
	assert.Equal(t, 4, cfg.Research.SubpageWorkers)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(envMap(map[string]string{
		EnvPort:         "9999",
		EnvTavilyKey:    " tvly-env ",
		EnvFirecrawlKey: "fc-env",
		EnvLLMProvider:  "anthropic",
		EnvAnthropicKey: "sk-ant",
		EnvLLMModel:     "claude-test",
		EnvLogLevel:     "debug",
	}))

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "tvly-env", cfg.Search.TavilyAPIKey)
	assert.Equal(t, "fc-env", cfg.Scraper.FirecrawlAPIKey)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.AnthropicAPIKey)
	assert.Equal(t, "claude-test", cfg.LLM.Model)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyEnv_InvalidPortIgnored(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(envMap(map[string]string{EnvPort: "not-a-port"}))
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_MissingTavilyKey(t *testing.T) {
	cfg := validConfig()
	cfg.Search.TavilyAPIKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Search.TavilyAPIKey is required")
	assert.Contains(t, err.Error(), EnvTavilyKey)
}

func TestValidate_GoogleProviderNeedsCX(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Provider = "google"
	cfg.Search.GoogleAPIKey = "g-key"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Search.GoogleCX")
	assert.NotContains(t, err.Error(), "TavilyAPIKey")
}

func TestValidate_DirectScraperNeedsNoKey(t *testing.T) {
	cfg := validConfig()
	cfg.Scraper.Backend = "direct"
	cfg.Scraper.FirecrawlAPIKey = ""

	assert.NoError(t, cfg.Validate())
}

func TestValidate_AnthropicNeedsKey(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Provider = "anthropic"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM.AnthropicAPIKey")
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Provider = "bedrock"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM.Provider must be one of")
}

func TestValidate_DeadlineShorterThanSourceTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Research.SourceTimeout = time.Minute
	cfg.Research.Deadline = 30 * time.Second

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "research.deadline")
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		Server:    ServerConfig{Port: 7000},
		Interview: InterviewConfig{Region: "Oklahoma"},
	}

	merged := partial.MergeWithDefaults(*Default())

	assert.Equal(t, 7000, merged.Server.Port)
	assert.Equal(t, "Oklahoma", merged.Interview.Region)
	assert.Equal(t, "Texas A&M", merged.Interview.Organization)
	assert.Equal(t, 100*time.Second, merged.Research.Deadline)
	assert.Equal(t, "https://efts.sec.gov", merged.Sources.EdgarBaseURL)
}

func TestLoad_ZeroTemperatureKept(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("llm:\n  temperature: 0\n"), 0644))

	cfg, err := Load(tmpFile)
	require.NoError(t, err)

	require.NotNil(t, cfg.LLM.Temperature)
	assert.Equal(t, float32(0), cfg.LLM.TemperatureValue())
}

func TestMergeWithDefaults_Temperature(t *testing.T) {
	zero := float32(0)
	kept := (&Config{LLM: LLMConfig{Temperature: &zero}}).MergeWithDefaults(*Default())
	assert.Equal(t, float32(0), kept.LLM.TemperatureValue())

	filled := (&Config{}).MergeWithDefaults(*Default())
	assert.Equal(t, DefaultTemperature, filled.LLM.TemperatureValue())

	// The merged config must not share the defaults' pointer.
	defaults := Default()
	merged := (&Config{}).MergeWithDefaults(*defaults)
	*merged.LLM.Temperature = 1.5
	assert.Equal(t, DefaultTemperature, *defaults.LLM.Temperature)
}

func TestTemperatureValue_Unset(t *testing.T) {
	assert.Equal(t, DefaultTemperature, LLMConfig{}.TemperatureValue())
}

func TestValidate_TemperatureOutOfRange(t *testing.T) {
	cfg := validConfig()
	hot := float32(2.5)
	cfg.LLM.Temperature = &hot

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM.Temperature")
}
