// Package config provides configuration loading and validation for the brief service.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvConfigPath      = "BRIEF_CONFIG"
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvSearchProvider  = "SEARCH_PROVIDER"
	EnvTavilyKey       = "TAVILY_API_KEY"
	EnvGoogleSearchKey = "GOOGLE_SEARCH_API_KEY"
	EnvGoogleSearchCX  = "GOOGLE_SEARCH_CX"
	EnvScraperBackend  = "SCRAPER_BACKEND"
	EnvFirecrawlKey    = "FIRECRAWL_API_KEY"
	EnvLLMProvider     = "LLM_PROVIDER"
	EnvLLMModel        = "LLM_MODEL"
	EnvGeminiKey       = "GEMINI_API_KEY"
	EnvAnthropicKey    = "ANTHROPIC_API_KEY"
	EnvSECUserAgent    = "SEC_USER_AGENT"
)

// Config is the process-wide configuration. It is loaded once at startup and
// passed by pointer into the constructors that need it.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Search    SearchConfig    `yaml:"search"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	LLM       LLMConfig       `yaml:"llm"`
	Sources   SourcesConfig   `yaml:"sources"`
	Research  ResearchConfig  `yaml:"research"`
	Interview InterviewConfig `yaml:"interview"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port         int           `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"min=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"min=0"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" validate:"min=0"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// SearchConfig selects and configures the keyed search API.
type SearchConfig struct {
	Provider      string `yaml:"provider" validate:"oneof=tavily google"`
	TavilyAPIKey  string `yaml:"tavily_api_key" validate:"required_if=Provider tavily"`
	TavilyBaseURL string `yaml:"tavily_base_url" validate:"omitempty,url"`
	GoogleAPIKey  string `yaml:"google_api_key" validate:"required_if=Provider google"`
	GoogleCX      string `yaml:"google_cx" validate:"required_if=Provider google"`
}

// ScraperConfig selects and configures the page scraper.
type ScraperConfig struct {
	Backend          string `yaml:"backend" validate:"oneof=firecrawl direct"`
	FirecrawlAPIKey  string `yaml:"firecrawl_api_key" validate:"required_if=Backend firecrawl"`
	FirecrawlBaseURL string `yaml:"firecrawl_base_url" validate:"omitempty,url"`
	UseBrowser       bool   `yaml:"use_browser"`
}

// LLMConfig selects the text-generation provider and its fixed model.
// Temperature is a pointer so an explicit 0 in the file is kept.
type LLMConfig struct {
	Provider         string   `yaml:"provider" validate:"oneof=gemini anthropic"`
	Model            string   `yaml:"model"`
	MaxTokens        int      `yaml:"max_tokens" validate:"min=1"`
	Temperature      *float32 `yaml:"temperature" validate:"omitempty,min=0,max=2"`
	GeminiAPIKey     string   `yaml:"gemini_api_key" validate:"required_if=Provider gemini"`
	AnthropicAPIKey  string   `yaml:"anthropic_api_key" validate:"required_if=Provider anthropic"`
	AnthropicBaseURL string   `yaml:"anthropic_base_url" validate:"omitempty,url"`
}

// DefaultTemperature is used when the file does not set llm.temperature.
const DefaultTemperature float32 = 0.3

// TemperatureValue returns the configured temperature or DefaultTemperature.
func (c LLMConfig) TemperatureValue() float32 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// SourcesConfig holds settings for the keyless public sources.
type SourcesConfig struct {
	UserAgent        string `yaml:"user_agent" validate:"required"`
	EdgarBaseURL     string `yaml:"edgar_base_url" validate:"required,url"`
	WikipediaBaseURL string `yaml:"wikipedia_base_url" validate:"required,url"`
}

// ResearchConfig bounds the aggregation step.
type ResearchConfig struct {
	SourceTimeout  time.Duration `yaml:"source_timeout" validate:"min=1ms"`
	Deadline       time.Duration `yaml:"deadline" validate:"min=1ms"`
	SubpageWorkers int           `yaml:"subpage_workers" validate:"min=1,max=16"`
}

// InterviewConfig describes the interview program the documents are written for.
type InterviewConfig struct {
	Organization string `yaml:"organization" validate:"required"`
	Region       string `yaml:"region" validate:"required"`
}

// Default returns a configuration with every optional field filled in.
// API keys are left empty and must come from the file or the environment.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 7 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Search: SearchConfig{
			Provider: "tavily",
		},
		Scraper: ScraperConfig{
			Backend: "firecrawl",
		},
		LLM: LLMConfig{
			Provider:    "gemini",
			MaxTokens:   4096,
			Temperature: ptr(DefaultTemperature),
		},
		Sources: SourcesConfig{
			UserAgent:        "CompanyBrief research@example.edu",
			EdgarBaseURL:     "https://efts.sec.gov",
			WikipediaBaseURL: "https://en.wikipedia.org",
		},
		Research: ResearchConfig{
			SourceTimeout:  95 * time.Second,
			Deadline:       100 * time.Second,
			SubpageWorkers: 4,
		},
		Interview: InterviewConfig{
			Organization: "Texas A&M",
			Region:       "Texas",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// non-empty), then environment overrides. It does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(*cfg)
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// LoadFile reads a YAML configuration file without applying defaults.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	if v := getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	setString(&c.Log.Level, EnvLogLevel)
	setString(&c.Log.Format, EnvLogFormat)
	setString(&c.Search.Provider, EnvSearchProvider)
	setString(&c.Search.TavilyAPIKey, EnvTavilyKey)
	setString(&c.Search.GoogleAPIKey, EnvGoogleSearchKey)
	setString(&c.Search.GoogleCX, EnvGoogleSearchCX)
	setString(&c.Scraper.Backend, EnvScraperBackend)
	setString(&c.Scraper.FirecrawlAPIKey, EnvFirecrawlKey)
	setString(&c.LLM.Provider, EnvLLMProvider)
	setString(&c.LLM.Model, EnvLLMModel)
	setString(&c.LLM.GeminiAPIKey, EnvGeminiKey)
	setString(&c.LLM.AnthropicAPIKey, EnvAnthropicKey)
	setString(&c.Sources.UserAgent, EnvSECUserAgent)
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) *Config {
	result := *c

	// Server
	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Server.ReadTimeout == 0 {
		result.Server.ReadTimeout = defaults.Server.ReadTimeout
	}
	if result.Server.WriteTimeout == 0 {
		result.Server.WriteTimeout = defaults.Server.WriteTimeout
	}
	if result.Server.IdleTimeout == 0 {
		result.Server.IdleTimeout = defaults.Server.IdleTimeout
	}

	// Log
	if result.Log.Level == "" {
		result.Log.Level = defaults.Log.Level
	}
	if result.Log.Format == "" {
		result.Log.Format = defaults.Log.Format
	}

	// Providers
	if result.Search.Provider == "" {
		result.Search.Provider = defaults.Search.Provider
	}
	if result.Scraper.Backend == "" {
		result.Scraper.Backend = defaults.Scraper.Backend
	}
	if result.LLM.Provider == "" {
		result.LLM.Provider = defaults.LLM.Provider
	}
	if result.LLM.MaxTokens == 0 {
		result.LLM.MaxTokens = defaults.LLM.MaxTokens
	}
	if result.LLM.Temperature == nil && defaults.LLM.Temperature != nil {
		result.LLM.Temperature = ptr(*defaults.LLM.Temperature)
	}

	// Sources
	if result.Sources.UserAgent == "" {
		result.Sources.UserAgent = defaults.Sources.UserAgent
	}
	if result.Sources.EdgarBaseURL == "" {
		result.Sources.EdgarBaseURL = defaults.Sources.EdgarBaseURL
	}
	if result.Sources.WikipediaBaseURL == "" {
		result.Sources.WikipediaBaseURL = defaults.Sources.WikipediaBaseURL
	}

	// Research
	if result.Research.SourceTimeout == 0 {
		result.Research.SourceTimeout = defaults.Research.SourceTimeout
	}
	if result.Research.Deadline == 0 {
		result.Research.Deadline = defaults.Research.Deadline
	}
	if result.Research.SubpageWorkers == 0 {
		result.Research.SubpageWorkers = defaults.Research.SubpageWorkers
	}

	// Interview
	if result.Interview.Organization == "" {
		result.Interview.Organization = defaults.Interview.Organization
	}
	if result.Interview.Region == "" {
		result.Interview.Region = defaults.Interview.Region
	}

	return &result
}

// Validate checks that the configuration is complete. A missing credential for
// a selected provider is reported here so the process fails at startup.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, describeFieldError(fe))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Research.Deadline < c.Research.SourceTimeout {
		return fmt.Errorf("config error: 'research.deadline' must not be shorter than 'research.source_timeout'")
	}

	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_if":
		if hint, ok := envHints[field]; ok {
			return fmt.Sprintf("%s is required (set %s)", field, hint)
		}
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed '%s' check", field, fe.Tag())
	}
}

var envHints = map[string]string{
	"Search.TavilyAPIKey":     EnvTavilyKey,
	"Search.GoogleAPIKey":     EnvGoogleSearchKey,
	"Search.GoogleCX":         EnvGoogleSearchCX,
	"Scraper.FirecrawlAPIKey": EnvFirecrawlKey,
	"LLM.GeminiAPIKey":        EnvGeminiKey,
	"LLM.AnthropicAPIKey":     EnvAnthropicKey,
}

func ptr[T any](v T) *T {
	return &v
}
