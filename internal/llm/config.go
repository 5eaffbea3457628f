// Package llm provides the text-generation client abstraction and its providers.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
)

// DefaultMaxTokens bounds the length of each generated document.
const DefaultMaxTokens = 4096

// RequestTimeout bounds one generation call.
const RequestTimeout = 120 * time.Second

// Config holds the fixed model configuration for the text-generation service.
type Config struct {
	Provider    Provider
	Model       string
	MaxTokens   int
	Temperature float32
	// BaseURL overrides the provider endpoint. Only the Anthropic client uses it.
	BaseURL string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultConfigFor(ProviderGemini)
}

// DefaultConfigFor returns the default configuration for a provider.
func DefaultConfigFor(provider Provider) *Config {
	return &Config{
		Provider:    provider,
		Model:       DefaultModel(provider),
		MaxTokens:   DefaultMaxTokens,
		Temperature: 0.3,
	}
}

// DefaultModel returns the fixed model identifier used for a provider.
func DefaultModel(provider Provider) string {
	switch provider {
	case ProviderAnthropic:
		return "claude-3-5-sonnet-20241022"
	default:
		return "gemini-2.5-pro"
	}
}

// WithModel returns a copy of the config using model. An empty model keeps the current one.
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	if model != "" {
		newConfig.Model = model
	}
	return &newConfig
}

// normalized fills zero values with provider defaults.
func (c *Config) normalized() *Config {
	out := *c
	if out.Provider == "" {
		out.Provider = ProviderGemini
	}
	if out.Model == "" {
		out.Model = DefaultModel(out.Provider)
	}
	if out.MaxTokens <= 0 {
		out.MaxTokens = DefaultMaxTokens
	}
	return &out
}
