package search

import (
	"context"
	"fmt"

	"github.com/jonathan/company-brief/internal/config"
)

// New builds the provider selected by cfg.Provider.
func New(ctx context.Context, cfg config.SearchConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "tavily":
		if cfg.TavilyAPIKey == "" {
			return nil, fmt.Errorf("tavily provider requires an API key")
		}
		return NewTavily(cfg.TavilyAPIKey, WithTavilyBaseURL(cfg.TavilyBaseURL)), nil
	case "google":
		return NewGoogle(ctx, cfg.GoogleAPIKey, cfg.GoogleCX)
	default:
		return nil, fmt.Errorf("unsupported search provider: %s", cfg.Provider)
	}
}
