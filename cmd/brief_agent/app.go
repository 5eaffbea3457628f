package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jonathan/company-brief/internal/config"
	"github.com/jonathan/company-brief/internal/documents"
	"github.com/jonathan/company-brief/internal/llm"
	"github.com/jonathan/company-brief/internal/observability"
	"github.com/jonathan/company-brief/internal/pipeline"
	"github.com/jonathan/company-brief/internal/research"
	"github.com/jonathan/company-brief/internal/scrape"
	"github.com/jonathan/company-brief/internal/search"
	"github.com/jonathan/company-brief/internal/sources"
)

const (
	// sourceHTTPTimeout caps a single EDGAR or Wikipedia round trip.
	sourceHTTPTimeout = 30 * time.Second
	// writeMargin covers encoding the response after the last generation call.
	writeMargin = 30 * time.Second
)

// app holds the wired components shared by serve and research.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *observability.Metrics
	llm      llm.Client
	pipeline *pipeline.Pipeline
}

// loadConfig reads and validates the configuration. An empty path falls back
// to $BRIEF_CONFIG, then to defaults plus environment.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv(config.EnvConfigPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// requestBudget is the longest a brief request can run: the research deadline
// plus one generation call per document.
func requestBudget(cfg *config.Config) time.Duration {
	return cfg.Research.Deadline + 2*llm.RequestTimeout + writeMargin
}

// fitWriteTimeout raises a configured write timeout that would cut off a
// request still inside its budget. Zero means no timeout and is left alone.
func fitWriteTimeout(cfg *config.Config, logger *slog.Logger) {
	budget := requestBudget(cfg)
	if wt := cfg.Server.WriteTimeout; wt > 0 && wt < budget {
		logger.Warn("raising server write timeout to fit request budget",
			"configured", wt.String(), "budget", budget.String())
		cfg.Server.WriteTimeout = budget
	}
}

// llmConfig maps the file configuration onto the client configuration.
func llmConfig(cfg config.LLMConfig) (*llm.Config, string) {
	provider := llm.Provider(cfg.Provider)
	c := llm.DefaultConfigFor(provider).WithModel(cfg.Model)
	c.MaxTokens = cfg.MaxTokens
	c.Temperature = cfg.TemperatureValue()
	c.BaseURL = cfg.AnthropicBaseURL

	apiKey := cfg.GeminiAPIKey
	if provider == llm.ProviderAnthropic {
		apiKey = cfg.AnthropicAPIKey
	}
	return c, apiKey
}

// newApp builds every client and wires them into a pipeline.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	metrics := observability.NewMetrics()

	provider, err := search.New(ctx, cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to create search provider: %w", err)
	}

	scraper, err := scrape.New(cfg.Scraper, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create scraper: %w", err)
	}

	llmCfg, apiKey := llmConfig(cfg.LLM)
	client, err := llm.NewClient(ctx, llmCfg, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	fetchers := sources.NewAll(cfg, sources.Deps{
		Search:     provider,
		Scraper:    scraper,
		HTTPClient: &http.Client{Timeout: sourceHTTPTimeout},
		Logger:     logger,
	})

	aggregator := research.NewAggregator(fetchers, research.Options{
		SourceTimeout: cfg.Research.SourceTimeout,
		Deadline:      cfg.Research.Deadline,
		Logger:        logger,
		Recorder:      metrics,
	})

	generator := documents.NewGenerator(client, documents.Options{
		Organization: cfg.Interview.Organization,
		Region:       cfg.Interview.Region,
		Logger:       logger,
		Recorder:     metrics,
	})

	logger.Debug("components ready",
		"search", provider.Name(),
		"scraper", cfg.Scraper.Backend,
		"llm", string(llmCfg.Provider),
		"model", client.Model())

	return &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		llm:      client,
		pipeline: pipeline.New(aggregator, generator, logger),
	}, nil
}

// Close releases the LLM client.
func (a *app) Close() error {
	return a.llm.Close()
}
