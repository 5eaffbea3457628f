package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/company-brief/internal/logging"
	"github.com/jonathan/company-brief/internal/observability"
	"github.com/jonathan/company-brief/internal/pipeline"
	"github.com/jonathan/company-brief/internal/schemas"
	"github.com/jonathan/company-brief/internal/types"
	"github.com/spf13/cobra"
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Research a company and print the generated documents",
	Long: `Runs the same pipeline as the HTTP server for a single company: the five
research sources are queried concurrently, then the interviewer brief and the
interviewee packet are generated from the combined research.

Use --bundle-only to stop after research and print the combined research text.`,
	RunE: runResearch,
}

var (
	researchCompany    string
	researchURL        string
	researchBundleOnly bool
	researchJSON       bool
	researchVerbose    bool
)

func init() {
	researchCmd.Flags().StringVarP(&researchCompany, "company", "c", "", "Company name (required)")
	researchCmd.Flags().StringVarP(&researchURL, "url", "u", "", "Company website (optional, discovered by search if omitted)")
	researchCmd.Flags().BoolVar(&researchBundleOnly, "bundle-only", false, "Print the research bundle and skip document generation")
	researchCmd.Flags().BoolVar(&researchJSON, "json", false, "Print the response envelope as JSON")
	researchCmd.Flags().BoolVarP(&researchVerbose, "verbose", "v", false, "Print progress and a per-source summary")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, _ []string) error {
	if strings.TrimSpace(researchCompany) == "" {
		return fmt.Errorf("--company is required")
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if researchVerbose {
		level = "debug"
	}
	// Logs go to stderr so stdout carries only the documents.
	logger := logging.NewWithWriter(os.Stderr, level, logging.Format(cfg.Log.Format))

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	opts := pipeline.RunOptions{
		RequestID:  uuid.NewString(),
		BundleOnly: researchBundleOnly,
	}
	if researchVerbose {
		opts.OnProgress = func(event pipeline.ProgressEvent) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", event.Step, event.Message)
		}
	}

	req := types.BriefRequest{CompanyName: researchCompany, CompanyURL: researchURL}
	result, err := a.pipeline.Run(ctx, req, opts)
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(cmd.ErrOrStderr())
	if researchVerbose {
		printer.PrintBundleSummary(result.Bundle)
	}

	if researchBundleOnly {
		fmt.Fprintln(out, result.Bundle.Render())
		return nil
	}

	if researchJSON {
		data, err := json.MarshalIndent(result.Response, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		if err := schemas.ValidateBriefResponse(data); err != nil {
			return fmt.Errorf("response failed schema validation: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if researchVerbose {
		printer.PrintResponse(result.Response)
	}
	fmt.Fprintf(out, "%s\n\n%s\n", result.Response.InterviewerBrief, result.Response.IntervieweePacket)
	return nil
}
