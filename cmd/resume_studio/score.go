package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/browser"
	"github.com/jonathan/resume-studio/internal/fetch"
	"github.com/jonathan/resume-studio/internal/ingestion"
	"github.com/jonathan/resume-studio/internal/pipeline"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a CV against a job description",
	Long: `Rasterizes a PDF, DOCX or plain-text CV to page images, sends them with the job
description to the configured vision model and prints a weighted score report as JSON.`,
	RunE: runScore,
}

var (
	scoreFile       string
	scoreTextFile   string
	scoreJobFile    string
	scoreJobURL     string
	scoreSkills     string
	scoreProvider   string
	scoreModel      string
	scoreOutputFile string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreFile, "file", "f", "", "Path to the CV document (PDF, DOCX or text)")
	scoreCmd.Flags().StringVar(&scoreTextFile, "text-file", "", "Path to a file with pasted CV text (mutually exclusive with --file)")
	scoreCmd.Flags().StringVarP(&scoreJobFile, "job", "j", "", "Path to job description text file")
	scoreCmd.Flags().StringVar(&scoreJobURL, "job-url", "", "URL of a job posting to fetch the description from")
	scoreCmd.Flags().StringVar(&scoreSkills, "skills", "", "Comma-separated skills to check for")
	scoreCmd.Flags().StringVar(&scoreProvider, "provider", "", "Model provider: gemini, openai or anthropic (defaults to config)")
	scoreCmd.Flags().StringVar(&scoreModel, "model", "", "Vision model identifier (defaults to provider tier)")
	scoreCmd.Flags().StringVarP(&scoreOutputFile, "out", "o", "", "Write the report here instead of stdout")

	scoreCmd.MarkFlagsOneRequired("job", "job-url")
	scoreCmd.MarkFlagsMutuallyExclusive("job", "job-url")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	doc, err := readDocument(scoreFile, scoreTextFile)
	if err != nil {
		return err
	}
	job, err := loadJobDescription(cmd.Context(), scoreJobFile, scoreJobURL)
	if err != nil {
		return err
	}
	appLogger.Debug().
		Str("source", string(job.Metadata.Source)).
		Str("location", job.Metadata.Location).
		Str("platform", job.Metadata.Platform).
		Int("chars", job.Metadata.Chars).
		Msg("job description loaded")

	svc := pipeline.NewService(appConfig, appLogger)
	out := cmd.ErrOrStderr()
	report, err := svc.Score(cmd.Context(), pipeline.ScoreRequest{
		Document:       doc,
		JobDescription: job.Text,
		Skills:         parseSkills(scoreSkills),
		Provider:       scoreProvider,
		Model:          scoreModel,
		OnProgress: func(e pipeline.ProgressEvent) {
			logStatus(out, "Step %d/%d: %s...", e.Position, e.Total, e.Message)
		},
	})
	if err != nil {
		return err
	}

	if p := printer(cmd); p != nil {
		p.PrintScoreReport(report)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if scoreOutputFile == "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	if err := writeOutput(scoreOutputFile, data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Score: %d/100\nOutput: %s\n", report.Total, scoreOutputFile)
	return nil
}

// loadJobDescription reads the job description from a file or fetches it
// from a posting URL.
func loadJobDescription(ctx context.Context, path, url string) (*ingestion.Posting, error) {
	if path != "" {
		job, err := ingestion.FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read job description: %w", err)
		}
		return job, nil
	}

	opts := fetch.Options{
		Timeout:   appConfig.Fetch.Timeout,
		UserAgent: appConfig.Fetch.UserAgent,
		Logger:    appLogger,
	}
	if appConfig.Fetch.RenderFallback {
		opts.Renderer = browser.NewEngine(pipeline.BrowserOptions(appConfig.Browser, appLogger))
	}
	job, err := ingestion.FromURL(ctx, fetch.New(opts), url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job description: %w", err)
	}
	return job, nil
}
