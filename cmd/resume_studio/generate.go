package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Polish a resume and render it to PDF",
	Long: `Reads a canonical resume JSON file, enhances every section with the configured
language model, renders it in the chosen style and prints it to an A4 PDF.

With --debug no PDF is produced; the polished resume JSON is written instead.`,
	RunE: runGenerate,
}

var (
	generateResumeFile string
	generateProvider   string
	generateModel      string
	generateStyle      string
	generateOutputFile string
	generateHTMLFile   string
	generateDebug      bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateResumeFile, "resume", "r", "", "Path to canonical resume JSON file (required)")
	generateCmd.Flags().StringVar(&generateProvider, "provider", "", "Model provider: gemini, openai or anthropic (defaults to config)")
	generateCmd.Flags().StringVar(&generateModel, "model", "", "Model identifier for every call (defaults to provider tiers)")
	generateCmd.Flags().StringVarP(&generateStyle, "style", "s", "", "Render style (see 'styles'; defaults to config)")
	generateCmd.Flags().StringVarP(&generateOutputFile, "out", "o", "", "Output path (default resume.pdf, or polished.json with --debug)")
	generateCmd.Flags().StringVar(&generateHTMLFile, "html", "", "Also write the rendered HTML to this path")
	generateCmd.Flags().BoolVar(&generateDebug, "debug", false, "Skip PDF composition and write the polished resume JSON")

	_ = generateCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	resume, err := readResume(generateResumeFile)
	if err != nil {
		return err
	}

	svc := pipeline.NewService(appConfig, appLogger)
	out := cmd.ErrOrStderr()
	result, err := svc.Generate(cmd.Context(), pipeline.GenerateRequest{
		Resume:   *resume,
		Provider: generateProvider,
		Model:    generateModel,
		Style:    generateStyle,
		Debug:    generateDebug,
		OnProgress: func(e pipeline.ProgressEvent) {
			logStatus(out, "Step %d/%d: %s...", e.Position, e.Total, e.Message)
		},
	})
	if err != nil {
		return err
	}

	if p := printer(cmd); p != nil {
		p.PrintPolished(result.Polished)
	}

	if generateHTMLFile != "" {
		if err := writeOutput(generateHTMLFile, []byte(result.Markup)); err != nil {
			return err
		}
		logStatus(out, "HTML: %s", generateHTMLFile)
	}

	path := generateOutputFile
	data := result.PDF
	if generateDebug {
		data = result.PolishedJSON
		if path == "" {
			path = "polished.json"
		}
	} else if path == "" {
		path = "resume.pdf"
	}
	if err := writeOutput(path, data); err != nil {
		return err
	}

	if n := len(result.Polished.Provenance.Failures); n > 0 {
		logStatus(out, "Warning: %d section(s) kept their original text", n)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully generated %s resume\nOutput: %s\n", result.Style, path)
	return nil
}
