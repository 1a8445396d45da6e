package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/rendering"
	"github.com/jonathan/resume-studio/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a polished (or plain) resume to HTML",
	Long: `Renders a polished resume JSON file, or a canonical resume without enhancements,
into the HTML of one render style. No model or browser is used.`,
	RunE: runRender,
}

var (
	renderPolishedFile string
	renderResumeFile   string
	renderStyle        string
	renderOutputFile   string
)

func init() {
	renderCmd.Flags().StringVarP(&renderPolishedFile, "polished", "p", "", "Path to polished resume JSON (from generate --debug)")
	renderCmd.Flags().StringVarP(&renderResumeFile, "resume", "r", "", "Path to canonical resume JSON, rendered without enhancements")
	renderCmd.Flags().StringVarP(&renderStyle, "style", "s", "", "Render style (defaults to config)")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "resume.html", "Path to output HTML file")

	renderCmd.MarkFlagsMutuallyExclusive("polished", "resume")
	renderCmd.MarkFlagsOneRequired("polished", "resume")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	name := renderStyle
	if strings.TrimSpace(name) == "" {
		name = appConfig.Render.Style
	}
	style, err := types.ParseRenderStyle(name)
	if err != nil {
		return err
	}

	var markup string
	if renderPolishedFile != "" {
		polished, err := readPolished(renderPolishedFile)
		if err != nil {
			return err
		}
		markup, err = rendering.Render(polished, style)
		if err != nil {
			return fmt.Errorf("failed to render resume: %w", err)
		}
	} else {
		resume, err := readResume(renderResumeFile)
		if err != nil {
			return err
		}
		markup, err = rendering.RenderOriginal(*resume, style)
		if err != nil {
			return fmt.Errorf("failed to render resume: %w", err)
		}
	}

	if err := writeOutput(renderOutputFile, []byte(markup)); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully rendered %s resume\nOutput: %s\n", style, renderOutputFile)
	return nil
}
