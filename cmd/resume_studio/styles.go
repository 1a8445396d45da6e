package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/types"
)

var styleDescriptions = map[types.RenderStyle]string{
	types.StyleClassic:  "Serif, single column, ruled section headings",
	types.StyleModern:   "Sans-serif with a tinted sidebar for contact and skills",
	types.StyleMinimal:  "Generous whitespace, no rules or colour",
	types.StyleElegant:  "Centred header, small caps headings, muted accent",
	types.StyleCompact:  "Dense single page layout with tight spacing",
	types.StyleCreative: "Monogram header and coloured skill chips",
}

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the available render styles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, s := range types.AllRenderStyles() {
			marker := ""
			if s == types.DefaultRenderStyle {
				marker = " (default)"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s%s\n", s, styleDescriptions[s], marker)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}
