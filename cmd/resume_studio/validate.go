package main

import (
	"fmt"

	"github.com/spf13/cobra"

	internalschemas "github.com/jonathan/resume-studio/internal/schemas"
	files "github.com/jonathan/resume-studio/schemas"
)

var schemaNames = map[string]string{
	"resume":   files.CanonicalResume,
	"polished": files.PolishedResume,
	"report":   files.ScoreReport,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against one of the embedded schemas",
	Long:  "Validates a resume, polished resume or score report JSON file. Schema names: resume, polished, report.",
	RunE:  runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", "resume", "Schema name: resume, polished or report")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "Path to JSON file (required)")
	_ = validateCmd.MarkFlagRequired("json")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	schema, ok := schemaNames[validateSchema]
	if !ok {
		return fmt.Errorf("unknown schema %q (want resume, polished or report)", validateSchema)
	}
	if err := internalschemas.ValidateFile(schema, validateJSON); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s matches %s\n", validateJSON, schema)
	return nil
}
