package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:   "resume_studio",
	Short: "AI resume polishing, rendering and scoring",
	Long: `resume_studio polishes a structured resume with a language model and renders it
to a styled PDF, or scores an existing CV (PDF, DOCX or text) against a job description.

Configuration is read from defaults, an optional config file (--config or
resume_studio.yaml) and RESUME_STUDIO_* environment variables, in increasing priority.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

var (
	rootConfigPath  string
	rootLogLevel    string
	rootLogFormat   string
	rootVerbose     bool
	rootMetricsAddr string
)

// state built once per invocation by setup
var (
	appConfig   *config.Config
	appLogger   = zerolog.Nop()
	stopMetrics = func() {}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootConfigPath, "config", "", "Path to config file (yaml or json)")
	flags.StringVar(&rootLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flags.StringVar(&rootLogFormat, "log-format", "", "Log format: json or console (overrides config)")
	flags.BoolVarP(&rootVerbose, "verbose", "v", false, "Print human-readable summaries to stderr")
	flags.StringVar(&rootMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(rootConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = rootLogLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = rootLogFormat
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.Metrics.Addr = rootMetricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := observability.NewLogger(observability.LogOptions{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Out:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	appConfig = cfg
	appLogger = logger
	stopMetrics = observability.StartMetricsServer(cfg.Metrics.Addr, logger)
	return nil
}

func teardown(_ *cobra.Command, _ []string) {
	stopMetrics()
}

// printer returns the verbose printer, or nil when --verbose is off.
func printer(cmd *cobra.Command) *observability.Printer {
	if !rootVerbose {
		return nil
	}
	return observability.NewPrinter(cmd.ErrOrStderr())
}

func logStatus(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}
