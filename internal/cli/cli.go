package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vk/pipescope/internal/app"
	"github.com/vk/pipescope/internal/config"
	"github.com/vk/pipescope/internal/hcl"
	"github.com/vk/pipescope/internal/report"
	"github.com/vk/pipescope/internal/telemetry"
	"github.com/vk/pipescope/internal/yaml"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Process exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitFindings = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// flags holds the settings shared by analyze and watch.
type flags struct {
	configPath      string
	format          string
	logFormat       string
	logLevel        string
	workers         int
	strictRoles     bool
	failOnError     bool
	promTextfile    string
	healthcheckPort int
	debounce        time.Duration
	otlpEndpoint    string
	otlpInsecure    bool
	otlpHeaders     map[string]string
}

// Execute runs the command tree for args. Every non-nil error it returns is
// an *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Anything cobra rejects before RunE is a usage problem.
	return usageError(err)
}

// NewRootCommand builds the pipescope command tree.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "pipescope",
		Short: "Static analysis for declared data-processing pipelines",
		Long: `pipescope validates pipeline definitions (HCL, YAML or JSON) and reports
structural errors, policy warnings and structural metrics.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.AddCommand(newAnalyzeCommand(outW, errW))
	root.AddCommand(newWatchCommand(outW, errW))
	root.AddCommand(newVersionCommand(outW))
	return root
}

func newAnalyzeCommand(outW, errW io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Analyze pipeline definitions once and report",
		Long: `Analyze loads every pipeline found under the given files or directories,
analyzes them as one batch and writes the report to stdout.

Exit codes: 0 ok, 1 runtime failure, 2 usage error, 3 errors found with --fail-on-error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, &f, args)
			if err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), cfg, outW, errW)
		},
	}
	bindCommon(cmd, &f)
	cmd.Flags().BoolVar(&f.failOnError, "fail-on-error", false, "Exit with code 3 when any pipeline has errors.")
	cmd.Flags().StringVar(&f.promTextfile, "prom-textfile", "", "Also write metrics to this file for the node_exporter textfile collector.")
	return cmd
}

func newWatchCommand(outW, errW io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-analyze pipeline definitions whenever they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, &f, args)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), cfg, outW, errW)
		},
	}
	bindCommon(cmd, &f)
	cmd.Flags().IntVar(&f.healthcheckPort, "healthcheck-port", 0, "Port for the /health and /metrics server. 0 is disabled.")
	cmd.Flags().DurationVar(&f.debounce, "debounce", 0, "Quiet period before a change triggers a run (default 100ms).")
	cmd.Flags().StringVar(&f.promTextfile, "prom-textfile", "", "Rewrite this metrics textfile after every run.")
	return cmd
}

func newVersionCommand(outW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pipescope version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(outW, "pipescope %s\n", Version)
		},
	}
}

func bindCommon(cmd *cobra.Command, f *flags) {
	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "YAML file with default settings. Flags override it.")
	fs.StringVarP(&f.format, "format", "f", report.FormatText, fmt.Sprintf("Report format. Options: %v.", report.Formats))
	fs.StringVar(&f.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	fs.StringVar(&f.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.IntVarP(&f.workers, "workers", "w", 0, "Number of pipelines analyzed concurrently. 0 uses GOMAXPROCS.")
	fs.BoolVar(&f.strictRoles, "strict-roles", false, "Report port-role violations as errors instead of warnings.")
	fs.StringVar(&f.otlpEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint for traces. Tracing is off when empty.")
	fs.BoolVar(&f.otlpInsecure, "otlp-insecure", false, "Connect to the OTLP endpoint without TLS.")
	fs.StringToStringVar(&f.otlpHeaders, "otlp-header", nil, "Header sent with OTLP exports, as key=value. Repeatable.")
}

// buildConfig merges flags, the defaults file and the environment, flags
// taking precedence.
func buildConfig(cmd *cobra.Command, f *flags, args []string) (*app.Config, error) {
	cfg := app.Config{
		Paths:           args,
		Format:          f.format,
		PromTextfile:    f.promTextfile,
		LogFormat:       f.logFormat,
		LogLevel:        f.logLevel,
		Workers:         f.workers,
		StrictRoles:     f.strictRoles,
		FailOnError:     f.failOnError,
		HealthcheckPort: f.healthcheckPort,
		Debounce:        f.debounce,
		OTLPEndpoint:    f.otlpEndpoint,
		OTLPInsecure:    f.otlpInsecure,
		OTLPHeaders:     f.otlpHeaders,
	}
	explicit := cmd.Flags().Changed

	if f.configPath != "" {
		defaults, err := app.LoadDefaults(f.configPath)
		if err != nil {
			return nil, usageError(err)
		}
		defaults.Apply(&cfg, explicit)
	}
	app.ApplyEnv(&cfg, os.LookupEnv, explicit)

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return validated, nil
}

func newLoader() *config.FileLoader {
	return config.NewLoader(hcl.NewLoader(), yaml.NewLoader())
}

func setupApp(ctx context.Context, cfg *app.Config, outW, errW io.Writer) (*app.App, telemetry.ShutdownFunc, error) {
	tp, shutdown, err := telemetry.SetupProvider(ctx, telemetry.Config{
		ServiceName:    "pipescope",
		ServiceVersion: Version,
		Endpoint:       cfg.OTLPEndpoint,
		Insecure:       cfg.OTLPInsecure,
		Headers:        cfg.OTLPHeaders,
	})
	if err != nil {
		return nil, nil, &ExitError{Code: ExitFailure, Message: fmt.Sprintf("failed to set up tracing: %v", err)}
	}

	a, err := app.NewApp(outW, errW, cfg, newLoader(), app.WithTracerProvider(tp))
	if err != nil {
		_ = shutdown(ctx)
		return nil, nil, &ExitError{Code: ExitFailure, Message: err.Error()}
	}
	return a, shutdown, nil
}

func runAnalyze(ctx context.Context, cfg *app.Config, outW, errW io.Writer) error {
	a, shutdown, err := setupApp(ctx, cfg, outW, errW)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()

	_, err = a.Run(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, app.ErrFindings):
		return &ExitError{Code: ExitFindings, Message: err.Error()}
	default:
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}
}

func runWatch(ctx context.Context, cfg *app.Config, outW, errW io.Writer) error {
	a, shutdown, err := setupApp(ctx, cfg, outW, errW)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()

	if err := a.Watch(ctx); err != nil {
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}
	return nil
}
