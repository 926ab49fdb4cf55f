// Package main implements the pipegrade CLI: batch gradient correction,
// shaft cover heights and the HTTP API server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/pipegrade/internal/compatibility"
	"github.com/fyrsmithlabs/pipegrade/internal/config"
	"github.com/fyrsmithlabs/pipegrade/internal/gradient"
	"github.com/fyrsmithlabs/pipegrade/internal/logging"
	"github.com/fyrsmithlabs/pipegrade/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions are the persistent flags shared by all subcommands.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "pipegrade",
		Short: "Validate and correct pipeline gradients in buried networks",
		Long: `pipegrade checks that every pipeline in a network drains downhill by at
least a minimum gradient and corrects the ones that do not, anchoring them
to nearby compatible manholes where possible.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML or TOML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level (trace, debug, info, warn, error)")

	cmd.AddCommand(
		newAdjustCmd(opts),
		newCoverHeightsCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load reads the configuration and builds the logger.
func (o *rootOptions) load() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
		if err := cfg.Logging.Validate(); err != nil {
			return nil, nil, fmt.Errorf("--log-level: %w", err)
		}
	}
	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

// startTelemetry installs trace export per cfg.Telemetry. The returned
// shutdown func flushes pending spans and logs failures.
func startTelemetry(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*telemetry.Telemetry, func(), error) {
	tcfg := cfg.Telemetry
	if tcfg.ServiceVersion == "" || tcfg.ServiceVersion == "dev" {
		tcfg.ServiceVersion = version
	}
	tel, err := telemetry.New(ctx, tcfg)
	if err != nil {
		return nil, nil, err
	}
	if h := tel.Health(); h.Degraded {
		logger.Warn(ctx, "tracing disabled, exporter unavailable", zap.Error(h.LastError))
	}
	return tel, func() {
		if err := tel.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
		}
	}, nil
}

// newAdjuster builds an adjuster from cfg. metrics and tel may be nil.
func newAdjuster(cfg *config.Config, logger *logging.Logger, metrics *gradient.Metrics, tel *telemetry.Telemetry) (*gradient.Adjuster, error) {
	strategy, err := compatibility.FromConfig(cfg.Compatibility)
	if err != nil {
		return nil, err
	}
	opts := []gradient.Option{
		gradient.WithLogger(logger),
		gradient.WithTracer(tel.Tracer(gradient.InstrumentationName)),
	}
	if metrics != nil {
		opts = append(opts, gradient.WithMetrics(metrics))
	}
	return gradient.NewAdjuster(cfg.Gradient, strategy, opts...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "pipegrade by Fyrsmith Labs\n")
	fmt.Fprintf(w, "Version:    %s\n", version)
	fmt.Fprintf(w, "Commit:     %s\n", gitCommit)
	fmt.Fprintf(w, "Build Date: %s\n", buildDate)
}

// openInput returns stdin for "-" and the named file otherwise.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

// createOutput returns fallback for an empty path and a new file otherwise.
func createOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, f.Close, nil
}
