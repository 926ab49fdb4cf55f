package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/pipegrade/internal/compatibility"
	"github.com/fyrsmithlabs/pipegrade/internal/gradient"
	"github.com/fyrsmithlabs/pipegrade/internal/network"
	"github.com/fyrsmithlabs/pipegrade/internal/report"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type adjustOptions struct {
	out         string
	report      string
	format      string
	workers     int
	minGradient float64
	radius      float64
}

func newAdjustCmd(root *rootOptions) *cobra.Command {
	opts := &adjustOptions{}
	cmd := &cobra.Command{
		Use:   "adjust <objects.json>",
		Short: "Correct pipeline gradients in a network",
		Long: `Read network objects as JSON, correct every pipeline that does not drain
downhill by the minimum gradient and write the corrected objects.

The report goes to --report, or to stderr when unset.

Examples:
  # Correct a network and print the report
  pipegrade adjust network.json --out corrected.json

  # Read from stdin, JSON report to a file
  cat network.json | pipegrade adjust - --report report.json --format json

  # Stricter gradient on four workers
  pipegrade adjust network.json --min-gradient 3 --workers 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdjust(cmd, root, opts, args[0])
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.out, "out", "o", "", "write corrected objects here (default stdout)")
	f.StringVarP(&opts.report, "report", "r", "", "write the report here (default stderr)")
	f.StringVarP(&opts.format, "format", "f", formatText, "report format: text or json")
	f.IntVarP(&opts.workers, "workers", "w", 0, "medium groups processed concurrently")
	f.Float64Var(&opts.minGradient, "min-gradient", 0, "minimum downhill gradient in percent")
	f.Float64Var(&opts.radius, "radius", 0, "manhole search radius in meters")
	return cmd
}

func checkFormat(format string) error {
	if format != formatText && format != formatJSON {
		return fmt.Errorf("unsupported format %q (want text or json)", format)
	}
	return nil
}

func runAdjust(cmd *cobra.Command, root *rootOptions, opts *adjustOptions, input string) error {
	if err := checkFormat(opts.format); err != nil {
		return err
	}
	cfg, logger, err := root.load()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Gradient.Workers = opts.workers
	}
	if flags.Changed("min-gradient") {
		cfg.Gradient.MinGradientPercent = opts.minGradient
	}
	if flags.Changed("radius") {
		cfg.Gradient.ManholeSearchRadius = opts.radius
	}

	tel, stopTelemetry, err := startTelemetry(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer stopTelemetry()

	adjuster, err := newAdjuster(cfg, logger, gradient.NewMetrics(), tel)
	if err != nil {
		return err
	}

	in, err := openInput(cmd, input)
	if err != nil {
		return err
	}
	objects, err := network.DecodeObjects(in)
	_ = in.Close()
	if err != nil {
		return err
	}

	res, err := adjuster.AdjustGradients(cmd.Context(), objects)
	if err != nil {
		return err
	}

	out, closeOut, err := createOutput(opts.out, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := network.EncodeObjects(out, objects); err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}

	rep := report.BuildAdjustmentReport(res.Adjustments, compatibility.Name(adjuster.Strategy()))
	w, closeReport, err := createOutput(opts.report, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if err := writeAdjustmentReport(w, opts.format, rep, res.Diagnostics); err != nil {
		_ = closeReport()
		return err
	}
	return closeReport()
}

// adjustmentOutput is the JSON report of the adjust command.
type adjustmentOutput struct {
	Report      report.AdjustmentReport `json:"report"`
	Diagnostics []gradient.Diagnostic   `json:"diagnostics"`
}

func writeAdjustmentReport(w io.Writer, format string, rep report.AdjustmentReport, diags []gradient.Diagnostic) error {
	if format == formatJSON {
		if diags == nil {
			diags = []gradient.Diagnostic{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(adjustmentOutput{Report: rep, Diagnostics: diags})
	}
	if err := report.RenderAdjustmentReport(w, rep); err != nil {
		return err
	}
	for _, d := range diags {
		if _, err := fmt.Fprintf(w, "skipped %s (%s): %s\n", d.ObjectID, d.Medium, d.Message()); err != nil {
			return err
		}
	}
	return nil
}
