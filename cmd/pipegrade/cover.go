package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/pipegrade/internal/network"
	"github.com/fyrsmithlabs/pipegrade/internal/report"
)

type coverOptions struct {
	out    string
	format string
}

func newCoverHeightsCmd(root *rootOptions) *cobra.Command {
	opts := &coverOptions{}
	cmd := &cobra.Command{
		Use:   "cover-heights <objects.json>",
		Short: "Compute shaft cover-to-pipe heights",
		Long: `Read network objects as JSON and report, for every shaft with a connected
compatible pipe, the height from the cover down to the lowest pipe invert.
Objects are not modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoverHeights(cmd, root, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the report here (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "report format: text or json")
	return cmd
}

func runCoverHeights(cmd *cobra.Command, root *rootOptions, opts *coverOptions, input string) error {
	if err := checkFormat(opts.format); err != nil {
		return err
	}
	cfg, logger, err := root.load()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tel, stopTelemetry, err := startTelemetry(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer stopTelemetry()

	adjuster, err := newAdjuster(cfg, logger, nil, tel)
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

	rep := report.BuildCoverHeightReport(adjuster.CoverHeights(cmd.Context(), objects))

	w, closeOut, err := createOutput(opts.out, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if opts.format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(rep)
	} else {
		err = report.RenderCoverHeightReport(w, rep)
	}
	if err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}
