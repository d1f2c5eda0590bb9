package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"assetpipe/internal/scrub"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "List images carrying AI metadata without modifying them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if err := validateOutputFormat(format); err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			root, err := rootArg(cfg, args)
			if err != nil {
				return err
			}

			report, err := scrub.New(cfg, logger).Run(runContext(cmd), root, true)
			if err != nil {
				return err
			}

			switch format {
			case outputJSON:
				err = writeJSON(cmd, report)
			case outputYAML:
				err = writeYAML(cmd, report)
			default:
				err = writeScanTable(cmd, report)
			}
			if err != nil {
				return err
			}
			return exitWith(report.ExitCode())
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", outputText, "Output format: text, json, or yaml")
	return cmd
}

func writeScanTable(cmd *cobra.Command, report *scrub.Report) error {
	out := cmd.OutOrStdout()
	if report.FlaggedCount() == 0 {
		_, err := fmt.Fprintf(out, "No images with AI/Google metadata found (%d scanned).\n", report.Scanned)
		return err
	}
	rows := make([][]string, 0, report.FlaggedCount())
	for _, file := range report.Files {
		for i, marker := range file.Markers {
			name := file.Rel
			if i > 0 {
				name = ""
			}
			rows = append(rows, []string{name, marker.Field, marker.Detail})
		}
	}
	fmt.Fprintln(out, renderTable([]string{"File", "Field", "Marker"}, rows, nil))
	_, err := fmt.Fprintf(out, "%d of %d image(s) flagged.\n", report.FlaggedCount(), report.Scanned)
	return err
}
