package main

import (
	"github.com/spf13/cobra"

	"assetpipe/internal/scrub"
)

func newStripCommand(ctx *commandContext) *cobra.Command {
	var checkOnly bool

	cmd := &cobra.Command{
		Use:   "strip [root]",
		Short: "Find images with AI metadata and strip it",
		Long: "Walk the project tree, report images carrying AI or provenance metadata, and rewrite\n" +
			"them without metadata. With --check nothing is modified and the command exits 1 when\n" +
			"any image is flagged, which makes it usable as a pre-commit gate.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			report, err := scrub.New(cfg, logger).Run(runContext(cmd), root, checkOnly)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			renderScrubReport(out, report, shouldColorize(out))
			return exitWith(report.ExitCode())
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only report flagged images; never modify files")
	return cmd
}
