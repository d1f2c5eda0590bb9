package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"assetpipe/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show dependency and directory health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			lines := renderSectionHeader("Dependencies", colorize)
			lines = append(lines, dependencyLines(preflight.CheckSystemDeps(cfg), colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Paths", colorize)...)
			lines = append(lines, directoryLines(preflight.RunAll(cfg), colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Resize", colorize)...)
			lines = append(lines, renderStatusLine("Engine", statusInfo, cfg.Resize.Engine, colorize))
			lines = append(lines, renderStatusLine("Assets", statusInfo, fmt.Sprintf("%d source(s)", len(cfg.Resize.Assets)), colorize))

			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
