package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"assetpipe/internal/resize"
)

func newResizeCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "resize",
		Short: "Generate responsive image variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			jobs := resize.Plan(cfg)
			out := cmd.OutOrStdout()
			base := cfg.AssetsPath()

			if dryRun {
				fmt.Fprintln(out, renderPlanTable(base, jobs))
				return nil
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			resizer, err := resize.New(cfg, logger)
			if err != nil {
				return err
			}

			p := newPalette(shouldColorize(out))
			for _, job := range jobs {
				if job.Missing {
					fmt.Fprintln(out, p.warning(fmt.Sprintf("Warning: %s not found!", relTo(base, job.Source))))
					continue
				}
				for _, o := range job.Outputs {
					fmt.Fprintf(out, "Resizing %s to %s (%dpx)...\n", relTo(base, job.Source), relTo(base, o.Path), o.Width)
				}
			}

			summary, err := resizer.Run(runContext(cmd), jobs)
			if err != nil {
				return err
			}
			for _, result := range summary.Results {
				if result.Error != "" {
					fmt.Fprintln(out, p.failure(fmt.Sprintf("Failed %s: %s", relTo(base, result.Path), result.Error)))
				}
			}
			fmt.Fprintln(out, p.success("Done resizing images."))
			if summary.Failed() > 0 {
				return exitWith(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the resize plan without writing files")
	return cmd
}

func renderPlanTable(base string, jobs []resize.Job) string {
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		status := "ready"
		if job.Missing {
			status = "missing"
		}
		for _, o := range job.Outputs {
			rows = append(rows, []string{
				relTo(base, job.Source),
				relTo(base, o.Path),
				humanize.Comma(int64(o.Width)) + "px",
				strconv.Itoa(o.Quality),
				status,
			})
		}
	}
	return renderTable(
		[]string{"Source", "Output", "Width", "Quality", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func relTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}
