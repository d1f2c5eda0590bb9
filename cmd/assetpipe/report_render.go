package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"assetpipe/internal/detect"
	"assetpipe/internal/scrub"
)

const ruleWidth = 50

type palette struct {
	info    func(a ...any) string
	success func(a ...any) string
	warning func(a ...any) string
	failure func(a ...any) string
	path    func(a ...any) string
}

func newPalette(colorize bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		info:    mk(color.FgBlue),
		success: mk(color.FgGreen),
		warning: mk(color.FgYellow),
		failure: mk(color.FgRed, color.Bold),
		path:    mk(color.Bold),
	}
}

func renderScrubReport(w io.Writer, report *scrub.Report, colorize bool) {
	p := newPalette(colorize)

	verb := "Scanning"
	if report.CheckOnly {
		verb = "Checking"
	}
	fmt.Fprintln(w, p.info(fmt.Sprintf("%s for AI metadata in: %s", verb, report.Root)))
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))

	for _, walkErr := range report.WalkErrors {
		fmt.Fprintln(w, p.warning("Skipped unreadable entry: "+walkErr))
	}

	if report.FlaggedCount() == 0 {
		fmt.Fprintln(w, p.success("No images with AI/Google metadata found!"))
		return
	}

	fmt.Fprintf(w, "\n%s\n\n", p.warning(fmt.Sprintf("Found %d image(s) with AI/Google metadata:", report.FlaggedCount())))
	for _, file := range report.Files {
		fmt.Fprintln(w, p.path(file.Rel))
		writeMarkers(w, file.Markers)
	}

	if report.CheckOnly {
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
		fmt.Fprintln(w, p.failure("Pre-commit check failed!"))
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Run 'assetpipe strip' to remove AI metadata.")
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, p.info("Stripping AI metadata..."))
	for _, file := range report.Files {
		fmt.Fprintf(w, "\nProcessing: %s\n", p.path(file.Rel))
		switch file.Outcome {
		case scrub.OutcomeCleaned:
			fmt.Fprintf(w, "   %s (%s -> %s)\n", p.success("Cleaned successfully"),
				humanize.Bytes(uint64(file.BytesBefore)), humanize.Bytes(uint64(file.BytesAfter)))
		case scrub.OutcomeStillFlagged:
			fmt.Fprintln(w, "   "+p.warning("Still has markers: "+joinMarkers(file.Residual)))
		case scrub.OutcomeFailed:
			fmt.Fprintln(w, "   "+p.failure("Error stripping metadata: "+file.Error))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
	fmt.Fprintln(w, "Results:")
	fmt.Fprintln(w, "   "+p.success(fmt.Sprintf("Cleaned: %d", report.Cleaned())))
	if failed := report.Failed(); failed > 0 {
		fmt.Fprintln(w, "   "+p.failure(fmt.Sprintf("Failed: %d", failed)))
	}
}

func writeMarkers(w io.Writer, markers []detect.Marker) {
	for _, m := range markers {
		fmt.Fprintf(w, "   • %s\n", m)
	}
}

func joinMarkers(markers []detect.Marker) string {
	parts := make([]string, 0, len(markers))
	for _, m := range markers {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, "; ")
}
