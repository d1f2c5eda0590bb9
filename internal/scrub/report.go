package scrub

import "assetpipe/internal/detect"

// Outcome is the final state of one inspected file.
type Outcome string

const (
	OutcomeClean        Outcome = "clean"
	OutcomeFlagged      Outcome = "flagged"
	OutcomeCleaned      Outcome = "cleaned"
	OutcomeStillFlagged Outcome = "still_flagged"
	OutcomeFailed       Outcome = "failed"
)

// FileReport describes one flagged file.
type FileReport struct {
	Path        string          `json:"path" yaml:"path"`
	Rel         string          `json:"rel" yaml:"rel"`
	Markers     []detect.Marker `json:"markers" yaml:"markers"`
	Outcome     Outcome         `json:"outcome" yaml:"outcome"`
	Residual    []detect.Marker `json:"residual,omitempty" yaml:"residual,omitempty"`
	Error       string          `json:"error,omitempty" yaml:"error,omitempty"`
	BytesBefore int64           `json:"bytes_before,omitempty" yaml:"bytes_before,omitempty"`
	BytesAfter  int64           `json:"bytes_after,omitempty" yaml:"bytes_after,omitempty"`
}

// Report is the result of one scan. Only flagged files are listed.
type Report struct {
	RunID      string       `json:"run_id" yaml:"run_id"`
	Root       string       `json:"root" yaml:"root"`
	CheckOnly  bool         `json:"check_only" yaml:"check_only"`
	Scanned    int          `json:"scanned" yaml:"scanned"`
	Files      []FileReport `json:"files" yaml:"files"`
	WalkErrors []string     `json:"walk_errors,omitempty" yaml:"walk_errors,omitempty"`
}

// FlaggedCount is the number of files with at least one marker before stripping.
func (r *Report) FlaggedCount() int {
	return len(r.Files)
}

// Count returns the number of files with the given outcome.
func (r *Report) Count(outcome Outcome) int {
	n := 0
	for _, f := range r.Files {
		if f.Outcome == outcome {
			n++
		}
	}
	return n
}

// Cleaned is the number of files stripped and verified clean.
func (r *Report) Cleaned() int {
	return r.Count(OutcomeCleaned)
}

// Failed is the number of files that could not be stripped or still carry
// markers afterwards.
func (r *Report) Failed() int {
	return r.Count(OutcomeFailed) + r.Count(OutcomeStillFlagged)
}

// ExitCode maps the report to the process exit status: 0 when the tree is
// clean (or fully cleaned), 1 otherwise.
func (r *Report) ExitCode() int {
	if len(r.WalkErrors) > 0 {
		return 1
	}
	if r.CheckOnly {
		if r.FlaggedCount() > 0 {
			return 1
		}
		return 0
	}
	if r.Failed() > 0 {
		return 1
	}
	return 0
}

// OK reports whether ExitCode is zero.
func (r *Report) OK() bool {
	return r.ExitCode() == 0
}
