package resize

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"assetpipe/internal/config"
	"assetpipe/internal/logging"
)

// Engine produces one output from a source image.
type Engine interface {
	Resize(ctx context.Context, source string, out Output) error
}

// Result is the outcome of one output.
type Result struct {
	Output
	Source string `json:"source" yaml:"source"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary aggregates a resize run.
type Summary struct {
	Results []Result `json:"results" yaml:"results"`
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Produced is the number of outputs written.
func (s *Summary) Produced() int {
	n := 0
	for _, r := range s.Results {
		if r.Error == "" {
			n++
		}
	}
	return n
}

// Failed is the number of outputs that could not be written.
func (s *Summary) Failed() int {
	return len(s.Results) - s.Produced()
}

// Option configures the Resizer.
type Option func(*Resizer)

// WithExecutor injects a custom executor for the ffmpeg engine.
func WithExecutor(exec Executor) Option {
	return func(r *Resizer) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithEngine overrides engine selection entirely.
func WithEngine(engine Engine) Option {
	return func(r *Resizer) {
		r.engine = engine
	}
}

// Resizer runs resize plans.
type Resizer struct {
	logger *slog.Logger
	exec   Executor
	engine Engine
}

// New constructs a resizer for the configured engine.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Resizer, error) {
	r := &Resizer{
		logger: logging.NewComponentLogger(logger, "resize"),
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.engine != nil {
		return r, nil
	}
	switch cfg.Resize.Engine {
	case "builtin":
		r.engine = builtinEngine{}
	case "ffmpeg", "":
		r.engine = &ffmpegEngine{
			binary:  cfg.FFmpegBinary(),
			timeout: time.Duration(cfg.Resize.TimeoutSeconds) * time.Second,
			exec:    r.exec,
		}
	default:
		return nil, fmt.Errorf("unsupported resize engine %q", cfg.Resize.Engine)
	}
	return r, nil
}

// Run executes every job. Missing sources are skipped with a warning.
func (r *Resizer) Run(ctx context.Context, jobs []Job) (*Summary, error) {
	logger := logging.WithContext(ctx, r.logger)
	summary := &Summary{}
	for _, job := range jobs {
		if job.Missing {
			summary.Missing = append(summary.Missing, job.Source)
			logging.WarnWithContext(logger, "source asset missing", "resize_missing_source",
				"add the file or remove it from resize.assets",
				logging.String(logging.FieldPath, job.Source),
			)
			continue
		}
		for _, out := range job.Outputs {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			result := Result{Output: out, Source: job.Source}
			started := time.Now()
			if err := r.engine.Resize(ctx, job.Source, out); err != nil {
				result.Error = err.Error()
				logger.Error("resize failed",
					logging.String(logging.FieldPath, out.Path),
					logging.Int("width", out.Width),
					logging.Error(err),
				)
			} else {
				logger.Info("resized",
					logging.String(logging.FieldPath, out.Path),
					logging.Int("width", out.Width),
					logging.Int("quality", out.Quality),
					logging.Duration("elapsed", time.Since(started)),
				)
			}
			summary.Results = append(summary.Results, result)
		}
	}
	return summary, nil
}
