package scrub

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"assetpipe/internal/config"
	"assetpipe/internal/detect"
	"assetpipe/internal/discover"
	"assetpipe/internal/logging"
	"assetpipe/internal/strip"
	"assetpipe/internal/textutil"
)

// ErrLocked is returned when another strip run holds the tree lock.
var ErrLocked = errors.New("another strip run is already in progress for this root")

// Detector finds markers in one image.
type Detector interface {
	Detect(path string) []detect.Marker
}

// Stripper rewrites one image without metadata.
type Stripper interface {
	Strip(img discover.Image) (strip.Result, error)
}

// Runner executes scans using a fixed configuration.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	detector Detector
	stripper Stripper
}

// Option customizes a Runner.
type Option func(*Runner)

// WithDetector overrides the marker detector.
func WithDetector(d Detector) Option {
	return func(r *Runner) { r.detector = d }
}

// WithStripper overrides the stripper.
func WithStripper(s Stripper) Option {
	return func(r *Runner) { r.stripper = s }
}

// New builds a runner from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "scrub"),
		detector: detect.New(cfg.Scan.Keywords),
		stripper: strip.New(cfg.Strip),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run scans root. With checkOnly set no file is modified. Per-file problems
// are recorded in the report; the returned error covers only conditions that
// prevent the scan from starting or cancellation.
func (r *Runner) Run(ctx context.Context, root string, checkOnly bool) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	runID, ok := logging.RunIDFromContext(ctx)
	if !ok {
		runID = logging.NewRunID()
		ctx = logging.WithRunID(ctx, runID)
	}
	logger := logging.WithContext(ctx, r.logger)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", absRoot)
	}

	if !checkOnly {
		unlock, err := r.lock(absRoot)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	report := &Report{RunID: runID, Root: absRoot, CheckOnly: checkOnly}
	started := time.Now()
	logger.Info("scan started",
		logging.String("root", absRoot),
		logging.Bool("check_only", checkOnly),
	)

	var flagged []discover.Image
	for img, walkErr := range discover.Walk(absRoot, discover.OptionsFromConfig(r.cfg.Scan)) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if walkErr != nil {
			report.WalkErrors = append(report.WalkErrors, walkErr.Error())
			logging.WarnWithContext(logger, "walk entry failed", "walk_error",
				"check permissions on the path",
				logging.String(logging.FieldPath, img.Path),
				logging.Error(walkErr),
			)
			continue
		}
		report.Scanned++
		markers := r.detector.Detect(img.Path)
		if len(markers) == 0 {
			logger.Debug("clean", logging.String(logging.FieldPath, img.Path))
			continue
		}
		logger.Info("markers found",
			logging.String(logging.FieldPath, img.Path),
			logging.Int("markers", len(markers)),
		)
		flagged = append(flagged, img)
		report.Files = append(report.Files, FileReport{
			Path:    img.Path,
			Rel:     relPath(absRoot, img.Path),
			Markers: markers,
			Outcome: OutcomeFlagged,
		})
	}

	if !checkOnly {
		for i, img := range flagged {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			r.stripOne(logger, img, &report.Files[i])
		}
	}

	logger.Info("scan finished",
		logging.Int("scanned", report.Scanned),
		logging.Int("flagged", report.FlaggedCount()),
		logging.Int("cleaned", report.Cleaned()),
		logging.Int("failed", report.Failed()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return report, nil
}

func (r *Runner) stripOne(logger *slog.Logger, img discover.Image, file *FileReport) {
	res, err := r.stripper.Strip(img)
	file.BytesBefore = res.BytesBefore
	if err != nil {
		file.Outcome = OutcomeFailed
		file.Error = err.Error()
		logger.Error("strip failed",
			logging.String(logging.FieldPath, img.Path),
			logging.Error(err),
		)
		return
	}
	file.BytesAfter = res.BytesAfter

	residual := r.detector.Detect(img.Path)
	if len(residual) > 0 {
		file.Outcome = OutcomeStillFlagged
		file.Residual = residual
		logging.WarnWithContext(logger, "markers remain after strip", "strip_residual",
			"inspect the file manually",
			logging.String(logging.FieldPath, img.Path),
			logging.Int("markers", len(residual)),
		)
		return
	}
	file.Outcome = OutcomeCleaned
	logger.Info("cleaned",
		logging.String(logging.FieldPath, img.Path),
		logging.Int64("bytes_before", res.BytesBefore),
		logging.Int64("bytes_after", res.BytesAfter),
	)
}

// lock takes the per-root advisory lock in the state directory.
func (r *Runner) lock(absRoot string) (func(), error) {
	stateDir := r.cfg.Paths.StateDir
	if stateDir == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}
	fl := flock.New(LockPath(stateDir, absRoot))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() { _ = fl.Unlock() }, nil
}

// LockPath returns the lock file used for strip runs over absRoot.
func LockPath(stateDir, absRoot string) string {
	sum := sha256.Sum256([]byte(absRoot))
	name := fmt.Sprintf("strip-%s-%s.lock", textutil.SanitizeToken(filepath.Base(absRoot)), hex.EncodeToString(sum[:6]))
	return filepath.Join(stateDir, name)
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
