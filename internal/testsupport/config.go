package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"assetpipe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The project root is an empty "site" directory under the temp base.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ProjectRoot = filepath.Join(base, "site")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	if err := os.MkdirAll(cfgVal.Paths.ProjectRoot, 0o755); err != nil {
		t.Fatalf("mkdir project root: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithExcludeDirs appends directory tokens to the scan exclusion set.
func WithExcludeDirs(dirs ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.ExcludeDirs = append(b.cfg.Scan.ExcludeDirs, dirs...)
	}
}

// WithResizeEngine selects the resize engine.
func WithResizeEngine(engine string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Resize.Engine = engine
	}
}

// WithResizeAssets replaces the resize plan.
func WithResizeAssets(assets ...config.ResizeAsset) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Resize.Assets = assets
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
