package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"assetpipe/internal/config"
	"assetpipe/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
	if statuses := CheckSystemDeps(nil); statuses != nil {
		t.Fatal("expected nil statuses for nil config")
	}
}

func TestRunAll_ReportsMissingAssetsDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := RunAll(cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for _, r := range results {
		want := r.Name != "Assets directory"
		if r.Passed != want {
			t.Errorf("check %q passed=%v: %s", r.Name, r.Passed, r.Detail)
		}
	}
}

func TestRunAll_SkipsAssetsWithoutPlan(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithResizeAssets())
	cfg.Paths.LogDir = ""
	cfg.Paths.StateDir = ""
	results := RunAll(cfg)
	if len(results) != 1 || results[0].Name != "Project root" || !results[0].Passed {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestCheckSystemDeps_BuiltinMakesFFmpegOptional(t *testing.T) {
	cfg := config.Default()
	cfg.Resize.Engine = "builtin"
	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 1 || !statuses[0].Optional {
		t.Fatalf("expected optional ffmpeg, got %+v", statuses)
	}

	stubbed := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	statuses = CheckSystemDeps(stubbed)
	if !statuses[0].Available || statuses[0].Optional {
		t.Fatalf("expected required, available ffmpeg, got %+v", statuses[0])
	}
}
