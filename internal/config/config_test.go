package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"assetpipe/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ASSETPIPE_ROOT", "")
	t.Setenv("ASSETPIPE_LOG_LEVEL", "")
	t.Setenv("ASSETPIPE_FFMPEG", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "assetpipe", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if !filepath.IsAbs(cfg.Paths.ProjectRoot) {
		t.Fatalf("expected absolute project root, got %q", cfg.Paths.ProjectRoot)
	}
	if got := strings.Join(cfg.Scan.ImageExtensions, ","); got != ".png,.jpg,.jpeg,.webp" {
		t.Fatalf("unexpected extensions: %s", got)
	}
	if got := strings.Join(cfg.Scan.ExcludeDirs, ","); got != "node_modules,.git,.venv,__pycache__,dist,.reference-repo" {
		t.Fatalf("unexpected exclude dirs: %s", got)
	}
	if cfg.Scan.BackupSuffix != ".bk" {
		t.Fatalf("unexpected backup suffix: %q", cfg.Scan.BackupSuffix)
	}
	if len(cfg.Scan.Keywords) != 5 || cfg.Scan.Keywords[0] != "google ai" {
		t.Fatalf("unexpected keywords: %v", cfg.Scan.Keywords)
	}
	if cfg.Strip.JPEGQuality != 95 || cfg.Strip.WebPQuality != 95 {
		t.Fatalf("unexpected strip qualities: %+v", cfg.Strip)
	}
	if cfg.Resize.Engine != "ffmpeg" {
		t.Fatalf("unexpected resize engine: %q", cfg.Resize.Engine)
	}
	if len(cfg.Resize.Assets) != 10 {
		t.Fatalf("expected 10 default resize assets, got %d", len(cfg.Resize.Assets))
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestDefaultResizePlanMatchesAssetList(t *testing.T) {
	cfg := config.Default()
	byName := map[string]config.ResizeAsset{}
	for _, asset := range cfg.Resize.Assets {
		byName[asset.Source] = asset
	}

	standard, ok := byName["evento.webp"]
	if !ok {
		t.Fatal("expected evento.webp in default plan")
	}
	if standard.Quality != 60 || len(standard.Variants) != 3 {
		t.Fatalf("unexpected standard asset: %+v", standard)
	}
	wantWidths := map[string]int{"-small": 400, "-large": 600, "-medium": 800}
	for _, v := range standard.Variants {
		if wantWidths[v.Suffix] != v.Width {
			t.Fatalf("unexpected variant %+v", v)
		}
	}

	hero := byName["hero-bg.webp"]
	if hero.Quality != 65 || len(hero.Variants) != 2 || hero.Variants[1].Width != 1024 {
		t.Fatalf("unexpected hero asset: %+v", hero)
	}

	logo := byName["logo-reflex-som.png"]
	if logo.Quality != 60 || len(logo.Variants) != 1 || logo.Variants[0].Width != 185 || logo.Variants[0].Suffix != "" {
		t.Fatalf("unexpected logo asset: %+v", logo)
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ASSETPIPE_ROOT", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "assetpipe.toml")

	type payload struct {
		Paths struct {
			ProjectRoot string `toml:"project_root"`
		} `toml:"paths"`
		Scan struct {
			ImageExtensions []string `toml:"image_extensions"`
			ExcludeDirs     []string `toml:"exclude_dirs"`
			Keywords        []string `toml:"keywords"`
		} `toml:"scan"`
		Resize struct {
			Engine string               `toml:"engine"`
			Assets []config.ResizeAsset `toml:"assets"`
		} `toml:"resize"`
	}
	custom := payload{}
	custom.Paths.ProjectRoot = filepath.Join(tempDir, "site")
	custom.Scan.ImageExtensions = []string{"PNG", ".Jpg", ".png"}
	custom.Scan.ExcludeDirs = []string{"cache", "/build/"}
	custom.Scan.Keywords = []string{"  Midjourney ", "midjourney"}
	custom.Resize.Engine = "Builtin"
	custom.Resize.Assets = []config.ResizeAsset{{
		Source:   "banner.png",
		Quality:  70,
		Variants: []config.Variant{{Suffix: "-thumb", Width: 120}},
	}}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.ProjectRoot != filepath.Join(tempDir, "site") {
		t.Fatalf("unexpected project root: %q", cfg.Paths.ProjectRoot)
	}
	if got := strings.Join(cfg.Scan.ImageExtensions, ","); got != ".png,.jpg" {
		t.Fatalf("expected normalized extensions, got %s", got)
	}
	if got := strings.Join(cfg.Scan.ExcludeDirs, ","); got != "cache,build" {
		t.Fatalf("expected normalized exclude dirs, got %s", got)
	}
	if got := strings.Join(cfg.Scan.Keywords, ","); got != "midjourney" {
		t.Fatalf("expected deduplicated keywords, got %s", got)
	}
	if cfg.Resize.Engine != "builtin" {
		t.Fatalf("expected lowercase engine, got %q", cfg.Resize.Engine)
	}
	if len(cfg.Resize.Assets) != 1 || cfg.Resize.Assets[0].OutputExt != ".webp" {
		t.Fatalf("expected custom plan with default output ext, got %+v", cfg.Resize.Assets)
	}
}

func TestLoadHonoursEnvFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	t.Setenv("ASSETPIPE_ROOT", root)
	t.Setenv("ASSETPIPE_LOG_LEVEL", "DEBUG")
	t.Setenv("ASSETPIPE_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.ProjectRoot != root {
		t.Fatalf("expected root from env, got %q", cfg.Paths.ProjectRoot)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected level from env, got %q", cfg.Logging.Level)
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("expected ffmpeg from env, got %q", cfg.FFmpegBinary())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"jpeg quality", func(c *config.Config) { c.Strip.JPEGQuality = 0 }, "strip.jpeg_quality"},
		{"webp quality", func(c *config.Config) { c.Strip.WebPQuality = 101 }, "strip.webp_quality"},
		{"png compression", func(c *config.Config) { c.Strip.PNGCompression = "max" }, "strip.png_compression"},
		{"engine", func(c *config.Config) { c.Resize.Engine = "vips" }, "resize.engine"},
		{"variant width", func(c *config.Config) { c.Resize.Assets[0].Variants[0].Width = 0 }, "variants[0].width"},
		{"no keywords", func(c *config.Config) { c.Scan.Keywords = nil }, "scan.keywords"},
		{"nested exclude", func(c *config.Config) { c.Scan.ExcludeDirs = []string{"a/b"} }, "scan.exclude_dirs"},
		{"log level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"output ext", func(c *config.Config) { c.Resize.Assets[0].OutputExt = ".avif" }, "output_ext"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestAssetsPathResolvesAgainstRoot(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.ProjectRoot = "/srv/site"
	if got := cfg.AssetsPath(); got != filepath.Join("/srv/site", "public", "assets") {
		t.Fatalf("unexpected assets path: %q", got)
	}
	cfg.Resize.AssetsDir = "/var/assets"
	if got := cfg.AssetsPath(); got != "/var/assets" {
		t.Fatalf("expected absolute assets dir to win, got %q", got)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if len(cfg.Resize.Assets) != 10 {
		t.Fatalf("sample should keep the built-in resize plan, got %d assets", len(cfg.Resize.Assets))
	}
}
