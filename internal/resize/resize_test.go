package resize

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"assetpipe/internal/config"
	"assetpipe/internal/logging"
	"assetpipe/internal/metadata"
	"assetpipe/internal/testsupport"
)

type stubExecutor struct {
	mu     sync.Mutex
	binary string
	args   [][]string
	lines  []string
	failOn string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.binary = binary
	s.args = append(s.args, append([]string(nil), args...))
	for _, line := range s.lines {
		onOutput(line)
	}
	if s.failOn != "" && strings.HasSuffix(args[len(args)-1], s.failOn) {
		return errors.New("exit status 1")
	}
	return nil
}

func TestPlanMatchesDefaultAssets(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	assets := cfg.AssetsPath()
	testsupport.WriteFile(t, filepath.Join(assets, "hero-bg.webp"), []byte("x"))

	jobs := Plan(cfg)
	if len(jobs) != 10 {
		t.Fatalf("expected 10 jobs, got %d", len(jobs))
	}
	var hero, logo, evento *Job
	for i := range jobs {
		switch filepath.Base(jobs[i].Source) {
		case "hero-bg.webp":
			hero = &jobs[i]
		case "logo-reflex-som.png":
			logo = &jobs[i]
		case "evento.webp":
			evento = &jobs[i]
		}
	}
	if hero == nil || logo == nil || evento == nil {
		t.Fatal("expected hero, logo and evento jobs")
	}
	if hero.Missing || !logo.Missing {
		t.Fatalf("unexpected missing flags: hero=%v logo=%v", hero.Missing, logo.Missing)
	}
	wantHero := []Output{
		{Path: filepath.Join(assets, "hero-bg-small.webp"), Width: 600, Quality: 65},
		{Path: filepath.Join(assets, "hero-bg-medium.webp"), Width: 1024, Quality: 65},
	}
	if !slices.Equal(hero.Outputs, wantHero) {
		t.Fatalf("hero outputs = %+v", hero.Outputs)
	}
	if len(logo.Outputs) != 1 || logo.Outputs[0].Path != filepath.Join(assets, "logo-reflex-som.webp") || logo.Outputs[0].Width != 185 {
		t.Fatalf("logo outputs = %+v", logo.Outputs)
	}
	widths := []int{}
	for _, out := range evento.Outputs {
		widths = append(widths, out.Width)
		if out.Quality != 60 {
			t.Fatalf("evento quality = %d", out.Quality)
		}
	}
	if !slices.Equal(widths, []int{400, 600, 800}) {
		t.Fatalf("evento widths = %v", widths)
	}
	if evento.Outputs[1].Path != filepath.Join(assets, "evento-large.webp") {
		t.Fatalf("unexpected large output %s", evento.Outputs[1].Path)
	}
}

func TestRunInvokesFFmpegPerOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Resize.FFmpegBinary = "/opt/ffmpeg"
	assets := cfg.AssetsPath()
	testsupport.WriteFile(t, filepath.Join(assets, "hero-bg.webp"), []byte("x"))

	stub := &stubExecutor{}
	r, err := New(cfg, logging.NewNop(), WithExecutor(stub))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	summary, err := r.Run(context.Background(), Plan(cfg))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Missing) != 9 {
		t.Fatalf("expected 9 missing sources, got %d", len(summary.Missing))
	}
	if summary.Produced() != 2 || summary.Failed() != 0 {
		t.Fatalf("produced=%d failed=%d", summary.Produced(), summary.Failed())
	}
	if stub.binary != "/opt/ffmpeg" {
		t.Fatalf("binary = %q", stub.binary)
	}
	want := []string{
		"-y",
		"-i", filepath.Join(assets, "hero-bg.webp"),
		"-vf", "scale=600:-1",
		"-c:v", "libwebp",
		"-quality", "65",
		filepath.Join(assets, "hero-bg-small.webp"),
	}
	if !slices.Equal(stub.args[0], want) {
		t.Fatalf("args = %v\nwant %v", stub.args[0], want)
	}
}

func TestRunRecordsFailureAndContinues(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, filepath.Join(cfg.AssetsPath(), "evento.webp"), []byte("x"))

	stub := &stubExecutor{failOn: "evento-large.webp", lines: []string{"Invalid data found"}}
	r, err := New(cfg, logging.NewNop(), WithExecutor(stub))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	summary, err := r.Run(context.Background(), Plan(cfg))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(stub.args) != 3 {
		t.Fatalf("expected 3 invocations, got %d", len(stub.args))
	}
	if summary.Failed() != 1 || summary.Produced() != 2 {
		t.Fatalf("produced=%d failed=%d", summary.Produced(), summary.Failed())
	}
	var failed Result
	for _, res := range summary.Results {
		if res.Error != "" {
			failed = res
		}
	}
	if !strings.Contains(failed.Error, "Invalid data found") {
		t.Fatalf("error should carry ffmpeg output, got %q", failed.Error)
	}
}

func TestBuiltinEngineWritesScaledWebP(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithResizeEngine("builtin"),
		testsupport.WithResizeAssets(config.ResizeAsset{
			Source:    "banner.png",
			OutputExt: ".webp",
			Quality:   60,
			Variants:  []config.Variant{{Suffix: "-small", Width: 40}},
		}))
	testsupport.WriteFile(t, filepath.Join(cfg.AssetsPath(), "banner.png"), testsupport.EncodePNG(t, testsupport.OpaqueImage(100, 50)))

	r, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	summary, err := r.Run(context.Background(), Plan(cfg))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Produced() != 1 {
		t.Fatalf("expected one output, got %+v", summary.Results)
	}
	doc, err := metadata.Read(filepath.Join(cfg.AssetsPath(), "banner-small.webp"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if doc.Format != "webp" || doc.Width != 40 || doc.Height != 20 {
		t.Fatalf("unexpected output %+v", doc)
	}
}

func TestNewRejectsUnknownEngine(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithResizeEngine("vips"))
	if _, err := New(cfg, logging.NewNop()); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}
