package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"assetpipe/internal/config"
	"assetpipe/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	root       string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	homeDir := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("ASSETPIPE_ROOT", "")

	cfg := testsupport.NewConfig(t, opts...)
	configPath := filepath.Join(homeDir, ".config", "assetpipe", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, root: cfg.Paths.ProjectRoot}
}

// seedExampleTree writes a clean PNG, a JPEG whose EXIF Software tag is
// "Google", and a flagged WebP under an excluded cache directory.
func (env *cliTestEnv) seedExampleTree(t *testing.T) {
	t.Helper()
	testsupport.WriteFile(t, filepath.Join(env.root, "a.png"), testsupport.EncodePNG(t, testsupport.OpaqueImage(12, 9)))
	testsupport.WriteFile(t, filepath.Join(env.root, "b.jpg"), testsupport.EncodeJPEG(t, testsupport.OpaqueImage(16, 12), testsupport.SoftwareEXIF("Google")))
	testsupport.WriteFile(t, filepath.Join(env.root, "cache", "c.webp"), testsupport.EncodeWebP(t, testsupport.OpaqueImage(8, 8),
		testsupport.RIFFChunk{FourCC: "XMP ", Data: []byte("Credit: Edited with Google AI")}))
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	testsupport.WriteFile(t, path, data)
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireExitCode(t *testing.T, err error, want int) {
	t.Helper()
	if want == 0 {
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		return
	}
	var exit *exitError
	if !errors.As(err, &exit) {
		t.Fatalf("expected exit status %d, got %v", want, err)
	}
	if exit.code != want {
		t.Fatalf("exit status = %d, want %d", exit.code, want)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
