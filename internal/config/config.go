package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ProjectRoot string `toml:"project_root"`
	LogDir      string `toml:"log_dir"`
	StateDir    string `toml:"state_dir"`
}

// Scan contains the walker and detector settings.
type Scan struct {
	ImageExtensions []string `toml:"image_extensions"`
	ExcludeDirs     []string `toml:"exclude_dirs"`
	BackupSuffix    string   `toml:"backup_suffix"`
	Keywords        []string `toml:"keywords"`
}

// Strip contains re-encode settings used when rewriting flagged images.
type Strip struct {
	JPEGQuality    int    `toml:"jpeg_quality"`
	WebPQuality    int    `toml:"webp_quality"`
	PNGCompression string `toml:"png_compression"`
}

// Variant is one responsive output derived from a resize source.
type Variant struct {
	Suffix string `toml:"suffix"`
	Width  int    `toml:"width"`
}

// ResizeAsset describes a source image and the variants generated from it.
type ResizeAsset struct {
	Source    string    `toml:"source"`
	OutputExt string    `toml:"output_ext"`
	Quality   int       `toml:"quality"`
	Variants  []Variant `toml:"variants"`
}

// Resize contains configuration for the responsive image generator.
type Resize struct {
	AssetsDir      string        `toml:"assets_dir"`
	Engine         string        `toml:"engine"`
	FFmpegBinary   string        `toml:"ffmpeg_binary"`
	TimeoutSeconds int           `toml:"timeout_seconds"`
	Assets         []ResizeAsset `toml:"assets"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for assetpipe.
//
// Configuration sections by subsystem:
//   - Paths: project root plus log and lock directories
//   - Scan: extension filter, exclusion tokens, provenance keywords
//   - Strip: encoder settings for rewritten images
//   - Resize: responsive variant plan and transcoding engine
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Scan    Scan    `toml:"scan"`
	Strip   Strip   `toml:"strip"`
	Resize  Resize  `toml:"resize"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/assetpipe/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	// List values are replaced wholesale by the file; normalize restores
	// the defaults for any list the file leaves out.
	cfg.clearLists()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadDotEnv reads KEY=VALUE pairs from a project .env file without
// overriding variables already present in the environment.
func loadDotEnv(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if info.IsDir() {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/assetpipe/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("assetpipe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and state directories. The project root
// is never created: scanning a missing tree is a caller error.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used by the resize engine.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Resize.FFmpegBinary); bin != "" {
		return bin
	}
	return defaultFFmpegBinary
}

// AssetsPath returns the resize assets directory. Relative values are
// resolved against the project root.
func (c *Config) AssetsPath() string {
	dir := c.Resize.AssetsDir
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Paths.ProjectRoot, dir)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
