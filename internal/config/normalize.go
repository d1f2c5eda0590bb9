package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeStrip()
	c.normalizeResize()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	root := strings.TrimSpace(c.Paths.ProjectRoot)
	if root == "" || root == defaultProjectRoot {
		if value, ok := os.LookupEnv("ASSETPIPE_ROOT"); ok && strings.TrimSpace(value) != "" {
			root = strings.TrimSpace(value)
		}
	}
	if root == "" {
		root = defaultProjectRoot
	}
	var err error
	if c.Paths.ProjectRoot, err = expandPath(root); err != nil {
		return fmt.Errorf("paths.project_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	if len(c.Scan.ImageExtensions) == 0 {
		c.Scan.ImageExtensions = defaultImageExtensions()
	}
	c.Scan.ImageExtensions = uniqueTokens(c.Scan.ImageExtensions, func(v string) string {
		return dotted(strings.ToLower(v))
	})

	if len(c.Scan.ExcludeDirs) == 0 {
		c.Scan.ExcludeDirs = defaultExcludeDirs()
	}
	c.Scan.ExcludeDirs = uniqueTokens(c.Scan.ExcludeDirs, func(v string) string {
		return strings.Trim(v, `/\`)
	})

	if len(c.Scan.Keywords) == 0 {
		c.Scan.Keywords = defaultKeywords()
	}
	c.Scan.Keywords = uniqueTokens(c.Scan.Keywords, strings.ToLower)

	c.Scan.BackupSuffix = strings.TrimSpace(c.Scan.BackupSuffix)
	if c.Scan.BackupSuffix == "" {
		c.Scan.BackupSuffix = defaultBackupSuffix
	}
	c.Scan.BackupSuffix = dotted(c.Scan.BackupSuffix)
}

func (c *Config) normalizeStrip() {
	c.Strip.PNGCompression = strings.ToLower(strings.TrimSpace(c.Strip.PNGCompression))
	if c.Strip.PNGCompression == "" {
		c.Strip.PNGCompression = defaultPNGCompression
	}
}

func (c *Config) normalizeResize() {
	c.Resize.AssetsDir = strings.TrimSpace(c.Resize.AssetsDir)
	if c.Resize.AssetsDir == "" {
		c.Resize.AssetsDir = defaultAssetsDir
	}
	c.Resize.Engine = strings.ToLower(strings.TrimSpace(c.Resize.Engine))
	if c.Resize.Engine == "" {
		c.Resize.Engine = defaultResizeEngine
	}
	c.Resize.FFmpegBinary = strings.TrimSpace(c.Resize.FFmpegBinary)
	if c.Resize.FFmpegBinary == "" || c.Resize.FFmpegBinary == defaultFFmpegBinary {
		if value, ok := os.LookupEnv("ASSETPIPE_FFMPEG"); ok && strings.TrimSpace(value) != "" {
			c.Resize.FFmpegBinary = strings.TrimSpace(value)
		}
	}
	if c.Resize.FFmpegBinary == "" {
		c.Resize.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Resize.TimeoutSeconds <= 0 {
		c.Resize.TimeoutSeconds = defaultResizeTimeout
	}
	if len(c.Resize.Assets) == 0 {
		c.Resize.Assets = defaultResizeAssets()
	}
	for i := range c.Resize.Assets {
		asset := &c.Resize.Assets[i]
		asset.Source = strings.TrimSpace(asset.Source)
		asset.OutputExt = strings.ToLower(strings.TrimSpace(asset.OutputExt))
		if asset.OutputExt == "" {
			asset.OutputExt = defaultOutputExt
		}
		asset.OutputExt = dotted(asset.OutputExt)
		for j := range asset.Variants {
			asset.Variants[j].Suffix = strings.TrimSpace(asset.Variants[j].Suffix)
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" || c.Logging.Level == defaultLogLevel {
		if value, ok := os.LookupEnv("ASSETPIPE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
			c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func uniqueTokens(values []string, transform func(string) string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := transform(strings.TrimSpace(value))
		if normalized == "" || normalized == "." {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

func dotted(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
