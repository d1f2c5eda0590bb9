package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateStrip(); err != nil {
		return err
	}
	if err := c.validateResize(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScan() error {
	if len(c.Scan.ImageExtensions) == 0 {
		return errors.New("scan.image_extensions must include at least one extension")
	}
	if len(c.Scan.Keywords) == 0 {
		return errors.New("scan.keywords must include at least one keyword")
	}
	for _, dir := range c.Scan.ExcludeDirs {
		if strings.ContainsAny(dir, `/\`) {
			return fmt.Errorf("scan.exclude_dirs: %q must be a single directory name", dir)
		}
	}
	return nil
}

func (c *Config) validateStrip() error {
	if err := ensureQuality(map[string]int{
		"strip.jpeg_quality": c.Strip.JPEGQuality,
		"strip.webp_quality": c.Strip.WebPQuality,
	}); err != nil {
		return err
	}
	switch c.Strip.PNGCompression {
	case "best", "default", "fast", "none":
	default:
		return fmt.Errorf("strip.png_compression: unsupported value %q (use best, default, fast, or none)", c.Strip.PNGCompression)
	}
	return nil
}

func (c *Config) validateResize() error {
	switch c.Resize.Engine {
	case "ffmpeg", "builtin":
	default:
		return fmt.Errorf("resize.engine: unsupported value %q (use ffmpeg or builtin)", c.Resize.Engine)
	}
	if c.Resize.TimeoutSeconds <= 0 {
		return errors.New("resize.timeout_seconds must be positive")
	}
	for i, asset := range c.Resize.Assets {
		if asset.Source == "" {
			return fmt.Errorf("resize.assets[%d].source must be set", i)
		}
		if err := ensureQuality(map[string]int{
			fmt.Sprintf("resize.assets[%d].quality", i): asset.Quality,
		}); err != nil {
			return err
		}
		if asset.OutputExt != ".webp" {
			return fmt.Errorf("resize.assets[%d].output_ext: unsupported value %q (only .webp is produced)", i, asset.OutputExt)
		}
		if len(asset.Variants) == 0 {
			return fmt.Errorf("resize.assets[%d].variants must include at least one variant", i)
		}
		for j, variant := range asset.Variants {
			if variant.Width <= 0 {
				return fmt.Errorf("resize.assets[%d].variants[%d].width must be positive", i, j)
			}
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func ensureQuality(values map[string]int) error {
	for key, value := range values {
		if value < 1 || value > 100 {
			return fmt.Errorf("%s must be between 1 and 100", key)
		}
	}
	return nil
}
