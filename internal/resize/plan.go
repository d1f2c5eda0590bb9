package resize

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"assetpipe/internal/config"
)

// Output is one resized file to produce.
type Output struct {
	Path    string `json:"path" yaml:"path"`
	Width   int    `json:"width" yaml:"width"`
	Quality int    `json:"quality" yaml:"quality"`
}

// Job groups the outputs produced from one source asset.
type Job struct {
	Source  string   `json:"source" yaml:"source"`
	Missing bool     `json:"missing" yaml:"missing"`
	Outputs []Output `json:"outputs" yaml:"outputs"`
}

// Plan expands the configured assets into jobs rooted at the assets directory.
func Plan(cfg *config.Config) []Job {
	dir := cfg.AssetsPath()
	jobs := make([]Job, 0, len(cfg.Resize.Assets))
	for _, asset := range cfg.Resize.Assets {
		source := filepath.Join(dir, asset.Source)
		stem := strings.TrimSuffix(asset.Source, filepath.Ext(asset.Source))
		job := Job{Source: source, Missing: !exists(source)}
		for _, variant := range asset.Variants {
			job.Outputs = append(job.Outputs, Output{
				Path:    filepath.Join(dir, stem+variant.Suffix+asset.OutputExt),
				Width:   variant.Width,
				Quality: asset.Quality,
			})
		}
		jobs = append(jobs, job)
	}
	return jobs
}

func exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return !errors.Is(err, os.ErrNotExist)
	}
	return !info.IsDir()
}
