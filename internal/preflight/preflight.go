package preflight

import (
	"assetpipe/internal/config"
	"assetpipe/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("Project root", cfg.Paths.ProjectRoot)}

	// Assets only matter when a resize plan exists.
	if len(cfg.Resize.Assets) > 0 {
		results = append(results, CheckDirectoryAccess("Assets directory", cfg.AssetsPath()))
	}
	if cfg.Paths.StateDir != "" {
		results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	return results
}

// CheckSystemDeps evaluates the external binaries for the given config.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	if cfg == nil {
		return nil
	}
	return []deps.Status{deps.CheckFFmpeg(cfg.FFmpegBinary(), cfg.Resize.Engine == "builtin")}
}
