package deps

import "strings"

// CheckFFmpeg resolves the ffmpeg binary used by the resize engine.
// When optional is set the builtin engine is active and ffmpeg is not needed.
func CheckFFmpeg(binary string, optional bool) Status {
	req := Requirement{
		Name:        "FFmpeg",
		Command:     strings.TrimSpace(binary),
		Description: "Used by the ffmpeg resize engine",
		Optional:    optional,
	}
	if req.Command == "" {
		req.Command = "ffmpeg"
	}
	if optional {
		req.Description = "Not needed while resize.engine = builtin"
	}
	return CheckBinaries([]Requirement{req})[0]
}
