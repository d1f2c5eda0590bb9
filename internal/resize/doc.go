// Package resize produces responsive WebP variants for a fixed list of site
// assets.
//
// Plan expands the configured asset list into concrete output paths under the
// assets directory. Run executes the plan with either the ffmpeg engine, which
// shells out through an injectable Executor with a per-invocation timeout, or
// the builtin engine, which resamples with Lanczos3 and encodes WebP in
// process. Missing sources are warnings; a failed output is recorded and the
// run moves on.
package resize
