// Package scrub runs a metadata scan over a project tree.
//
// In check mode it only reports which images carry AI or provenance markers.
// In strip mode it also rewrites each flagged image and re-runs detection on
// the result so the report distinguishes files that are now clean from files
// that still carry markers or could not be rewritten. Files are processed one
// at a time; every per-file failure lands in the Report instead of aborting
// the run.
package scrub
