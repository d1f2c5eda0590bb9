// Package logs reads assetpipe.log for `assetpipe logs`.
//
// Reads are bounded: a negative offset returns the last N lines, a
// non-negative offset resumes where the previous read stopped, and follow
// mode polls until new lines arrive or the wait elapses. Lines can be
// narrowed to a single run by its correlation ID.
package logs
