// Package preflight provides readiness checks for the filesystem paths and
// external binaries assetpipe depends on.
//
// The CLI "assetpipe status" command runs these checks to display health.
// Directory checks are skipped for paths the configuration leaves empty.
package preflight
