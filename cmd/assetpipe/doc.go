// Package main hosts the assetpipe CLI entrypoint and command graph.
//
// The Cobra-based command tree wires configuration, logging, and the internal
// scan, strip, and resize packages into terminal commands. `assetpipe strip`
// is the gate used by pre-commit hooks: it exits 1 whenever flagged images
// remain. Keep this package lean: behaviour lives in internal packages and is
// only rendered here.
package main
