// Package config loads, normalizes, and validates assetpipe configuration data.
//
// It supplies repository defaults (the image extension set, the exclusion
// tokens, the provenance keyword list, and the responsive resize plan),
// expands user paths including tilde shortcuts, reads TOML files, and honours
// environment fallbacks such as ASSETPIPE_ROOT. A project .env file is read
// first so those fallbacks can live next to the site sources.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, lowercase token sets, and clear validation errors.
package config
