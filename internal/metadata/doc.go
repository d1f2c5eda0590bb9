// Package metadata opens image containers and exposes the metadata they carry.
//
// A Document holds two views of the same file: structured EXIF tags decoded
// with github.com/rwcarlsen/goexif, and the container info dictionary built
// from PNG text/ICC/eXIf chunks, JPEG APPn/COM segments, and WebP RIFF chunks.
// Info values are either TextValue or BinaryValue so callers never need to
// inspect dynamic types. Read also decodes the full pixel stream, so a
// corrupt or truncated file is reported as an error rather than half-read.
package metadata
