package metadata

import (
	"bytes"
	"cmp"
	"slices"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"assetpipe/internal/textutil"
)

type tagCollector struct {
	tags []Tag
}

func (c *tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	c.tags = append(c.tags, Tag{Name: string(name), Value: tagString(tag)})
	return nil
}

func tagString(tag *tiff.Tag) string {
	switch tag.Format() {
	case tiff.StringVal:
		if s, err := tag.StringVal(); err == nil {
			return strings.TrimRight(s, "\x00")
		}
	case tiff.UndefVal:
		return strings.TrimRight(textutil.DecodeBytes(tag.Val), "\x00")
	}
	return tag.String()
}

// decodeEXIF returns the named tags stored in a raw EXIF blob, sorted by
// name. Blobs goexif cannot parse yield no tags; the raw blob still reaches
// the info dictionary.
func decodeEXIF(raw []byte) []Tag {
	raw = bytes.TrimPrefix(raw, exifHeader)
	if len(raw) < 8 {
		return nil
	}
	x, err := exif.Decode(bytes.NewReader(raw))
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return nil
	}
	var c tagCollector
	if err := x.Walk(&c); err != nil {
		return nil
	}
	slices.SortFunc(c.tags, func(a, b Tag) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return c.tags
}
