// Package detect flags images whose metadata carries AI or provenance markers.
package detect

import (
	"strings"

	"assetpipe/internal/metadata"
	"assetpipe/internal/textutil"
)

// Marker messages for info dictionary hits, in priority order.
const (
	DetailDigitalSourceType = "Contains DigitalSourceType (AI composite)"
	DetailGoogleCredit      = "Contains 'Edited with Google AI'"
	DetailGeneric           = "Contains Google/AI metadata"

	FieldReadError = "Error reading"
)

// Marker records where a suspicious value was found.
type Marker struct {
	Field  string `json:"field" yaml:"field"`
	Detail string `json:"detail" yaml:"detail"`
}

func (m Marker) String() string {
	return m.Field + ": " + m.Detail
}

// Detector matches metadata against a keyword set. Its zero value detects
// nothing; use New.
type Detector struct {
	keywords        []string
	compactKeywords []string
	read            func(string) (*metadata.Document, error)
}

// New returns a detector for the given keywords. Keywords are case folded.
func New(keywords []string) *Detector {
	d := &Detector{read: metadata.Read}
	for _, kw := range keywords {
		lower := textutil.Lower(strings.TrimSpace(kw))
		if lower == "" {
			continue
		}
		d.keywords = append(d.keywords, lower)
		d.compactKeywords = append(d.compactKeywords, textutil.Compact(lower))
	}
	return d
}

// Detect returns the markers found in the image at path. A file that cannot
// be decoded yields exactly one read-error marker.
func (d *Detector) Detect(path string) []Marker {
	doc, err := d.read(path)
	if err != nil {
		return []Marker{{Field: FieldReadError, Detail: err.Error()}}
	}
	return d.Inspect(doc)
}

// Inspect evaluates an already-read document.
func (d *Detector) Inspect(doc *metadata.Document) []Marker {
	if doc == nil {
		return nil
	}
	var markers []Marker
	for _, tag := range doc.Tags {
		if textutil.ContainsAny(textutil.Lower(tag.Value), d.keywords) {
			markers = append(markers, Marker{Field: tag.Name, Detail: tag.Value})
		}
	}
	for _, entry := range doc.Info {
		if detail, ok := d.classify(entry.Value); ok {
			markers = append(markers, Marker{Field: entry.Key, Detail: detail})
		}
	}
	return markers
}

func (d *Detector) classify(v metadata.Value) (string, bool) {
	if v == nil {
		return "", false
	}
	compact := textutil.Fold(v.Text())
	if !textutil.ContainsAny(compact, d.compactKeywords) {
		return "", false
	}
	switch {
	case strings.Contains(compact, "digitalsourcetype"):
		return DetailDigitalSourceType, true
	case strings.Contains(compact, "credit") && strings.Contains(compact, "google"):
		return DetailGoogleCredit, true
	default:
		return DetailGeneric, true
	}
}
