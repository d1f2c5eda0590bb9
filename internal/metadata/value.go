package metadata

import "assetpipe/internal/textutil"

// Value is an info dictionary value: TextValue or BinaryValue.
type Value interface {
	// Text returns the value as a string. Binary values are decoded as UTF-8
	// with invalid sequences dropped.
	Text() string
	isValue()
}

// TextValue is metadata stored as text by the container.
type TextValue string

func (v TextValue) Text() string { return string(v) }
func (TextValue) isValue()       {}

// BinaryValue is an opaque metadata blob (ICC profile, raw EXIF, XMP packet).
type BinaryValue []byte

func (v BinaryValue) Text() string { return textutil.DecodeBytes(v) }
func (BinaryValue) isValue()       {}

// Entry is one key of the info dictionary.
type Entry struct {
	Key   string
	Value Value
}

// Info is the ordered container info dictionary. Keys are unique; a repeated
// key keeps its first position and its last value.
type Info []Entry

// Get returns the value stored under key.
func (in Info) Get(key string) (Value, bool) {
	for _, e := range in {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

func (in *Info) set(key string, v Value) {
	for i := range *in {
		if (*in)[i].Key == key {
			(*in)[i].Value = v
			return
		}
	}
	*in = append(*in, Entry{Key: key, Value: v})
}

// Tag is one decoded EXIF field.
type Tag struct {
	Name  string
	Value string
}
