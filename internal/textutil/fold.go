package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// Lower returns the case-folded form of value.
func Lower(value string) string {
	return lower.String(value)
}

// DecodeBytes interprets raw metadata bytes as UTF-8, dropping invalid sequences.
func DecodeBytes(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), "")
}

// Compact removes every whitespace rune from value.
func Compact(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}

// Fold lowercases and compacts value.
func Fold(value string) string {
	return Compact(Lower(value))
}

// ContainsAny reports whether haystack contains any of the needles.
// Empty needles never match.
func ContainsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if needle == "" {
			continue
		}
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
