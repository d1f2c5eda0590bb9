// Package textutil provides the text folding used when matching metadata
// values against keyword lists, plus filename token sanitization.
//
// Folding is Unicode aware: values are lowercased with golang.org/x/text/cases,
// invalid UTF-8 sequences are dropped, and the compact form removes every
// whitespace rune so "Google  AI" and "googleai" compare equal.
package textutil
