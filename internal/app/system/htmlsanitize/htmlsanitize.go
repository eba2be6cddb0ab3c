// Package htmlsanitize strips markup from user-supplied text before it is
// stored: post captions, group and event names and descriptions.
package htmlsanitize

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag. The policy is safe for concurrent use.
var strict = bluemonday.StrictPolicy()

// IsPlainText reports whether s has no tag-like content.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}

// PlainText returns s with all markup removed and surrounding space trimmed.
// Entities are decoded, so "Tom &amp; Jerry" is stored as "Tom & Jerry".
func PlainText(s string) string {
	if IsPlainText(s) {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Clamp cuts s to at most max runes.
func Clamp(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
