package model

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonAlphanumericRe matches runs of anything that is not a lowercase ASCII
// letter or digit.
var nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a name into a URL-safe slug.
//
//	"Sprint 1"       → "sprint-1"
//	"  Doing / QA  " → "doing-qa"
//	"Café Ops"       → "cafe-ops"
//	"--Todo--"       → "todo"
func Slugify(name string) string {
	s := foldToASCII(name)
	s = strings.ToLower(s)
	s = nonAlphanumericRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// foldToASCII strips combining marks after canonical decomposition, so
// accented letters reduce to their base letter.
func foldToASCII(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
