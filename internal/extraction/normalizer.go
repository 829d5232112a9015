// Package extraction turns feed-diet PDF reports into model-ready data: it
// reads ingredient and nutrient tables, classifies free-text Russian feed
// labels into the canonical taxonomy, and maps lab nutrient labels onto the
// fixed feature slots of the nutrient regression model.
package extraction

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// innerSpace matches runs of whitespace excluding newlines.
var innerSpace = regexp.MustCompile(`[^\S\r\n]+`)

// Normalize canonicalizes a raw label for pattern matching: NFC composition
// (OCR output often carries decomposed combining marks), lowercasing,
// backslash-to-slash, collapsing whitespace runs to single spaces, and
// trimming. Total and idempotent; empty input yields empty output.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, `\`, "/")
	s = strings.ReplaceAll(s, " ", " ")
	s = innerSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
