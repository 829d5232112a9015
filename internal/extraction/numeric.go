package extraction

import (
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

var numberPattern = regexp.MustCompile(`-?\d+\.\d+|-?\d+`)

// ParseNumeric extracts the first numeric token from a table cell. Report
// cells mix decimal commas, percent signs and non-breaking spaces, so the
// cell is cleaned before matching; the NBSP doubles as a thousands
// separator in some locales and is dropped outright. Returns false when the
// cell holds no number at all.
func ParseNumeric(cell string) (float64, bool) {
	s := strings.NewReplacer("\u00a0", "", "%", "", ",", ".").Replace(cell)
	m := numberPattern.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := cast.ToFloat64E(m)
	if err != nil {
		return 0, false
	}
	return v, true
}
