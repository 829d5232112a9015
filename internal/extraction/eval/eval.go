// Package eval measures the feed-label classifier against ground-truth
// fixtures. It exists to keep rule changes honest: every new exact phrase or
// cascade tweak reruns against the full labeled corpus, and per-rule
// breakdowns show which tier carried the result.
package eval

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/agrovista/lactoprofile/internal/extraction"
)

// Entry is one labeled example: the raw report text and the code it must
// resolve to. An empty code means the label must stay unresolved.
type Entry struct {
	Label string `json:"label"`
	Code  string `json:"code"`
}

// Mismatch records one wrong classification for the report.
type Mismatch struct {
	Label    string
	Expected string
	Got      string
	Rule     string
}

// Result aggregates classifier accuracy over one fixture set.
type Result struct {
	Fixture    string
	Total      int
	Correct    int
	Mismatches []Mismatch
	// ByRule counts correct classifications per rule tier, showing how
	// much work each tier actually does.
	ByRule map[string]int
}

// Accuracy is the fraction of entries classified correctly.
func (r *Result) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Evaluate runs the classifier over every entry.
func Evaluate(fixture string, entries []Entry) *Result {
	result := &Result{
		Fixture: fixture,
		Total:   len(entries),
		ByRule:  make(map[string]int),
	}
	for _, e := range entries {
		c := extraction.Classify(e.Label)
		if c.Code == e.Code {
			result.Correct++
			result.ByRule[c.Rule]++
			continue
		}
		result.Mismatches = append(result.Mismatches, Mismatch{
			Label:    e.Label,
			Expected: e.Code,
			Got:      c.Code,
			Rule:     c.Rule,
		})
	}
	return result
}

// WriteReport prints a human-readable summary.
func WriteReport(w io.Writer, r *Result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "fixture\t%s\n", r.Fixture)
	fmt.Fprintf(tw, "accuracy\t%.1f%% (%d/%d)\n", r.Accuracy()*100, r.Correct, r.Total)

	rules := make([]string, 0, len(r.ByRule))
	for rule := range r.ByRule {
		rules = append(rules, rule)
	}
	sort.Strings(rules)
	for _, rule := range rules {
		fmt.Fprintf(tw, "  rule %s\t%d\n", rule, r.ByRule[rule])
	}
	for _, m := range r.Mismatches {
		fmt.Fprintf(tw, "  MISS %q\texpected %q got %q via %s\n", m.Label, m.Expected, m.Got, m.Rule)
	}
	tw.Flush()
}
