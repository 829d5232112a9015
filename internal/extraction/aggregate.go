package extraction

import "github.com/agrovista/lactoprofile/internal/taxonomy"

// AggregateByCode sums raw ingredient percentages into canonical-code
// buckets. The result is sparse: only codes with matched mass appear.
// Unresolved labels carry no code and are excluded here; they still count
// toward the "other" group in AggregateByGroup, so the two views disagree
// by exactly the unresolved mass. That asymmetry is intentional: the code
// view feeds the ingredient model, which has no slot for unknown feeds,
// while the group view must conserve the document's total mass for ratio
// validation.
func AggregateByCode(ingredients map[string]float64) map[string]float64 {
	out := make(map[string]float64)
	for name, percent := range ingredients {
		if c := Classify(name); c.Resolved() {
			out[c.Code] += percent
		}
	}
	return out
}

// AggregateByGroup sums raw ingredient percentages into the four macro
// groups. The result is dense: every group is present, zero-filled, so
// ratio validation never needs to special-case absent groups. Group totals
// sum to the input total.
func AggregateByGroup(ingredients map[string]float64) map[taxonomy.Group]float64 {
	out := make(map[taxonomy.Group]float64, len(taxonomy.Groups))
	for _, g := range taxonomy.Groups {
		out[g] = 0
	}
	for name, percent := range ingredients {
		out[Classify(name).Group] += percent
	}
	return out
}
