package analysis

import (
	"fmt"

	"github.com/agrovista/lactoprofile/internal/taxonomy"
)

// ratioTolerance is how far group ratios may drift from 100% before the
// diet is rejected; extraction rounding and dropped rows account for a few
// points.
const ratioTolerance = 5.0

// ValidateRatios checks a by-group composition: all ratios non-negative and
// totalling close to 100%.
func ValidateRatios(ratios map[taxonomy.Group]float64) error {
	var total float64
	for group, ratio := range ratios {
		if ratio < 0 {
			return fmt.Errorf("group %s has negative ratio %.1f", group, ratio)
		}
		total += ratio
	}
	if diff := total - 100.0; diff > ratioTolerance || diff < -ratioTolerance {
		return fmt.Errorf("diet ratios sum to %.1f%%, expected close to 100%%", total)
	}
	return nil
}

// RangeStatus describes how one acid sits against its range.
type RangeStatus string

const (
	StatusInRange RangeStatus = "in_range"
	StatusBelow   RangeStatus = "below"
	StatusAbove   RangeStatus = "above"
	StatusNoRange RangeStatus = "no_range"
)

// AcidCheck is the assessment of one predicted acid value.
type AcidCheck struct {
	Acid   Acid        `json:"acid"`
	Value  float64     `json:"value"`
	Target *Range      `json:"target,omitempty"`
	Status RangeStatus `json:"status"`
}

// CheckRanges evaluates a predicted profile against the target ranges.
// Acids without a target are reported with StatusNoRange so the full
// profile stays visible to callers.
func CheckRanges(profile map[Acid]float64) []AcidCheck {
	checks := make([]AcidCheck, 0, len(FattyAcids))
	for _, acid := range FattyAcids {
		value, ok := profile[acid]
		if !ok {
			continue
		}
		check := AcidCheck{Acid: acid, Value: value, Status: StatusNoRange}
		if target, ok := TargetRanges[acid]; ok {
			t := target
			check.Target = &t
			switch {
			case value < target.Min:
				check.Status = StatusBelow
			case value > target.Max:
				check.Status = StatusAbove
			default:
				check.Status = StatusInRange
			}
		}
		checks = append(checks, check)
	}
	return checks
}
