package analysis

import (
	"strings"
	"testing"

	"github.com/agrovista/lactoprofile/internal/taxonomy"
)

func TestValidateRatios(t *testing.T) {
	tests := []struct {
		name    string
		ratios  map[taxonomy.Group]float64
		wantErr bool
	}{
		{
			name: "exact hundred",
			ratios: map[taxonomy.Group]float64{
				taxonomy.GroupCorn:    40,
				taxonomy.GroupSoybean: 25,
				taxonomy.GroupAlfalfa: 20,
				taxonomy.GroupOther:   15,
			},
		},
		{
			name: "within tolerance low",
			ratios: map[taxonomy.Group]float64{
				taxonomy.GroupCorn:  50,
				taxonomy.GroupOther: 45,
			},
		},
		{
			name: "within tolerance high",
			ratios: map[taxonomy.Group]float64{
				taxonomy.GroupCorn:  55,
				taxonomy.GroupOther: 50,
			},
		},
		{
			name: "total too low",
			ratios: map[taxonomy.Group]float64{
				taxonomy.GroupCorn: 80,
			},
			wantErr: true,
		},
		{
			name: "total too high",
			ratios: map[taxonomy.Group]float64{
				taxonomy.GroupCorn:    60,
				taxonomy.GroupSoybean: 60,
			},
			wantErr: true,
		},
		{
			name: "negative ratio",
			ratios: map[taxonomy.Group]float64{
				taxonomy.GroupCorn:  105,
				taxonomy.GroupOther: -5,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRatios(tt.ratios)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRatios() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckRanges(t *testing.T) {
	profile := Profile([]float64{
		3.0, 2.0, 1.5, 2.5, 0.3, 1.0, // lauric below its 2-4 target
		10.0, 1.0, 40.0, 2.0, 10.0, // palmitic above its 25-35 target
		25.0, 3.0, 1.0, 0.1, 0.05,
	})

	checks := CheckRanges(profile)
	if len(checks) != len(FattyAcids) {
		t.Fatalf("expected %d checks, got %d", len(FattyAcids), len(checks))
	}

	byAcid := make(map[Acid]AcidCheck, len(checks))
	for _, c := range checks {
		byAcid[c.Acid] = c
	}

	if got := byAcid[AcidLauric].Status; got != StatusBelow {
		t.Errorf("lauric status = %s, want %s", got, StatusBelow)
	}
	if got := byAcid[AcidPalmitic].Status; got != StatusAbove {
		t.Errorf("palmitic status = %s, want %s", got, StatusAbove)
	}
	if got := byAcid[AcidStearic].Status; got != StatusInRange {
		t.Errorf("stearic status = %s, want %s", got, StatusInRange)
	}
	if got := byAcid["butyric"].Status; got != StatusNoRange {
		t.Errorf("butyric status = %s, want %s", got, StatusNoRange)
	}
	if byAcid[AcidLauric].Target == nil {
		t.Error("lauric check missing target range")
	}
	if byAcid["butyric"].Target != nil {
		t.Error("butyric check should have no target range")
	}
}

func TestRecommend(t *testing.T) {
	checks := []AcidCheck{
		{Acid: AcidLauric, Value: 1.0, Status: StatusBelow},
		{Acid: AcidPalmitic, Value: 40.0, Status: StatusAbove},
		{Acid: AcidStearic, Value: 10.0, Status: StatusInRange},
	}
	ratios := map[taxonomy.Group]float64{
		taxonomy.GroupCorn:    60,
		taxonomy.GroupSoybean: 35,
		taxonomy.GroupAlfalfa: 5,
	}

	recs := Recommend(checks, ratios)
	if len(recs) != 5 {
		t.Fatalf("expected 5 recommendations, got %d: %v", len(recs), recs)
	}

	wantSubstrings := []string{
		"Увеличьте содержание лауриновой",
		"Снизьте содержание пальмитиновой",
		"снижение доли кукурузы",
		"высокое содержание сои",
		"увеличение содержания люцерны",
	}
	for _, want := range wantSubstrings {
		found := false
		for _, rec := range recs {
			if strings.Contains(rec, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing recommendation containing %q", want)
		}
	}
}

func TestRecommendBalancedDiet(t *testing.T) {
	ratios := map[taxonomy.Group]float64{
		taxonomy.GroupCorn:    30,
		taxonomy.GroupSoybean: 20,
		taxonomy.GroupAlfalfa: 25,
		taxonomy.GroupOther:   25,
	}
	recs := Recommend(nil, ratios)
	if len(recs) != 0 {
		t.Errorf("expected no recommendations for balanced diet, got %v", recs)
	}
}

func TestProfileShortVector(t *testing.T) {
	profile := Profile([]float64{3.0, 2.0})
	if len(profile) != len(FattyAcids) {
		t.Fatalf("expected %d acids, got %d", len(FattyAcids), len(profile))
	}
	if profile["butyric"] != 3.0 {
		t.Errorf("butyric = %f, want 3.0", profile["butyric"])
	}
	if profile["behenic"] != 0 {
		t.Errorf("behenic = %f, want 0", profile["behenic"])
	}
}
