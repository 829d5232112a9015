package analysis

import (
	"fmt"

	"github.com/agrovista/lactoprofile/internal/taxonomy"
)

// genitiveNames are the Russian genitive forms used when a recommendation
// names an acid ("содержание лауриновой кислоты").
var genitiveNames = map[Acid]string{
	AcidLauric:    "лауриновой",
	AcidPalmitic:  "пальмитиновой",
	AcidStearic:   "стеариновой",
	AcidOleic:     "олеиновой",
	AcidLinoleic:  "линолевой",
	AcidLinolenic: "линоленовой",
}

// Recommend turns range checks and the diet's group composition into
// actionable feeding advice. Acids without a target range never produce a
// recommendation.
func Recommend(checks []AcidCheck, ratios map[taxonomy.Group]float64) []string {
	var recs []string
	for _, check := range checks {
		name, ok := genitiveNames[check.Acid]
		if !ok {
			name = string(check.Acid)
		}
		switch check.Status {
		case StatusBelow:
			recs = append(recs, fmt.Sprintf("Увеличьте содержание %s кислоты, изменив состав рациона", name))
		case StatusAbove:
			recs = append(recs, fmt.Sprintf("Снизьте содержание %s кислоты, изменив состав рациона", name))
		}
	}
	if ratios[taxonomy.GroupCorn] > 50 {
		recs = append(recs, "Рассмотрите снижение доли кукурузы - высокое содержание может повлиять на профиль жирных кислот")
	}
	if ratios[taxonomy.GroupSoybean] > 30 {
		recs = append(recs, "Обнаружено высокое содержание сои - следите за потенциальным влиянием на состав молока")
	}
	if ratios[taxonomy.GroupAlfalfa] < 10 {
		recs = append(recs, "Рассмотрите увеличение содержания люцерны для лучшего баланса кормов")
	}
	return recs
}
