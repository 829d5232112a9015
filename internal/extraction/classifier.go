package extraction

import (
	"regexp"
	"strings"

	"github.com/agrovista/lactoprofile/internal/taxonomy"
)

// Classification is the result of resolving a free-text ingredient label.
type Classification struct {
	Group taxonomy.Group
	Code  string // empty when no rule matched
	Label string // canonical taxonomy label, or "unresolved"
	Rule  string // "exact", "combined-feed", "batch-mask", "prefix", "ground-corn", "chalk", "corn", "keyword", "fallback", "none"
}

// Resolved reports whether the label mapped to a canonical code.
func (c Classification) Resolved() bool {
	return c.Code != ""
}

// Go's \b is ASCII-only, so Cyrillic word boundaries are spelled out as
// letter-class alternations.
var (
	// strictMask is the internal batch-numbering convention
	// NNNN.NN.NN.NN.N.NN; the two middle pairs form the taxonomy prefix.
	strictMask = regexp.MustCompile(`\d{4}\.\d{2}\.(\d{2})\.(\d{2})\.\d{1}\.\d{2}`)
	anyPair    = regexp.MustCompile(`\d{2}\.\d{2}`)

	// Combined-feed shorthand: a standalone "кк" or "кк" followed by a
	// batch number ("кк10", "кк №10").
	ccAlone  = regexp.MustCompile(`(^|[^\p{L}])кк($|[^\p{L}\d])`)
	ccNumber = regexp.MustCompile(`(^|[^\p{L}])кк[\s№]*\d`)

	// "мелк" in any inflection (fine-ground: "мелк.", "мелкий", "мелкая")
	// vs the standalone word "мел" (chalk). The two share a prefix, which
	// is the single worst ambiguity in incoming labels.
	melk     = regexp.MustCompile(`(^|[^\p{L}])мелк`)
	melAlone = regexp.MustCompile(`(^|[^\p{L}])мел([^\p{L}]|$)`)

	// Corn-preparation shorthands seen in handwritten batch labels.
	silageAbbr  = regexp.MustCompile(`(^|[^\p{L}])с-([ )]|$)`)
	haylageAbbr = regexp.MustCompile(`(^|[^\p{L}])сж([^\p{L}]|$)`)
	earCornAbbr = regexp.MustCompile(`(^|[^\p{L}])к-ж([^\p{L}]|$)`)
)

type exactRule struct {
	phrase string // matched as substring of the normalized label
	code   string
}

// exactRules is the first classifier tier: fixed phrases, most specific
// first. Order is contract — later entries must not shadow earlier ones.
// The tail contains literal batch strings that defeat every generic rule.
var exactRules = []exactRule{
	{"патока свекловичная", "04"},
	{"меласса", "04"},
	{"шрот соевый", "05"},
	{"жир защищ", "07"},
	{"жом свекловичный", "15"},
	{"шрот рапсовый", "20"},
	{"жмых рапсовый", "30"},
	{"жмых льняной", "23"},
	{"премикс дойный", "31"},
	{"поташ", "43"},
	{"концентраты", "44"},
	{"кальций пропионат", "45"},
	{"соевая оболочка", "27"},
	{"дробина сухая", "28"},
	{"шрот подсолнечный", "37"},
	{"зерносмесь", "40"},
	{"фураж", "21"},
	{"рожь", "34"},
	{"тритикале", "02"},
	{"однолетние травы", "03"},
	{"лед энапкх", "35"},
	{"лед", "35"},
	{"пшеница", "25"},
	{"дрожжи", "26"},
	{"мел", "33"}, // suppressed when the label also contains "мелк" — see Classify
	{"соль", "39"},
	{"мелк.", "12"},
	{"сенаж 22.02.01.01.01.1.24", "11"},
	{"сено люцерна лб 2025", "14"},
	{"кукуруза_плющ_9202.01.05.06", "01"},
	{"1603.02.15.04.1.24/301024", "08"},
	{"3645.02.01.01.02.24 /11.06.25", "11"},
	{"ккд10", "17"},
	{"премикс транзит б. 07.23", "31"},
	{"сода. энапкх", "32"},
	{"к-ж5701.05.07.1.23 бушовка", "19"},
}

type keywordRule struct {
	keyword string
	resolve func(s string) string
}

func fixed(code string) func(string) string {
	return func(string) string { return code }
}

// keywordRules is the generic-culture tier, evaluated after the corn
// cascade. Order is contract.
var keywordRules = []keywordRule{
	{"ячмень", fixed(taxonomy.CodeBarley)},
	{"люцерна", fixed(taxonomy.CodeAlfalfa)},
	{"клевер", fixed(taxonomy.CodeClover)},
	{"суданка", func(s string) string {
		if strings.Contains(s, "силос") {
			return taxonomy.CodeSudanSilage
		}
		return taxonomy.CodeSudanHaylage
	}},
	{"солома", fixed(taxonomy.CodeStraw)},
	{"сено", fixed(taxonomy.CodeHay)},
	{"фураж", fixed(taxonomy.CodeForage)},
	{"жир защищ", fixed(taxonomy.CodeFatProtected)},
}

// Classify resolves a free-text ingredient label to a canonical taxonomy
// entry. The tiers run in strict precedence order; the first match wins.
// A label matching no rule returns group "other" with an empty code.
func Classify(raw string) Classification {
	s := Normalize(raw)

	// 1. Exact phrases, most specific first. The bare word "мел" is
	// skipped when the label also says "мелк." (fine-ground, usually
	// corn) so the corn rules below can claim it.
	for _, r := range exactRules {
		if !strings.Contains(s, r.phrase) {
			continue
		}
		if r.phrase == "мел" && melk.MatchString(s) {
			continue
		}
		return resolved(r.code, "exact")
	}

	// 2. Combined feed in any of its shorthand spellings.
	if ccAlone.MatchString(s) || ccNumber.MatchString(s) ||
		strings.Contains(s, "комбиком") || strings.Contains(s, "кормосмесь") || strings.Contains(s, "комбикорм") {
		return resolved(taxonomy.CodeCombinedFeed, "combined-feed")
	}

	// 3. Strict batch mask: the two middle pairs index the taxonomy.
	if m := strictMask.FindStringSubmatch(s); m != nil {
		if code, ok := taxonomy.ByPrefix(m[1] + "." + m[2]); ok {
			return resolved(code, "batch-mask")
		}
	}

	// 4. Loose fallback: any bare NN.NN pair anywhere in the text.
	if pfx := anyPair.FindString(s); pfx != "" {
		if code, ok := taxonomy.ByPrefix(pfx); ok {
			return resolved(code, "prefix")
		}
	}

	// 5. "мелк." together with a corn mention is ground corn, never chalk.
	if melk.MatchString(s) && strings.Contains(s, "кукуруз") {
		return resolved(taxonomy.CodeCornDry, "ground-corn")
	}

	// 6. A standalone "мел" that survived the exact tier is chalk.
	if melAlone.MatchString(s) {
		return resolved(taxonomy.CodeChalk, "chalk")
	}

	// 7. Corn is ambiguous across six codes differing only by preparation;
	// disambiguate by context, defaulting to dry corn.
	if strings.Contains(s, "кукуруз") {
		return resolved(classifyCorn(s), "corn")
	}

	// 8. Generic cultures.
	for _, r := range keywordRules {
		if strings.Contains(s, r.keyword) {
			return resolved(r.resolve(s), "keyword")
		}
	}

	// 9. Silage/haylage with no culture named.
	if strings.Contains(s, "силос") {
		return resolved(taxonomy.CodeCornSilage, "fallback")
	}
	if strings.Contains(s, "сенаж") {
		return resolved(taxonomy.CodeHaylage, "fallback")
	}

	return Classification{
		Group: taxonomy.GroupOf(s),
		Label: "unresolved",
		Rule:  "none",
	}
}

// classifyCorn orders the corn-preparation sub-rules by priority: rolled,
// wet, ear corn, silage, haylage, fine-ground, dry.
func classifyCorn(s string) string {
	switch {
	case strings.Contains(s, "плющ"):
		return taxonomy.CodeCornRolled
	case strings.Contains(s, "влаж") || strings.Contains(s, "вл."):
		return taxonomy.CodeCornWet
	case strings.Contains(s, "корнаж") || earCornAbbr.MatchString(s):
		return taxonomy.CodeCornEar
	case strings.Contains(s, "силос") || silageAbbr.MatchString(s) || strings.Contains(s, "с-с"):
		return taxonomy.CodeCornSilage
	case strings.Contains(s, "сенаж") || strings.Contains(s, "с-ж") || haylageAbbr.MatchString(s):
		return taxonomy.CodeCornHaylage
	case strings.Contains(s, "мелк"):
		return taxonomy.CodeCornDry
	case strings.Contains(s, "сух"):
		return taxonomy.CodeCornDry
	default:
		return taxonomy.CodeCornDry
	}
}

func resolved(code, rule string) Classification {
	label := taxonomy.Label(code)
	return Classification{
		Group: taxonomy.GroupOf(label),
		Code:  code,
		Label: label,
		Rule:  rule,
	}
}
