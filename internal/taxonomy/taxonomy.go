// Package taxonomy holds the canonical feed-ingredient reference table.
//
// The table is versioned static data: downstream regression models are keyed
// to these exact code strings, so entries must never be renumbered. New feeds
// get new codes appended at the end.
package taxonomy

import (
	"regexp"
	"sort"
	"strings"
)

// Group is one of the four coarse ingredient buckets used for ratio
// validation and the legacy group view.
type Group string

const (
	GroupCorn    Group = "corn"
	GroupSoybean Group = "soybean"
	GroupAlfalfa Group = "alfalfa"
	GroupOther   Group = "other"
)

// Groups lists all groups in canonical order.
var Groups = []Group{GroupCorn, GroupSoybean, GroupAlfalfa, GroupOther}

// Well-known codes referenced by classifier rules.
const (
	CodeCornRolled   = "01"
	CodeCornSilage   = "06"
	CodeStraw        = "08"
	CodeBarley       = "09"
	CodeHaylage      = "10"
	CodeAlfalfa      = "11"
	CodeCornDry      = "12"
	CodeSudanHaylage = "13"
	CodeHay          = "14"
	CodeCombinedFeed = "17"
	CodeCornEar      = "19"
	CodeForage       = "21"
	CodeCornWet      = "22"
	CodeSudanSilage  = "24"
	CodeFatProtected = "07"
	CodeChalk        = "33"
	CodeClover       = "41"
	CodeCornHaylage  = "42"
)

// labels maps each canonical code to its human-readable description. A label
// may embed an NN.NN batch-numbering prefix; those prefixes feed the reverse
// index used by the classifier's numeric-prefix rules.
var labels = map[string]string{
	"01": "05.06 зерно(кукуруза) плющенное",
	"02": "12.01 тритикале сенаж",
	"03": "10.01 однолетние травы сенаж",
	"04": "патока свекловичная",
	"05": "шрот соевый",
	"06": "05.02 зерно(кукуруза) силос",
	"07": "жир защищенный",
	"08": "**.04 солома",
	"09": "ячмень сухой",
	"10": "08.01 сенаж",
	"11": "01.01 люцерна сенаж",
	"12": "кукуруза сухая",
	"13": "06.01 суданка сенаж",
	"14": "сено",
	"15": "жом свекловичный",
	"16": "03.01 сенаж",
	"17": "комбикорм",
	"18": "16.01 сенаж",
	"19": "05.07 зерно(кукуруза) корнаж",
	"20": "шрот рапсовый",
	"21": "фураж",
	"22": "05.** кукуруза влажная",
	"23": "жмых льняной",
	"24": "06.02 суданка силос",
	"25": "пшеница",
	"26": "дрожжи",
	"27": "соевая оболочка",
	"28": "дробина сухая",
	"29": "04.01 сенаж",
	"30": "жмых рапсовый",
	"31": "премикс дойный",
	"32": "сода",
	"33": "мел",
	"34": "13.01 рожь сенаж",
	"35": "лед жнапкх добавка",
	"36": "02.01 сенаж",
	"37": "шрот подсолнечный",
	"38": "07.01 сенаж",
	"39": "соль",
	"40": "18.01 зерносмесь сенаж",
	"41": "09.01 клевер сенаж",
	"42": "05.01 зерно(кукуруза) сенаж",
	"43": "поташ",
	"44": "концентраты",
	"45": "кальций пропионат",
}

var (
	codes       []string
	prefixIndex map[string]string

	prefixPattern = regexp.MustCompile(`\d{2}\.\d{2}`)
)

func init() {
	codes = make([]string, 0, len(labels))
	for code := range labels {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	prefixIndex = make(map[string]string, len(labels))
	// On a prefix collision the lowest code wins.
	for _, code := range codes {
		pfx := prefixPattern.FindString(labels[code])
		if pfx == "" {
			continue
		}
		if _, taken := prefixIndex[pfx]; !taken {
			prefixIndex[pfx] = code
		}
	}
}

// Label returns the canonical label for a code, or "" if the code is unknown.
func Label(code string) string {
	return labels[code]
}

// Known reports whether code exists in the taxonomy.
func Known(code string) bool {
	_, ok := labels[code]
	return ok
}

// Codes returns all canonical codes in ascending numeric order. The returned
// slice must not be mutated.
func Codes() []string {
	return codes
}

// ByPrefix resolves an NN.NN batch prefix to the code whose label embeds it.
func ByPrefix(prefix string) (string, bool) {
	code, ok := prefixIndex[prefix]
	return code, ok
}

// GroupOf derives the macro-group from a canonical label (or from raw text
// for unresolved ingredients). Membership is by substring convention rather
// than per-code enumeration, so a new taxonomy entry groups correctly as long
// as its label follows the naming convention.
func GroupOf(label string) Group {
	s := strings.ToLower(label)
	switch {
	case strings.Contains(s, "кукуруз"):
		return GroupCorn
	case strings.Contains(s, "соев") || strings.Contains(s, "соя"):
		return GroupSoybean
	case strings.Contains(s, "люцерна"):
		return GroupAlfalfa
	default:
		return GroupOther
	}
}

// GroupOfCode derives the macro-group for a canonical code.
func GroupOfCode(code string) Group {
	label, ok := labels[code]
	if !ok {
		return GroupOther
	}
	return GroupOf(label)
}
