// Package analysis evaluates predicted fatty-acid profiles: range checks
// against the GOST norms and feeding recommendations derived from the diet
// composition.
package analysis

// Acid identifies one fatty acid of the predicted profile.
type Acid string

// The six acids the herd management process steers by.
const (
	AcidLauric    Acid = "lauric"
	AcidPalmitic  Acid = "palmitic"
	AcidStearic   Acid = "stearic"
	AcidOleic     Acid = "oleic"
	AcidLinoleic  Acid = "linoleic"
	AcidLinolenic Acid = "linolenic"
)

// FattyAcids lists the full profile in model output order.
var FattyAcids = []Acid{
	"butyric", "caproic", "caprylic", "capric", "decenoic", "lauric",
	"myristic", "myristoleic", "palmitic", "palmitoleic", "stearic",
	"oleic", "linoleic", "linolenic", "arachidic", "behenic",
}

// AcidNames maps each acid to its Russian display name.
var AcidNames = map[Acid]string{
	"butyric":      "Масляная",
	"caproic":      "Капроновая",
	"caprylic":     "Каприловая",
	"capric":       "Каприновая",
	"decenoic":     "Деценовая",
	"lauric":       "Лауриновая",
	"myristic":     "Миристиновая",
	"myristoleic":  "Миристолеиновая",
	"palmitic":     "Пальмитиновая",
	"palmitoleic":  "Пальмитолеиновая",
	"stearic":      "Стеариновая",
	"oleic":        "Олеиновая",
	"linoleic":     "Линолевая",
	"linolenic":    "Линоленовая",
	"arachidic":    "Арахиновая",
	"behenic":      "Бегеновая",
}

// Range is an inclusive [Min, Max] target interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// GOSTRanges holds the per-acid norms, indexed like FattyAcids.
var GOSTRanges = []Range{
	{2.4, 4.2},
	{1.5, 3.0},
	{1.0, 2.0},
	{2.0, 3.8},
	{0.2, 0.4},
	{2.0, 4.4},
	{8.0, 13.0},
	{0.6, 1.5},
	{21.0, 32.0},
	{1.3, 2.4},
	{8.0, 13.5},
	{20.0, 28.0},
	{2.2, 5.0},
	{0, 1.5},
	{0, 0.3},
	{0, 0.1},
}

// TargetRanges are the narrower targets used for recommendations; only the
// six acids the herd management process actually steers by have one.
var TargetRanges = map[Acid]Range{
	"lauric":    {2.0, 4.0},
	"palmitic":  {25.0, 35.0},
	"stearic":   {8.0, 15.0},
	"oleic":     {20.0, 30.0},
	"linoleic":  {2.0, 5.0},
	"linolenic": {0.5, 2.0},
}

// Profile maps a full prediction vector (model output order) onto acids.
// Short vectors leave trailing acids at zero.
func Profile(values []float64) map[Acid]float64 {
	out := make(map[Acid]float64, len(FattyAcids))
	for i, acid := range FattyAcids {
		if i < len(values) {
			out[acid] = values[i]
		} else {
			out[acid] = 0
		}
	}
	return out
}
