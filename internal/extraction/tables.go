package extraction

import (
	"regexp"
	"strings"
)

// Table is a rectangular grid of cell text recovered from one PDF table
// region. Rows may be ragged when a cell failed to separate.
type Table struct {
	Page int
	Rows [][]string
}

// TableKind identifies what a recovered table holds.
type TableKind int

const (
	KindIgnored TableKind = iota
	KindIngredients
	KindNutrients
)

// Ingredient tables carry the name in column 0 and percent of dry matter in
// column 5; nutrient tables carry the name in column 0 and the value in
// column 2. Fixed positions are part of the report layout.
const (
	ingredientNameCol  = 0
	ingredientValueCol = 5
	nutrientNameCol    = 0
	nutrientValueCol   = 2
)

var (
	ingredientMarkers = regexp.MustCompile(`(?i)ингредиенты|рецепт`)
	nutrientMarkers   = regexp.MustCompile(`(?i)сводный анализ|нутриент|лактирующая корова`)

	ingredientHeaderRow = regexp.MustCompile(`(?i)ингредиент|рецепт|всего|итого|общие`)
	nutrientHeaderRow   = regexp.MustCompile(`(?i)нутриент|единица|сводный`)
)

// SkipReason explains why a table row was not turned into a reading.
type SkipReason string

const (
	SkipShortName      SkipReason = "short_name"
	SkipHeaderRow      SkipReason = "header_row"
	SkipMissingColumn  SkipReason = "missing_column"
	SkipMalformedValue SkipReason = "malformed_value"
	SkipOutOfRange     SkipReason = "out_of_range"
)

// RowResult is the outcome of one row parse attempt. Rows are never an
// error: a row either yields a reading or is skipped with a reason, and the
// caller aggregates the reasons.
type RowResult struct {
	Name  string
	Value float64
	Kept  bool
	Skip  SkipReason
}

func kept(name string, value float64) RowResult {
	return RowResult{Name: name, Value: value, Kept: true}
}

func skipped(reason SkipReason) RowResult {
	return RowResult{Skip: reason}
}

// Classify decides whether the table holds ingredients or nutrients by
// scanning its flattened text for marker phrases. The ingredient check runs
// first; a table matching both counts as ingredients.
func (t Table) Classify() TableKind {
	flat := t.flatten()
	switch {
	case ingredientMarkers.MatchString(flat):
		return KindIngredients
	case nutrientMarkers.MatchString(flat):
		return KindNutrients
	default:
		return KindIgnored
	}
}

func (t Table) flatten() string {
	var b strings.Builder
	for _, row := range t.Rows {
		for _, cell := range row {
			b.WriteString(cell)
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// ParseIngredientRow extracts one (name, percent-of-dry-matter) reading.
// Values outside [0,100] are rejected rather than clamped: a malformed cell
// must not masquerade as a real percentage, and a default of zero would be
// indistinguishable from an absent ingredient.
func ParseIngredientRow(row []string) RowResult {
	if len(row) <= ingredientValueCol {
		return skipped(SkipMissingColumn)
	}
	name := strings.TrimSpace(row[ingredientNameCol])
	if len([]rune(name)) < 2 {
		return skipped(SkipShortName)
	}
	if ingredientHeaderRow.MatchString(name) {
		return skipped(SkipHeaderRow)
	}
	v, ok := ParseNumeric(row[ingredientValueCol])
	if !ok {
		return skipped(SkipMalformedValue)
	}
	if v < 0 || v > 100 {
		return skipped(SkipOutOfRange)
	}
	return kept(name, v)
}

// ParseNutrientRow extracts one (name, value) reading. Nutrient units vary
// widely, so any parseable number is kept.
func ParseNutrientRow(row []string) RowResult {
	if len(row) <= nutrientValueCol {
		return skipped(SkipMissingColumn)
	}
	name := strings.TrimSpace(row[nutrientNameCol])
	if name == "" {
		return skipped(SkipShortName)
	}
	if nutrientHeaderRow.MatchString(name) {
		return skipped(SkipHeaderRow)
	}
	v, ok := ParseNumeric(row[nutrientValueCol])
	if !ok {
		return skipped(SkipMalformedValue)
	}
	return kept(name, v)
}

// Report aggregates parse statistics across a document so that skipped rows
// are inspectable instead of silently swallowed.
type Report struct {
	Tables           int                `json:"tables"`
	IngredientTables int                `json:"ingredientTables"`
	NutrientTables   int                `json:"nutrientTables"`
	RowsKept         int                `json:"rowsKept"`
	RowsSkipped      map[SkipReason]int `json:"rowsSkipped,omitempty"`
	UsedOCR          bool               `json:"usedOcr"`
}

func (r *Report) record(res RowResult) {
	if res.Kept {
		r.RowsKept++
		return
	}
	if r.RowsSkipped == nil {
		r.RowsSkipped = make(map[SkipReason]int)
	}
	r.RowsSkipped[res.Skip]++
}

// ParseTables walks every recovered table and accumulates two flat maps.
// Later tables overwrite earlier ones on name collision (last write wins).
func ParseTables(tables []Table) (ingredients, nutrients map[string]float64, report Report) {
	ingredients = make(map[string]float64)
	nutrients = make(map[string]float64)
	report.Tables = len(tables)

	for _, t := range tables {
		switch t.Classify() {
		case KindIngredients:
			report.IngredientTables++
			for _, row := range t.Rows {
				res := ParseIngredientRow(row)
				report.record(res)
				if res.Kept {
					ingredients[res.Name] = res.Value
				}
			}
		case KindNutrients:
			report.NutrientTables++
			for _, row := range t.Rows {
				res := ParseNutrientRow(row)
				report.record(res)
				if res.Kept {
					nutrients[res.Name] = res.Value
				}
			}
		}
	}
	return ingredients, nutrients, report
}
