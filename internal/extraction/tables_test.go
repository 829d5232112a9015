package extraction

import "testing"

func TestTableClassify(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want TableKind
	}{
		{
			name: "ingredient marker",
			rows: [][]string{{"Ингредиенты", "", "", "", "", "% СВ"}},
			want: KindIngredients,
		},
		{
			name: "recipe marker",
			rows: [][]string{{"Рецепт дойное стадо"}},
			want: KindIngredients,
		},
		{
			name: "nutrient marker",
			rows: [][]string{{"Сводный анализ"}, {"СП", "г", "18.5"}},
			want: KindNutrients,
		},
		{
			name: "cow group marker",
			rows: [][]string{{"Лактирующая корова 1"}},
			want: KindNutrients,
		},
		{
			name: "both markers counts as ingredients",
			rows: [][]string{{"Рецепт"}, {"Нутриент"}},
			want: KindIngredients,
		},
		{
			name: "unrelated table ignored",
			rows: [][]string{{"Подпись", "Дата"}},
			want: KindIgnored,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Table{Rows: tt.rows}.Classify()
			if got != tt.want {
				t.Errorf("Classify() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseIngredientRow(t *testing.T) {
	tests := []struct {
		name     string
		row      []string
		wantKept bool
		wantSkip SkipReason
		wantVal  float64
	}{
		{
			name:     "normal row",
			row:      []string{"Кукуруза плющеная", "кг", "12", "10.4", "34%", "30.0"},
			wantKept: true,
			wantVal:  30.0,
		},
		{
			name:     "comma decimal",
			row:      []string{"Шрот соевый", "", "", "", "", "12,5"},
			wantKept: true,
			wantVal:  12.5,
		},
		{
			name:     "boundary zero kept",
			row:      []string{"Солома", "", "", "", "", "0"},
			wantKept: true,
			wantVal:  0,
		},
		{
			name:     "boundary hundred kept",
			row:      []string{"Монокорм", "", "", "", "", "100"},
			wantKept: true,
			wantVal:  100,
		},
		{
			name:     "above hundred rejected",
			row:      []string{"Сено", "", "", "", "", "100.01"},
			wantSkip: SkipOutOfRange,
		},
		{
			name:     "negative rejected",
			row:      []string{"Сено", "", "", "", "", "-0.01"},
			wantSkip: SkipOutOfRange,
		},
		{
			name:     "header row skipped",
			row:      []string{"Ингредиент", "", "", "", "", "100"},
			wantSkip: SkipHeaderRow,
		},
		{
			name:     "totals row skipped",
			row:      []string{"Всего", "", "", "", "", "100"},
			wantSkip: SkipHeaderRow,
		},
		{
			name:     "single-rune name skipped",
			row:      []string{"я", "", "", "", "", "5"},
			wantSkip: SkipShortName,
		},
		{
			name:     "short OCR row lacks value column",
			row:      []string{"Кукуруза", "30.0"},
			wantSkip: SkipMissingColumn,
		},
		{
			name:     "unparseable value",
			row:      []string{"Сено", "", "", "", "", "н/д"},
			wantSkip: SkipMalformedValue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIngredientRow(tt.row)
			if got.Kept != tt.wantKept {
				t.Fatalf("Kept = %v, want %v (skip %s)", got.Kept, tt.wantKept, got.Skip)
			}
			if tt.wantKept && got.Value != tt.wantVal {
				t.Errorf("Value = %f, want %f", got.Value, tt.wantVal)
			}
			if !tt.wantKept && got.Skip != tt.wantSkip {
				t.Errorf("Skip = %s, want %s", got.Skip, tt.wantSkip)
			}
		})
	}
}

func TestParseNutrientRow(t *testing.T) {
	res := ParseNutrientRow([]string{"СП", "% СВ", "18.5"})
	if !res.Kept || res.Value != 18.5 || res.Name != "СП" {
		t.Fatalf("unexpected result %+v", res)
	}

	// Nutrients are not percentages; large values pass.
	res = ParseNutrientRow([]string{"ЧЭЛ 3x NRC", "МДж", "160.4"})
	if !res.Kept || res.Value != 160.4 {
		t.Fatalf("unexpected result %+v", res)
	}

	res = ParseNutrientRow([]string{"Нутриент", "Единица", "1"})
	if res.Kept || res.Skip != SkipHeaderRow {
		t.Fatalf("header must be skipped, got %+v", res)
	}

	res = ParseNutrientRow([]string{"Крахмал", "22.0"})
	if res.Kept || res.Skip != SkipMissingColumn {
		t.Fatalf("two-cell row must be skipped, got %+v", res)
	}
}

func TestParseTables(t *testing.T) {
	tables := []Table{
		{
			Page: 1,
			Rows: [][]string{
				{"Ингредиенты", "", "", "", "", "% СВ"},
				{"Кукуруза плющеная", "", "", "", "", "30.0"},
				{"Шрот соевый", "", "", "", "", "20.0"},
				{"Всего", "", "", "", "", "100"},
			},
		},
		{
			Page: 2,
			Rows: [][]string{
				{"Сводный анализ"},
				{"СП", "% СВ", "18.5"},
				{"Крахмал", "% СВ", "22.0"},
			},
		},
		{
			// Second ingredient table overwrites the first on collision.
			Page: 3,
			Rows: [][]string{
				{"Рецепт"},
				{"Кукуруза плющеная", "", "", "", "", "32.0"},
			},
		},
		{
			Page: 4,
			Rows: [][]string{{"Подпись"}},
		},
	}

	ingredients, nutrients, report := ParseTables(tables)

	if got := ingredients["Кукуруза плющеная"]; got != 32.0 {
		t.Errorf("last write must win: got %f, want 32.0", got)
	}
	if got := ingredients["Шрот соевый"]; got != 20.0 {
		t.Errorf("Шрот соевый = %f, want 20.0", got)
	}
	if got := nutrients["СП"]; got != 18.5 {
		t.Errorf("СП = %f, want 18.5", got)
	}

	if report.Tables != 4 || report.IngredientTables != 2 || report.NutrientTables != 1 {
		t.Errorf("table counts wrong: %+v", report)
	}
	if report.RowsKept != 5 {
		t.Errorf("RowsKept = %d, want 5", report.RowsKept)
	}
	// "Ингредиенты" and "Всего" are header rows; the one-cell marker rows
	// fall short of the value column instead.
	if report.RowsSkipped[SkipHeaderRow] != 2 {
		t.Errorf("header skips = %d, want 2", report.RowsSkipped[SkipHeaderRow])
	}
	if report.RowsSkipped[SkipMissingColumn] != 2 {
		t.Errorf("missing-column skips = %d, want 2", report.RowsSkipped[SkipMissingColumn])
	}
}
