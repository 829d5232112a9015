package extraction

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/tables"
	"github.com/tsawler/tabula/text"
)

// TableReader recovers tabular regions from a document.
type TableReader interface {
	ReadTables(ctx context.Context, path string) ([]Table, error)
}

// PDFTableReader reads tables from PDFs with an embedded text layer. Each
// page's positioned text fragments go through geometric table detection, so
// a page stacking the recipe table above the summary-analysis table — the
// usual report layout — comes back as two tables, each classified on its
// own markers.
type PDFTableReader struct {
	log      *slog.Logger
	detector tables.Detector
}

func NewPDFTableReader(log *slog.Logger) *PDFTableReader {
	return &PDFTableReader{
		log:      log.With("component", "pdf_table_reader"),
		detector: tables.NewGeometricDetector(),
	}
}

// columnGap is the minimum horizontal whitespace (in PDF points) separating
// two column clusters. Report tables use wide ruled cells, so a small gap
// never splits a cell while the inter-column gutter always exceeds it.
const columnGap = 12.0

func (r *PDFTableReader) ReadTables(ctx context.Context, path string) ([]Table, error) {
	ext := tabula.Open(path)
	defer ext.Close()

	pageCount, err := ext.PageCount()
	if err != nil {
		return nil, &ExtractionError{
			Code:    ErrPDFUnreadable,
			Message: "cannot open PDF document",
			Stage:   "pdf",
			Cause:   err,
		}
	}

	var out []Table
	for page := 1; page <= pageCount; page++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		fragments, warnings, err := tabula.Open(path).Pages(page).Fragments()
		if err != nil {
			r.log.Warn("skipping unreadable page", "page", page, "error", err)
			continue
		}
		if len(warnings) > 0 {
			r.log.Debug("page extracted with warnings", "page", page, "warnings", tabula.FormatWarnings(warnings))
		}
		if len(fragments) == 0 {
			continue
		}

		out = append(out, r.tablesFromPage(page, fragments)...)
	}
	return out, nil
}

// tablesFromPage runs geometric table detection over one page's fragments,
// yielding one Table per detected region. When detection finds no grid at
// all the whole page is clustered into a single table instead, so sparse or
// irregular layouts still reach classification.
func (r *PDFTableReader) tablesFromPage(page int, fragments []text.TextFragment) []Table {
	mp := model.NewPage(0, 0)
	mp.RawText = make([]model.TextFragment, len(fragments))
	for i, f := range fragments {
		mp.RawText[i] = model.TextFragment{
			Text:     f.Text,
			BBox:     model.BBox{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height},
			FontSize: f.FontSize,
			FontName: f.FontName,
		}
	}

	detected, err := r.detector.Detect(mp)
	if err != nil {
		r.log.Warn("table detection failed, clustering whole page", "page", page, "error", err)
		detected = nil
	}
	if len(detected) == 0 {
		if t := tableFromFragments(page, fragments); len(t.Rows) > 0 {
			return []Table{t}
		}
		return nil
	}

	out := make([]Table, 0, len(detected))
	for _, dt := range detected {
		t := Table{Page: page}
		for _, row := range dt.Rows {
			cells := make([]string, len(row))
			for i, cell := range row {
				cells[i] = strings.TrimSpace(cell.Text)
			}
			t.Rows = append(t.Rows, cells)
		}
		if len(t.Rows) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// tableFromFragments groups one page's fragments into a cell grid. Rows are
// Y clusters (half a fragment height tolerance), columns are X clusters
// separated by at least columnGap.
func tableFromFragments(page int, fragments []text.TextFragment) Table {
	rows := clusterRows(fragments)
	bounds := columnBounds(fragments)

	t := Table{Page: page}
	for _, row := range rows {
		cells := make([]string, len(bounds))
		for _, frag := range row {
			col := columnIndex(bounds, frag.X)
			if cells[col] == "" {
				cells[col] = strings.TrimSpace(frag.Text)
			} else {
				cells[col] += " " + strings.TrimSpace(frag.Text)
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// clusterRows buckets fragments into lines top to bottom. PDF Y grows
// upward, so higher Y comes first.
func clusterRows(fragments []text.TextFragment) [][]text.TextFragment {
	sorted := make([]text.TextFragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var rows [][]text.TextFragment
	for _, frag := range sorted {
		if n := len(rows); n > 0 {
			last := rows[n-1][0]
			tolerance := last.Height * 0.5
			if tolerance == 0 {
				tolerance = 3
			}
			if last.Y-frag.Y <= tolerance {
				rows[n-1] = append(rows[n-1], frag)
				continue
			}
		}
		rows = append(rows, []text.TextFragment{frag})
	}

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
	}
	return rows
}

// columnBounds derives the start X of each column cluster across the whole
// page. A new cluster opens when a fragment starts more than columnGap to
// the right of the previous cluster's rightmost edge.
func columnBounds(fragments []text.TextFragment) []float64 {
	sorted := make([]text.TextFragment, len(fragments))
	copy(sorted, fragments)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var starts []float64
	var clusterEnd float64
	for i, frag := range sorted {
		if i == 0 || frag.X-clusterEnd > columnGap {
			starts = append(starts, frag.X)
			clusterEnd = frag.X + frag.Width
			continue
		}
		if end := frag.X + frag.Width; end > clusterEnd {
			clusterEnd = end
		}
	}
	return starts
}

// columnIndex finds the rightmost column whose start is at or left of x.
func columnIndex(bounds []float64, x float64) int {
	idx := sort.SearchFloat64s(bounds, x)
	if idx == len(bounds) || (idx > 0 && bounds[idx] > x) {
		idx--
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
