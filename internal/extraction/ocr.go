package extraction

import (
	"bytes"
	"context"
	"image/png"
	"log/slog"
	"regexp"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
)

// OCRTableReader recovers tables from scanned diet reports: each page is
// rasterized and run through Tesseract, and the recognized text is parsed
// line by line with the same row semantics as the lattice path.
type OCRTableReader struct {
	log       *slog.Logger
	languages []string
}

// NewOCRTableReader builds a reader recognizing the given Tesseract
// languages. Reports are Russian with Latin nutrient abbreviations, so the
// default is rus+eng.
func NewOCRTableReader(log *slog.Logger, languages ...string) *OCRTableReader {
	if len(languages) == 0 {
		languages = []string{"rus", "eng"}
	}
	return &OCRTableReader{
		log:       log.With("component", "ocr_table_reader"),
		languages: languages,
	}
}

// cellSplit separates OCR line text into cells on tab stops or runs of two
// or more spaces, which is what a ruled table degrades to after OCR.
var cellSplit = regexp.MustCompile(`\t|\s{2,}`)

func (r *OCRTableReader) ReadTables(ctx context.Context, path string) ([]Table, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, &ExtractionError{
			Code:    ErrOCRUnavailable,
			Message: "cannot rasterize PDF for OCR",
			Stage:   "ocr",
			Cause:   err,
		}
	}
	defer doc.Close()

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(r.languages...); err != nil {
		return nil, &ExtractionError{
			Code:    ErrOCRUnavailable,
			Message: "tesseract language data unavailable",
			Stage:   "ocr",
			Cause:   err,
		}
	}

	var tables []Table
	for n := 0; n < doc.NumPage(); n++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.Image(n)
		if err != nil {
			r.log.Warn("skipping page that failed to rasterize", "page", n+1, "error", err)
			continue
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			r.log.Warn("skipping page that failed to encode", "page", n+1, "error", err)
			continue
		}

		// Tesseract fails transiently under memory pressure; retry before
		// giving up on the page.
		pageText, err := WithRetry(ctx, DefaultOCRRetryConfig, func(ctx context.Context) (string, error) {
			if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
				return "", err
			}
			return client.Text()
		})
		if err != nil {
			r.log.Warn("OCR failed for page", "page", n+1, "error", err)
			continue
		}

		t := tableFromText(n+1, pageText)
		if len(t.Rows) > 0 {
			tables = append(tables, t)
		}
	}
	return tables, nil
}

// tableFromText turns recognized page text into one table, a row per
// non-empty line.
func tableFromText(page int, text string) Table {
	t := Table{Page: page}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cells := cellSplit.Split(line, -1)
		t.Rows = append(t.Rows, cells)
	}
	return t
}
