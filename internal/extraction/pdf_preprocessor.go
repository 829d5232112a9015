package extraction

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	maxTextBytes     = 100 * 1024 // cap for extracted text
	scannedThreshold = 50         // chars per page below which the PDF is considered scanned
)

// PDFAnalysis contains the results of pre-processing a diet report before
// table extraction. It decides whether the document carries an embedded text
// layer or is a scan that must go through OCR.
type PDFAnalysis struct {
	PageCount     int
	ExtractedText string
	TextLines     []string
	EstRowCount   int
	IsScanned     bool
	Err           error
}

// tableRowPattern matches lines that look like report table rows: some text
// followed by at least one numeric value (possibly with a decimal comma or
// a percent sign).
var tableRowPattern = regexp.MustCompile(`\S+.*\s-?\d+([.,]\d+)?\s*%?`)

// AnalyzePDF extracts text and metadata from a PDF for pre-processing.
// It is wrapped in recover() and never panics; on any error it returns
// conservative defaults (scanned, one page) so the caller falls through to
// the OCR path.
func AnalyzePDF(data []byte) (result *PDFAnalysis) {
	result = &PDFAnalysis{
		PageCount: 1,
		IsScanned: true, // conservative default: route to OCR
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("pdf preprocessor recovered from panic", "panic", r)
			result.Err = fmt.Errorf("panic during PDF analysis: %v", r)
			result.IsScanned = true
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		result.Err = fmt.Errorf("open PDF reader: %w", err)
		return result
	}

	result.PageCount = reader.NumPage()
	if result.PageCount < 1 {
		result.PageCount = 1
	}

	plainText, err := reader.GetPlainText()
	if err != nil {
		result.Err = fmt.Errorf("extract plain text: %w", err)
		return result
	}

	textBytes, err := io.ReadAll(io.LimitReader(plainText, int64(maxTextBytes)))
	if err != nil {
		result.Err = fmt.Errorf("read plain text: %w", err)
		return result
	}

	result.ExtractedText = string(textBytes)
	result.IsScanned = isLikelyScanned(result.ExtractedText, result.PageCount)

	for _, line := range strings.Split(result.ExtractedText, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			result.TextLines = append(result.TextLines, trimmed)
		}
	}
	result.EstRowCount = countTableRows(result.TextLines)

	return result
}

// countTableRows counts lines that look like (name, value) table rows. Used
// only as a signal in extraction reports.
func countTableRows(lines []string) int {
	count := 0
	for _, line := range lines {
		if tableRowPattern.MatchString(line) {
			count++
		}
	}
	return count
}

// isLikelyScanned returns true if the PDF appears to be a scanned image
// (very little extractable text per page).
func isLikelyScanned(text string, pages int) bool {
	if pages <= 0 {
		pages = 1
	}
	charsPerPage := len(text) / pages
	return charsPerPage < scannedThreshold
}
