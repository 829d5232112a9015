package extraction

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/agrovista/lactoprofile/internal/taxonomy"
)

// Config controls extraction behavior.
type Config struct {
	// Timeout bounds a whole document extraction, PDF and OCR included.
	// External tool latency is unbounded otherwise.
	Timeout time.Duration
	// OCREnabled turns on the scanned-document fallback. Requires
	// Tesseract with Russian language data on the host.
	OCREnabled bool
	// OCRLanguages overrides the recognition languages (default rus+eng).
	OCRLanguages []string
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:    90 * time.Second,
		OCREnabled: true,
	}
}

// Result is everything recovered from one diet report.
type Result struct {
	// Ingredients and Nutrients are the raw (label, value) readings.
	Ingredients map[string]float64 `json:"ingredients"`
	Nutrients   map[string]float64 `json:"nutrients"`
	// ByCode and ByGroup are the two aggregate views of the ingredient
	// readings.
	ByCode  map[string]float64         `json:"byCode"`
	ByGroup map[taxonomy.Group]float64 `json:"byGroup"`
	// Features is the nutrient readings mapped onto the model's slots.
	Features NutrientFeatures `json:"-"`
	// Report carries parse statistics for observability.
	Report Report `json:"report"`
}

// Service extracts diet compositions from PDF reports, preferring the
// embedded text layer and falling back to OCR for scans.
type Service struct {
	cfg Config
	log *slog.Logger
	pdf TableReader
	ocr TableReader
}

func NewService(cfg Config, log *slog.Logger) *Service {
	s := &Service{
		cfg: cfg,
		log: log.With("component", "extraction"),
		pdf: NewPDFTableReader(log),
	}
	if cfg.OCREnabled {
		s.ocr = NewOCRTableReader(log, cfg.OCRLanguages...)
	}
	return s
}

// Extract reads every table in the document and aggregates its readings.
// A document with no recognizable tables yields an empty Result; only a
// missing capability (unreadable PDF, OCR not available for a scan) is an
// error.
func (s *Service) Extract(ctx context.Context, pdfPath string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, &ExtractionError{
			Code:    ErrInvalidInput,
			Message: "cannot read document",
			Stage:   "pdf",
			Cause:   err,
		}
	}

	analysis := AnalyzePDF(data)
	s.log.Info("document analyzed",
		"path", pdfPath,
		"pages", analysis.PageCount,
		"scanned", analysis.IsScanned,
		"estimatedRows", analysis.EstRowCount)

	var tables []Table
	usedOCR := false

	if !analysis.IsScanned {
		tables, err = s.pdf.ReadTables(ctx, pdfPath)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, timeoutError(err)
			}
			return nil, err
		}
	}

	if len(tables) == 0 {
		if s.ocr == nil {
			if analysis.IsScanned {
				return nil, &ExtractionError{
					Code:    ErrOCRUnavailable,
					Message: "document is a scan and OCR is disabled",
					Stage:   "ocr",
				}
			}
			// Text-layer document with no tables: empty result.
			return s.assemble(nil, false), nil
		}
		s.log.Info("no lattice tables found, falling back to OCR", "path", pdfPath)
		tables, err = s.ocr.ReadTables(ctx, pdfPath)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, timeoutError(err)
			}
			return nil, err
		}
		usedOCR = true
	}

	return s.assemble(tables, usedOCR), nil
}

func (s *Service) assemble(tables []Table, usedOCR bool) *Result {
	ingredients, nutrients, report := ParseTables(tables)
	report.UsedOCR = usedOCR

	features := MapNutrients(nutrients)
	if features.Degraded() {
		s.log.Warn("nutrient feature slots defaulted to zero",
			"slots", features.Defaulted,
			"count", len(features.Defaulted))
	}
	if len(report.RowsSkipped) > 0 {
		s.log.Debug("rows skipped during parse", "reasons", report.RowsSkipped)
	}

	return &Result{
		Ingredients: ingredients,
		Nutrients:   nutrients,
		ByCode:      AggregateByCode(ingredients),
		ByGroup:     AggregateByGroup(ingredients),
		Features:    features,
		Report:      report,
	}
}

func timeoutError(cause error) *ExtractionError {
	return &ExtractionError{
		Code:      ErrTimeout,
		Message:   "extraction exceeded the configured timeout",
		Retryable: true,
		Cause:     cause,
	}
}
