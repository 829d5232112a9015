package extraction

import "fmt"

// ExtractionErrorCode represents specific extraction error types.
type ExtractionErrorCode string

const (
	ErrPDFUnreadable  ExtractionErrorCode = "PDF_UNREADABLE"
	ErrOCRUnavailable ExtractionErrorCode = "OCR_UNAVAILABLE"
	ErrTimeout        ExtractionErrorCode = "EXTRACTION_TIMEOUT"
	ErrInvalidInput   ExtractionErrorCode = "INVALID_INPUT"
)

// ExtractionError is a structured error for extraction failures. Only
// capability failures surface as errors: a document with no recognizable
// data yields empty maps, not an ExtractionError.
type ExtractionError struct {
	Code      ExtractionErrorCode
	Message   string
	Stage     string // "pdf" or "ocr"
	Retryable bool
	Cause     error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether this error is retryable.
func (e *ExtractionError) IsRetryable() bool {
	return e.Retryable
}
