// Package error defines domain-specific errors for the core.
package error

import "errors"

// Import/ingestion domain errors.
var (
	// ErrImportNotFound is returned when an import record is not visible to the caller.
	ErrImportNotFound = errors.New("import not found")

	// ErrFileTooLarge is returned when an uploaded document exceeds the size gate.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedFileType is returned when the MIME type maps to no known kind.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrEmptyDocument is returned when parsing extracted zero transactions.
	ErrEmptyDocument = errors.New("no transactions extracted from document")

	// ErrImportTerminal is returned when mutating an import in a terminal state.
	ErrImportTerminal = errors.New("import is already in a terminal state")
)

// ImportErrorCode defines error codes for import errors.
// Format: IMP-XXYYYY where XX is category and YYYY is specific error.
type ImportErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeImportNotFound      ImportErrorCode = "IMP-010001"
	ErrCodeFileTooLarge        ImportErrorCode = "IMP-010002"
	ErrCodeUnsupportedFileType ImportErrorCode = "IMP-010003"
	ErrCodeEmptyDocument       ImportErrorCode = "IMP-010004"
	ErrCodeImportTerminal      ImportErrorCode = "IMP-010005"
)

// ImportError represents an import error with code and message.
type ImportError struct {
	Code    ImportErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ImportError) Unwrap() error {
	return e.Err
}

// NewImportError creates a new ImportError with the given code and message.
func NewImportError(code ImportErrorCode, message string, err error) *ImportError {
	return &ImportError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
