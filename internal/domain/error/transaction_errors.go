// Package error defines domain-specific errors for the core.
package error

import "errors"

// Transaction domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction is not visible to the caller.
	// Cross-owner lookups return this, never a forbidden error.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDuplicateTransaction is returned when a txKey already exists for the owner.
	ErrDuplicateTransaction = errors.New("transaction already exists")

	// ErrNotesTooLong is returned when notes exceed the maximum length.
	ErrNotesTooLong = errors.New("notes too long")

	// ErrTooManyTags is returned when the tag list exceeds the maximum size.
	ErrTooManyTags = errors.New("too many tags")

	// ErrTagTooLong is returned when a single tag exceeds the maximum length.
	ErrTagTooLong = errors.New("tag too long")

	// ErrAlreadySplit is returned when splitting a transaction that is already a split parent.
	ErrAlreadySplit = errors.New("transaction is already split")

	// ErrSplitChild is returned when splitting a transaction that is itself a split child.
	ErrSplitChild = errors.New("split children cannot be split")

	// ErrNotSplitParent is returned when unsplitting a transaction that is not a split parent.
	ErrNotSplitParent = errors.New("transaction is not split")

	// ErrSplitCountOutOfRange is returned when a split has fewer than 2 or more than 10 parts.
	ErrSplitCountOutOfRange = errors.New("split must have between 2 and 10 parts")

	// ErrSplitAmountMismatch is returned when child amounts do not sum to the parent amount.
	ErrSplitAmountMismatch = errors.New("split amounts must sum to the parent amount")

	// ErrSplitSignMismatch is returned when a child amount does not share the parent's sign.
	ErrSplitSignMismatch = errors.New("split amounts must share the parent's sign")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is category and YYYY is specific error.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeTransactionNotFound  TransactionErrorCode = "TXN-010001"
	ErrCodeDuplicateTransaction TransactionErrorCode = "TXN-010002"
	ErrCodeNotesTooLong         TransactionErrorCode = "TXN-010003"
	ErrCodeInvalidTags          TransactionErrorCode = "TXN-010004"
	ErrCodeInvalidSplit         TransactionErrorCode = "TXN-010005"
	ErrCodeCategoryNotFound     TransactionErrorCode = "TXN-010006"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
