// Package error defines domain-specific errors for the core.
package error

import "errors"

// Rule domain errors.
var (
	// ErrRuleNotFound is returned when a rule is not visible to the caller.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrRuleLimitReached is returned when the owner already holds the maximum number of rules.
	ErrRuleLimitReached = errors.New("rule limit reached")

	// ErrNoRuleConditions is returned when a rule carries no conditions at all.
	ErrNoRuleConditions = errors.New("rule must have at least one condition")

	// ErrPatternTooLong is returned when a regex pattern exceeds the maximum length.
	ErrPatternTooLong = errors.New("pattern too long")

	// ErrInvalidPattern is returned when a regex pattern does not compile.
	ErrInvalidPattern = errors.New("invalid regex pattern")

	// ErrUnsafePattern is returned when a regex pattern matches the catastrophic
	// backtracking catalog.
	ErrUnsafePattern = errors.New("pattern rejected as unsafe")

	// ErrRuleNameRequired is returned when a rule has no name.
	ErrRuleNameRequired = errors.New("rule name is required")
)

// RuleErrorCode defines error codes for rule errors.
// Format: RUL-XXYYYY where XX is category and YYYY is specific error.
type RuleErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeRuleNotFound     RuleErrorCode = "RUL-010001"
	ErrCodeRuleLimit        RuleErrorCode = "RUL-010002"
	ErrCodeNoConditions     RuleErrorCode = "RUL-010003"
	ErrCodePatternTooLong   RuleErrorCode = "RUL-010004"
	ErrCodeInvalidPattern   RuleErrorCode = "RUL-010005"
	ErrCodeUnsafePattern    RuleErrorCode = "RUL-010006"
	ErrCodeRuleNameRequired RuleErrorCode = "RUL-010007"
)

// RuleError represents a rule error with code and message.
type RuleError struct {
	Code    RuleErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *RuleError) Unwrap() error {
	return e.Err
}

// NewRuleError creates a new RuleError with the given code and message.
func NewRuleError(code RuleErrorCode, message string, err error) *RuleError {
	return &RuleError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
