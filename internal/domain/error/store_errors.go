// Package error defines domain-specific errors for the core.
package error

import "errors"

// Store adapter errors. These classify persistence failures for the
// layers above: retryable unavailability, non-retryable conflicts, and
// schema problems that need an operator.
var (
	// ErrStoreUnavailable is a retryable persistence failure.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrConflict is a non-retryable write conflict (duplicate key).
	ErrConflict = errors.New("store conflict")

	// ErrIndexMissing means a table or column the query depends on does
	// not exist; migrations must be run. Surfaced distinctly from
	// generic unavailability to aid operations.
	ErrIndexMissing = errors.New("store index missing")

	// ErrInvalidCursor is returned when a pagination cursor does not decode.
	ErrInvalidCursor = errors.New("invalid pagination cursor")
)

// Account domain errors.
var (
	// ErrAccountNotFound is returned when an account is not visible to the caller.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidAccountType is returned when the account type is outside the closed set.
	ErrInvalidAccountType = errors.New("invalid account type")

	// ErrAccountNameRequired is returned when an account has no name.
	ErrAccountNameRequired = errors.New("account name is required")
)

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a category is not visible to the caller.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryReadOnly is returned when mutating a default category.
	ErrCategoryReadOnly = errors.New("default categories are read-only")

	// ErrCategoryNameRequired is returned when a category has no name.
	ErrCategoryNameRequired = errors.New("category name is required")
)

// Auth contract errors.
var (
	// ErrMissingAuthContext is returned when no authenticated owner is present.
	ErrMissingAuthContext = errors.New("missing authentication context")
)

// LLM adapter errors. These never propagate past the orchestrator; the
// confidence signal degrades instead.
var (
	// ErrLLMUnavailable is returned when the provider cannot be reached.
	ErrLLMUnavailable = errors.New("llm unavailable")

	// ErrLLMNotConfigured is returned when the selected provider lacks credentials.
	ErrLLMNotConfigured = errors.New("llm provider not configured")
)
