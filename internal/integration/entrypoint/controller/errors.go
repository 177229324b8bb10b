// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/integration/entrypoint/dto"
	"github.com/ledgerline/backend/internal/integration/entrypoint/middleware"
)

// respondError maps a domain error onto a status and a stable code.
// Messages stay generic; the cause goes to the server log.
func respondError(c *gin.Context, err error) {
	status, code, message := classifyError(err)

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "error", err)
	}

	c.JSON(status, dto.Fail(code, message))
}

func classifyError(err error) (int, string, string) {
	var importErr *domainerror.ImportError
	if errors.As(err, &importErr) {
		return classifyImportError(importErr)
	}

	var txErr *domainerror.TransactionError
	if errors.As(err, &txErr) {
		return classifyTransactionError(txErr)
	}

	var ruleErr *domainerror.RuleError
	if errors.As(err, &ruleErr) {
		return classifyRuleError(ruleErr)
	}

	switch {
	case errors.Is(err, domainerror.ErrMissingAuthContext):
		return http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is required"
	case errors.Is(err, domainerror.ErrAccountNotFound):
		return http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"
	case errors.Is(err, domainerror.ErrCategoryNotFound),
		errors.Is(err, domainerror.ErrTransactionNotFound),
		errors.Is(err, domainerror.ErrRuleNotFound),
		errors.Is(err, domainerror.ErrImportNotFound):
		return http.StatusNotFound, "NOT_FOUND", "Resource not found"
	case errors.Is(err, domainerror.ErrInvalidCursor):
		return http.StatusBadRequest, "INVALID_PARAMETER", "Invalid pagination cursor"
	case errors.Is(err, domainerror.ErrInvalidAccountType),
		errors.Is(err, domainerror.ErrAccountNameRequired),
		errors.Is(err, domainerror.ErrCategoryNameRequired):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request failed validation"
	case errors.Is(err, domainerror.ErrCategoryReadOnly):
		return http.StatusForbidden, "INVALID_REQUEST", "Default categories are read-only"
	case errors.Is(err, domainerror.ErrConflict),
		errors.Is(err, domainerror.ErrDuplicateTransaction):
		return http.StatusConflict, "INVALID_REQUEST", "The request conflicts with existing state"
	case errors.Is(err, domainerror.ErrLLMNotConfigured):
		return http.StatusUnsupportedMediaType, "UNSUPPORTED_CONTENT_TYPE", "This document type requires the document parser, which is not configured"
	case errors.Is(err, domainerror.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "INTERNAL_ERROR", "The service is temporarily unavailable"
	case errors.Is(err, domainerror.ErrIndexMissing):
		return http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred"
	}

	return http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred"
}

func classifyImportError(err *domainerror.ImportError) (int, string, string) {
	switch err.Code {
	case domainerror.ErrCodeImportNotFound:
		return http.StatusNotFound, "NOT_FOUND", "Import not found"
	case domainerror.ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "The uploaded file exceeds the size limit"
	case domainerror.ErrCodeUnsupportedFileType:
		return http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE_TYPE", "The file type is not supported"
	case domainerror.ErrCodeEmptyDocument:
		return http.StatusUnprocessableEntity, "IMPORT_FAILED", "No transactions could be extracted from the document"
	case domainerror.ErrCodeImportTerminal:
		return http.StatusConflict, "INVALID_REQUEST", "The import is already finished"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred"
}

func classifyTransactionError(err *domainerror.TransactionError) (int, string, string) {
	switch err.Code {
	case domainerror.ErrCodeTransactionNotFound:
		return http.StatusNotFound, "NOT_FOUND", "Transaction not found"
	case domainerror.ErrCodeCategoryNotFound:
		return http.StatusNotFound, "NOT_FOUND", "Category not found"
	case domainerror.ErrCodeDuplicateTransaction:
		return http.StatusConflict, "INVALID_REQUEST", "The transaction already exists"
	case domainerror.ErrCodeNotesTooLong,
		domainerror.ErrCodeInvalidTags,
		domainerror.ErrCodeInvalidSplit:
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request failed validation"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred"
}

func classifyRuleError(err *domainerror.RuleError) (int, string, string) {
	switch err.Code {
	case domainerror.ErrCodeRuleNotFound:
		return http.StatusNotFound, "NOT_FOUND", "Rule not found"
	case domainerror.ErrCodeRuleLimit,
		domainerror.ErrCodeNoConditions,
		domainerror.ErrCodePatternTooLong,
		domainerror.ErrCodeInvalidPattern,
		domainerror.ErrCodeUnsafePattern,
		domainerror.ErrCodeRuleNameRequired:
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request failed validation"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred"
}

// ownerOrAbort pulls the authenticated owner out of the context. The
// auth middleware guarantees it for every protected route; a miss means
// the route was wired without it.
func ownerOrAbort(c *gin.Context) (string, bool) {
	ownerID, ok := middleware.GetOwnerIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("UNAUTHORIZED", "Authentication is required"))
		return "", false
	}
	return ownerID, true
}
