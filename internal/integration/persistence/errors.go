// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// translateError classifies a store failure for the layers above.
// Duplicate keys become conflicts; missing tables or columns become a
// distinct migrations-needed signal; everything else is generic
// unavailability. SQLSTATE codes: 23505 unique violation, 42P01
// undefined table, 42703 undefined column.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerror.ErrConflict
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "23505"), strings.Contains(msg, "UNIQUE constraint failed"):
		return domainerror.ErrConflict
	case strings.Contains(msg, "42P01"), strings.Contains(msg, "42703"), strings.Contains(msg, "no such table"), strings.Contains(msg, "no such column"):
		return domainerror.ErrIndexMissing
	}
	return domainerror.ErrStoreUnavailable
}
