// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// MaxImportBytes caps the size of a single ingested document (10 MiB).
const MaxImportBytes = 10 << 20

// FileType is the document kind the ingestion pipeline understands.
type FileType string

const (
	FileTypeCSV   FileType = "csv"
	FileTypePDF   FileType = "pdf"
	FileTypeImage FileType = "image"
)

// ImportStatus is the import record state machine:
// pending -> processing -> {completed, failed}.
type ImportStatus string

const (
	ImportStatusPending    ImportStatus = "pending"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s ImportStatus) Terminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusFailed
}

// Import is the durable record of one document ingestion. Terminal
// records are immutable.
type Import struct {
	ID               string
	OwnerID          string
	AccountID        string
	Filename         string
	FileType         FileType
	Status           ImportStatus
	TransactionCount int
	ErrorMessage     string
	CreatedAt        time.Time
	CompletedAt      *time.Time
}

// NewImport creates an Import record in the pending state.
func NewImport(ownerID, accountID, filename string, fileType FileType) *Import {
	return &Import{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		AccountID: accountID,
		Filename:  filename,
		FileType:  fileType,
		Status:    ImportStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// KindForMIME maps a MIME type onto a FileType. The boolean is false
// for anything outside the supported set.
func KindForMIME(mimeType string) (FileType, bool) {
	switch mimeType {
	case "text/csv", "application/csv", "application/vnd.ms-excel":
		return FileTypeCSV, true
	case "application/pdf":
		return FileTypePDF, true
	case "image/png", "image/jpeg", "image/webp", "image/heic":
		return FileTypeImage, true
	}
	return "", false
}
