package dto

import (
	"time"

	"github.com/ledgerline/backend/internal/application/usecase/ingest"
	"github.com/ledgerline/backend/internal/domain/entity"
)

// UploadRequest represents the request body for a document upload.
// Content is the base64-encoded document.
type UploadRequest struct {
	AccountID string `json:"accountId" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Filename  string `json:"filename" binding:"required,max=255"`
	MIMEType  string `json:"mimeType" binding:"required"`
}

// UploadResponse summarizes one ingestion run.
type UploadResponse struct {
	ImportID string   `json:"importId"`
	Status   string   `json:"status"`
	Created  int      `json:"created"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportResponse represents an import record in API responses.
type ImportResponse struct {
	ID               string     `json:"id"`
	AccountID        string     `json:"accountId"`
	Filename         string     `json:"filename"`
	FileType         string     `json:"fileType"`
	Status           string     `json:"status"`
	TransactionCount int        `json:"transactionCount"`
	ErrorMessage     string     `json:"errorMessage,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

// ToUploadResponse converts an ingestion result to an UploadResponse DTO.
func ToUploadResponse(result *ingest.UploadResult) UploadResponse {
	return UploadResponse{
		ImportID: result.ImportID,
		Status:   string(result.Status),
		Created:  result.Created,
		Skipped:  result.Skipped,
		Errors:   result.Errors,
	}
}

// ToImportResponse converts an Import entity to an ImportResponse DTO.
func ToImportResponse(record *entity.Import) ImportResponse {
	return ImportResponse{
		ID:               record.ID,
		AccountID:        record.AccountID,
		Filename:         record.Filename,
		FileType:         string(record.FileType),
		Status:           string(record.Status),
		TransactionCount: record.TransactionCount,
		ErrorMessage:     record.ErrorMessage,
		CreatedAt:        record.CreatedAt,
		CompletedAt:      record.CompletedAt,
	}
}

// ToImportListResponse converts a slice of Import entities.
func ToImportListResponse(records []*entity.Import) []ImportResponse {
	out := make([]ImportResponse, len(records))
	for i, r := range records {
		out[i] = ToImportResponse(r)
	}
	return out
}
