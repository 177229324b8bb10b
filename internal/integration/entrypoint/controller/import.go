package controller

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/internal/application/usecase/ingest"
	"github.com/ledgerline/backend/internal/integration/entrypoint/dto"
)

// ImportController handles document ingestion endpoints.
type ImportController struct {
	uploadUseCase *ingest.UploadUseCase
	listUseCase   *ingest.ListImportsUseCase
	getUseCase    *ingest.GetImportUseCase
}

// NewImportController creates a new import controller instance.
func NewImportController(
	uploadUseCase *ingest.UploadUseCase,
	listUseCase *ingest.ListImportsUseCase,
	getUseCase *ingest.GetImportUseCase,
) *ImportController {
	return &ImportController{
		uploadUseCase: uploadUseCase,
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
	}
}

// Upload handles POST /imports/upload requests. The pipeline reports
// partial outcomes: a failed import still answers with its record so
// the client can inspect it.
func (ctl *ImportController) Upload(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	var req dto.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("INVALID_REQUEST", "Invalid request body"))
		return
	}

	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("INVALID_REQUEST", "content must be base64 encoded"))
		return
	}

	result, err := ctl.uploadUseCase.Execute(c.Request.Context(), ownerID, ingest.UploadInput{
		AccountID: req.AccountID,
		Filename:  req.Filename,
		MIMEType:  req.MIMEType,
		Content:   content,
	})
	if err != nil {
		// A populated result means the import record exists in failed
		// state; surface both the error code and the record.
		if result != nil && result.ImportID != "" {
			status, code, message := classifyError(err)
			resp := dto.Fail(code, message)
			resp.Data = dto.ToUploadResponse(result)
			c.JSON(status, resp)
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.ToUploadResponse(result)))
}

// List handles GET /imports requests, newest first.
func (ctl *ImportController) List(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, dto.Fail("INVALID_PARAMETER", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	records, err := ctl.listUseCase.Execute(c.Request.Context(), ownerID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToImportListResponse(records)))
}

// Get handles GET /imports/:id requests.
func (ctl *ImportController) Get(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	record, err := ctl.getUseCase.Execute(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToImportResponse(record)))
}
