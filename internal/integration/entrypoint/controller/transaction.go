package controller

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/application/usecase/categorize"
	"github.com/ledgerline/backend/internal/application/usecase/transaction"
	"github.com/ledgerline/backend/internal/integration/entrypoint/dto"
)

// TransactionController handles transaction endpoints.
type TransactionController struct {
	listUseCase      *transaction.ListUseCase
	getUseCase       *transaction.GetUseCase
	updateUseCase    *transaction.UpdateUseCase
	splitUseCase     *transaction.SplitUseCase
	unsplitUseCase   *transaction.UnsplitUseCase
	getSplitsUseCase *transaction.GetSplitsUseCase
	orchestrator     *categorize.Orchestrator
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	listUseCase *transaction.ListUseCase,
	getUseCase *transaction.GetUseCase,
	updateUseCase *transaction.UpdateUseCase,
	splitUseCase *transaction.SplitUseCase,
	unsplitUseCase *transaction.UnsplitUseCase,
	getSplitsUseCase *transaction.GetSplitsUseCase,
	orchestrator *categorize.Orchestrator,
) *TransactionController {
	return &TransactionController{
		listUseCase:      listUseCase,
		getUseCase:       getUseCase,
		updateUseCase:    updateUseCase,
		splitUseCase:     splitUseCase,
		unsplitUseCase:   unsplitUseCase,
		getSplitsUseCase: getSplitsUseCase,
		orchestrator:     orchestrator,
	}
}

// List handles GET /transactions requests.
func (ctl *TransactionController) List(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	filter, ok := parseTransactionFilter(c)
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

	page, err := ctl.listUseCase.Execute(c.Request.Context(), ownerID, filter, c.Query("cursor"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKPaginated(dto.ToTransactionListResponse(page.Transactions), page.NextCursor, page.HasMore))
}

// parseTransactionFilter reads the list filter from query parameters.
// month=YYYY-MM expands to the month's date range; explicit
// startDate/endDate win over month.
func parseTransactionFilter(c *gin.Context) (adapter.TransactionFilter, bool) {
	var filter adapter.TransactionFilter

	if monthStr := c.Query("month"); monthStr != "" {
		monthStart, err := time.Parse("2006-01", monthStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("INVALID_PARAMETER", "month must be formatted YYYY-MM"))
			return filter, false
		}
		start := monthStart
		end := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
		filter.StartDate = &start
		filter.EndDate = &end
	}

	if startStr := c.Query("startDate"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("INVALID_PARAMETER", "startDate must be formatted YYYY-MM-DD"))
			return filter, false
		}
		filter.StartDate = &start
	}
	if endStr := c.Query("endDate"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("INVALID_PARAMETER", "endDate must be formatted YYYY-MM-DD"))
			return filter, false
		}
		// Inclusive end of day.
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.EndDate = &end
	}

	if v := c.Query("categoryId"); v != "" {
		filter.CategoryID = &v
	}
	if v := c.Query("accountId"); v != "" {
		filter.AccountID = &v
	}
	if v := c.Query("importId"); v != "" {
		filter.ImportID = &v
	}
	filter.Merchant = c.Query("merchant")

	if v := c.Query("minAmount"); v != "" {
		amount, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("INVALID_PARAMETER", "minAmount must be an integer amount in minor units"))
			return filter, false
		}
		filter.MinAmount = &amount
	}
	if v := c.Query("maxAmount"); v != "" {
		amount, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("INVALID_PARAMETER", "maxAmount must be an integer amount in minor units"))
			return filter, false
		}
		filter.MaxAmount = &amount
	}

	if v := c.Query("tags"); v != "" {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}

	if v := c.Query("uncategorized"); v == "true" {
		filter.Uncategorized = true
	}

	return filter, true
}

// Get handles GET /transactions/:id requests.
func (ctl *TransactionController) Get(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	tx, err := ctl.getUseCase.Execute(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToTransactionResponse(tx)))
}

// Update handles PATCH /transactions/:id requests. A category change
// may come back with a rule suggestion derived from the correction.
func (ctl *TransactionController) Update(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("INVALID_REQUEST", "Invalid request body"))
		return
	}

	out, err := ctl.updateUseCase.Execute(c.Request.Context(), ownerID, c.Param("id"), transaction.UpdateInput{
		CategoryID:  req.CategoryID,
		CategorySet: req.CategorySet,
		Notes:       req.Notes,
		Tags:        req.Tags,
		TagsSet:     req.TagsSet,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.UpdateTransactionResponse{
		Transaction:    dto.ToTransactionResponse(out.Transaction),
		RuleSuggestion: out.Suggestion,
	}))
}

// Split handles POST /transactions/:id/split requests.
func (ctl *TransactionController) Split(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	var req dto.SplitTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("INVALID_REQUEST", "Invalid request body"))
		return
	}

	parts := make([]transaction.SplitPart, len(req.Splits))
	for i, s := range req.Splits {
		parts[i] = transaction.SplitPart{
			Amount:     s.Amount,
			CategoryID: s.CategoryID,
			Notes:      s.Notes,
		}
	}

	children, err := ctl.splitUseCase.Execute(c.Request.Context(), ownerID, c.Param("id"), parts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.ToTransactionListResponse(children)))
}

// Unsplit handles POST /transactions/:id/unsplit requests.
func (ctl *TransactionController) Unsplit(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	deleted, err := ctl.unsplitUseCase.Execute(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.UnsplitResponse{DeletedChildren: deleted}))
}

// GetSplits handles GET /transactions/:id/splits requests.
func (ctl *TransactionController) GetSplits(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	children, err := ctl.getSplitsUseCase.Execute(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToTransactionListResponse(children)))
}

// Recategorize handles POST /transactions/recategorize requests.
// Failures are per-transaction and accumulate into the counters.
func (ctl *TransactionController) Recategorize(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	var req dto.RecategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("INVALID_REQUEST", "Invalid request body"))
		return
	}

	result, err := ctl.orchestrator.Recategorize(c.Request.Context(), ownerID, req.TransactionIDs, req.IncludeManualOverrides)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.RecategorizeResponse{
		Updated: result.Updated,
		Skipped: result.Skipped,
		Errors:  result.Errors,
	}))
}
