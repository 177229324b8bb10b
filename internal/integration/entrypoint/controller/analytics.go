package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/internal/application/usecase/analytics"
	"github.com/ledgerline/backend/internal/integration/entrypoint/dto"
)

// AnalyticsController handles the read-side aggregation endpoints.
type AnalyticsController struct {
	overviewUseCase *analytics.OverviewUseCase
	trendUseCase    *analytics.TrendUseCase
	categoryUseCase *analytics.CategoryRangeUseCase
	accountUseCase  *analytics.AccountSummaryUseCase
}

// NewAnalyticsController creates a new analytics controller instance.
func NewAnalyticsController(
	overviewUseCase *analytics.OverviewUseCase,
	trendUseCase *analytics.TrendUseCase,
	categoryUseCase *analytics.CategoryRangeUseCase,
	accountUseCase *analytics.AccountSummaryUseCase,
) *AnalyticsController {
	return &AnalyticsController{
		overviewUseCase: overviewUseCase,
		trendUseCase:    trendUseCase,
		categoryUseCase: categoryUseCase,
		accountUseCase:  accountUseCase,
	}
}

// Monthly handles GET /analytics/monthly?month=YYYY-MM requests.
// Without a month parameter the current calendar month is used.
func (ctl *AnalyticsController) Monthly(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	year, month, ok := parseMonthParam(c)
	if !ok {
		return
	}

	overview, err := ctl.overviewUseCase.Execute(c.Request.Context(), ownerID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToMonthlyOverviewResponse(overview)))
}

// Trend handles GET /analytics/trend?months=N requests.
func (ctl *AnalyticsController) Trend(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	months := 0
	if monthsStr := c.Query("months"); monthsStr != "" {
		parsed, err := strconv.Atoi(monthsStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, dto.Fail("INVALID_PARAMETER", "months must be a positive integer"))
			return
		}
		months = parsed
	}

	points, err := ctl.trendUseCase.Execute(c.Request.Context(), ownerID, months)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToTrendResponse(points)))
}

// Categories handles GET /analytics/categories?month=YYYY-MM requests.
func (ctl *AnalyticsController) Categories(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	start, end, ok := parseRangeParams(c)
	if !ok {
		return
	}

	breakdowns, err := ctl.categoryUseCase.Execute(c.Request.Context(), ownerID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToCategoryRangeResponse(breakdowns)))
}

// Accounts handles GET /analytics/accounts?month=YYYY-MM requests.
func (ctl *AnalyticsController) Accounts(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	start, end, ok := parseRangeParams(c)
	if !ok {
		return
	}

	summaries, err := ctl.accountUseCase.Execute(c.Request.Context(), ownerID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToAccountSummaryResponse(summaries)))
}

// parseMonthParam reads month=YYYY-MM, defaulting to the current month.
func parseMonthParam(c *gin.Context) (int, time.Month, bool) {
	monthStr := c.Query("month")
	if monthStr == "" {
		now := time.Now().UTC()
		return now.Year(), now.Month(), true
	}

	parsed, err := time.Parse("2006-01", monthStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("INVALID_PARAMETER", "month must be formatted YYYY-MM"))
		return 0, 0, false
	}
	return parsed.Year(), parsed.Month(), true
}

// parseRangeParams turns month or startDate/endDate query parameters
// into a concrete range, defaulting to the current month.
func parseRangeParams(c *gin.Context) (time.Time, time.Time, bool) {
	startStr, endStr := c.Query("startDate"), c.Query("endDate")
	if startStr != "" && endStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("INVALID_PARAMETER", "startDate must be formatted YYYY-MM-DD"))
			return time.Time{}, time.Time{}, false
		}
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("INVALID_PARAMETER", "endDate must be formatted YYYY-MM-DD"))
			return time.Time{}, time.Time{}, false
		}
		return start, end.AddDate(0, 0, 1).Add(-time.Nanosecond), true
	}

	year, month, ok := parseMonthParam(c)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond), true
}
