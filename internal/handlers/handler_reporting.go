package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
	"github.com/SscSPs/masjid_treasury/internal/dto"
	"github.com/SscSPs/masjid_treasury/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/income-expenditure", h.getIncomeExpenditure)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/fund-summary", h.getFundSummary)
		reportingGroup.GET("/donors", h.getDonorSummary)
		reportingGroup.GET("/categories", h.getCategorySummary)
		reportingGroup.GET("/daily", h.getDailyBook)
	}
}

// bindAsOf parses the asOf and fundID query parameters, answering 400 on failure.
// A missing asOf is left zero for the service to default.
func bindAsOf(c *gin.Context) (time.Time, string, bool) {
	var q dto.AsOfQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid report query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return time.Time{}, "", false
	}
	var asOf time.Time
	if q.AsOf != "" {
		asOf, _ = time.Parse(time.DateOnly, q.AsOf) // format checked by the binding
	}
	return asOf, q.FundID, true
}

// bindRange parses the from and to query parameters. A missing from means
// since the first entry; a missing to is left zero, which the service reads
// as today.
func bindRange(c *gin.Context) (*time.Time, time.Time, bool) {
	var q dto.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid report query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return nil, time.Time{}, false
	}
	var from *time.Time
	if q.From != "" {
		f, _ := time.Parse(time.DateOnly, q.From)
		from = &f
	}
	var to time.Time
	if q.To != "" {
		to, _ = time.Parse(time.DateOnly, q.To)
	}
	return from, to, true
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance report as of a specific date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.TrialBalance
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Auditor, Treasurer or Approver capability required"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	asOf, _, ok := bindAsOf(c)
	if !ok {
		return
	}
	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf, actor)
	if err != nil {
		respondError(c, err, "Failed to generate trial balance report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getIncomeExpenditure godoc
// @Summary Generate income and expenditure statement
// @Description Income less expenditure for a period, for all funds or one fund
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)" default(current date)
// @Param fundID query string false "Restrict to one fund"
// @Success 200 {object} domain.IncomeExpenditureStatement
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Auditor, Treasurer or Approver capability required"
// @Failure 404 {object} map[string]string "Fund not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/income-expenditure [get]
func (h *reportingHandler) getIncomeExpenditure(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	from, to, ok := bindRange(c)
	if !ok {
		return
	}
	report, err := h.reportingService.IncomeAndExpenditure(c.Request.Context(), from, to, c.Query("fundID"), actor)
	if err != nil {
		respondError(c, err, "Failed to generate income and expenditure report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Assets, liabilities and equity as of a date, for all funds or one fund
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Param fundID query string false "Restrict to one fund"
// @Success 200 {object} domain.BalanceSheet
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Auditor, Treasurer or Approver capability required"
// @Failure 404 {object} map[string]string "Fund not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	asOf, fundID, ok := bindAsOf(c)
	if !ok {
		return
	}
	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf, fundID, actor)
	if err != nil {
		respondError(c, err, "Failed to generate balance sheet report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getFundSummary godoc
// @Summary Generate fund summary
// @Description Opening balance, movement and closing balance per fund
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.FundSummary
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Auditor, Treasurer or Approver capability required"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/fund-summary [get]
func (h *reportingHandler) getFundSummary(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	from, to, ok := bindRange(c)
	if !ok {
		return
	}
	report, err := h.reportingService.FundSummary(c.Request.Context(), from, to, actor)
	if err != nil {
		respondError(c, err, "Failed to generate fund summary report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getDonorSummary godoc
// @Summary Generate donor summary
// @Description Posted income per payer for a period, largest total first. Reversed transactions are excluded.
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.DonorSummary
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Auditor, Treasurer or Approver capability required"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/donors [get]
func (h *reportingHandler) getDonorSummary(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	from, to, ok := bindRange(c)
	if !ok {
		return
	}
	report, err := h.reportingService.DonorSummary(c.Request.Context(), from, to, actor)
	if err != nil {
		respondError(c, err, "Failed to generate donor summary")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getCategorySummary godoc
// @Summary Generate category summary
// @Description Posted totals per transaction category for a period
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)" default(current date)
// @Param direction query string false "INCOME or EXPENSE; both when omitted"
// @Success 200 {object} domain.CategorySummary
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Auditor, Treasurer or Approver capability required"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/categories [get]
func (h *reportingHandler) getCategorySummary(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	from, to, ok := bindRange(c)
	if !ok {
		return
	}
	direction := domain.Direction(strings.ToUpper(c.Query("direction")))
	report, err := h.reportingService.CategorySummary(c.Request.Context(), from, to, direction, actor)
	if err != nil {
		respondError(c, err, "Failed to generate category summary")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getDailyBook godoc
// @Summary Generate daily book
// @Description Income and expense transactions dated on one day. Reversed transactions are excluded; totals count posted ones.
// @Tags reports
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.DailyBook
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Auditor, Treasurer or Approver capability required"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/daily [get]
func (h *reportingHandler) getDailyBook(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var q dto.DailyBookQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid report query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}
	var date time.Time
	if q.Date != "" {
		date, _ = time.Parse(time.DateOnly, q.Date)
	}
	report, err := h.reportingService.DailyBook(c.Request.Context(), date, actor)
	if err != nil {
		respondError(c, err, "Failed to generate daily book")
		return
	}
	c.JSON(http.StatusOK, report)
}
