package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
	"github.com/SscSPs/masjid_treasury/internal/dto"
	"github.com/SscSPs/masjid_treasury/internal/middleware"
	"github.com/gin-gonic/gin"
)

// chartHandler handles HTTP requests for the chart of accounts and the fund registry.
type chartHandler struct {
	chartService     portssvc.ChartSvcFacade
	reportingService portssvc.ReportingService
}

func newChartHandler(cs portssvc.ChartSvcFacade, rs portssvc.ReportingService) *chartHandler {
	return &chartHandler{chartService: cs, reportingService: rs}
}

// registerChartRoutes registers routes for accounts, funds and categories.
func registerChartRoutes(rg *gin.RouterGroup, chartService portssvc.ChartSvcFacade, reportingService portssvc.ReportingService) {
	h := newChartHandler(chartService, reportingService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PUT("/:accountID", h.updateAccount)
		accounts.POST("/:accountID/deactivate", h.deactivateAccount)
		accounts.GET("/:accountID/ledger", h.getAccountLedger)
	}

	funds := rg.Group("/funds")
	{
		funds.POST("", h.createFund)
		funds.GET("", h.listFunds)
		funds.GET("/:fundID", h.getFund)
	}

	rg.GET("/categories", h.listCategories)
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds an account to the chart of accounts (Treasurer only)
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Treasurer capability required"
// @Failure 409 {object} map[string]string "Account code already exists"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *chartHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.chartService.CreateAccount(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}
	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the chart of accounts ordered by code
// @Tags accounts
// @Produce  json
// @Param   includeInactive query bool false "Include deactivated accounts"
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *chartHandler) listAccounts(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	includeInactive, _ := strconv.ParseBool(c.Query("includeInactive"))

	accounts, err := h.chartService.ListAccounts(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *chartHandler) getAccount(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	account, err := h.chartService.ResolveAccount(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Renames an account or changes its description. The fund restriction can only change while no journal line uses the account.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Treasurer capability required"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to update account"
// @Security BearerAuth
// @Router /accounts/{accountID} [put]
func (h *chartHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.chartService.UpdateAccount(c.Request.Context(), c.Param("accountID"), req, actor)
	if err != nil {
		respondError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Closes an account to new transactions. Posted history is kept.
// @Tags accounts
// @Param   accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Treasurer capability required"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account already inactive"
// @Failure 500 {object} map[string]string "Failed to deactivate account"
// @Security BearerAuth
// @Router /accounts/{accountID}/deactivate [post]
func (h *chartHandler) deactivateAccount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := h.chartService.DeactivateAccount(c.Request.Context(), c.Param("accountID"), actor); err != nil {
		respondError(c, err, "Failed to deactivate account")
		return
	}
	c.Status(http.StatusNoContent)
}

// getAccountLedger godoc
// @Summary Account ledger
// @Description Lists the posted lines of one account with a running balance
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.AccountLedger
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Report capability required"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to build ledger"
// @Security BearerAuth
// @Router /accounts/{accountID}/ledger [get]
func (h *chartHandler) getAccountLedger(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	from, to, ok := bindRange(c)
	if !ok {
		return
	}
	ledger, err := h.reportingService.AccountLedger(c.Request.Context(), c.Param("accountID"), from, to, actor)
	if err != nil {
		respondError(c, err, "Failed to build ledger")
		return
	}
	c.JSON(http.StatusOK, ledger)
}

// createFund godoc
// @Summary Create a fund
// @Description Registers a new fund (Treasurer only)
// @Tags funds
// @Accept  json
// @Produce  json
// @Param   fund body dto.CreateFundRequest true "Fund details"
// @Success 201 {object} dto.FundResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Treasurer capability required"
// @Failure 409 {object} map[string]string "Fund already exists"
// @Failure 500 {object} map[string]string "Failed to create fund"
// @Security BearerAuth
// @Router /funds [post]
func (h *chartHandler) createFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	fund, err := h.chartService.CreateFund(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to create fund")
		return
	}
	logger.Info("Fund created", slog.String("fund_id", fund.FundID))
	c.JSON(http.StatusCreated, dto.ToFundResponse(fund))
}

// listFunds godoc
// @Summary List funds
// @Tags funds
// @Produce  json
// @Success 200 {array} dto.FundResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list funds"
// @Security BearerAuth
// @Router /funds [get]
func (h *chartHandler) listFunds(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	funds, err := h.chartService.ListFunds(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list funds")
		return
	}
	c.JSON(http.StatusOK, dto.ToFundResponses(funds))
}

// getFund godoc
// @Summary Get a fund by ID
// @Tags funds
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Success 200 {object} dto.FundResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fund not found"
// @Failure 500 {object} map[string]string "Failed to retrieve fund"
// @Security BearerAuth
// @Router /funds/{fundID} [get]
func (h *chartHandler) getFund(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	fund, err := h.chartService.ResolveFund(c.Request.Context(), c.Param("fundID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve fund")
		return
	}
	c.JSON(http.StatusOK, dto.ToFundResponse(fund))
}

// listCategories godoc
// @Summary List transaction categories
// @Description Lists the income and expense categories with the account and fund they imply
// @Tags funds
// @Produce  json
// @Param   direction query string false "INCOME or EXPENSE"
// @Success 200 {array} dto.CategoryResponse
// @Failure 400 {object} map[string]string "Invalid direction"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /categories [get]
func (h *chartHandler) listCategories(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	direction := domain.Direction(c.Query("direction"))
	if direction != "" && !direction.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be INCOME or EXPENSE"})
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponses(h.chartService.ListCategories(direction)))
}
