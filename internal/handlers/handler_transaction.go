package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
	"github.com/SscSPs/masjid_treasury/internal/dto"
	"github.com/SscSPs/masjid_treasury/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for income and expense transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers the transaction workflow routes.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:transactionID", h.getTransaction)
		txns.POST("/:transactionID/verify", h.transition("verify", transactionService.Verify))
		txns.POST("/:transactionID/approve", h.transition("approve", transactionService.Approve))
		txns.POST("/:transactionID/post", h.transition("post", transactionService.Post))
		txns.POST("/:transactionID/reverse", h.reverseTransaction)
		txns.GET("/:transactionID/entries", h.getTransactionEntries)
		txns.GET("/:transactionID/audit", h.getTransactionAudit)
	}
}

// createTransaction godoc
// @Summary Record an income or expense
// @Description Creates a transaction in the initial state of the approval policy. Under the one-step policy it is posted immediately.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} map[string]string "Invalid input, unknown category or invalid amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Creator capability required"
// @Failure 404 {object} map[string]string "Account or fund not found"
// @Failure 422 {object} map[string]string "Account cannot carry the fund"
// @Failure 423 {object} map[string]string "Period is locked"
// @Failure 500 {object} map[string]string "Failed to create transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to create transaction")
		return
	}
	logger.Info("Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("reference", txn.ReferenceNumber),
		slog.String("state", string(txn.State)))
	c.JSON(http.StatusCreated, txn)
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions newest first, filtered and paginated with a continuation token
// @Tags transactions
// @Produce  json
// @Param   direction query string false "INCOME or EXPENSE"
// @Param   state query string false "Workflow state"
// @Param   fundID query string false "Fund ID"
// @Param   category query string false "Category name"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireActor(c); !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	resp, err := h.transactionService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} domain.Transaction
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	txn, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("transactionID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, txn)
}

type transitionFunc func(ctx context.Context, transactionID string, actor domain.Actor) (*domain.Transaction, error)

// transition godoc
// @Summary Advance a transaction
// @Description verify (Verifier, not the creator), approve (Approver or Treasurer, not the creator) or post (Approver or Treasurer). Posting a posted transaction returns it unchanged.
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   step path string true "verify, approve or post"
// @Success 200 {object} domain.Transaction
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Capability missing or self-verification"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transition not allowed from the current state"
// @Failure 423 {object} map[string]string "Period is locked"
// @Failure 500 {object} map[string]string "Failed to update transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID}/{step} [post]
func (h *transactionHandler) transition(step string, fn transitionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		actor, ok := requireActor(c)
		if !ok {
			return
		}
		transactionID := c.Param("transactionID")
		txn, err := fn(c.Request.Context(), transactionID, actor)
		if err != nil {
			respondError(c, err, "Failed to "+step+" transaction")
			return
		}
		logger.Info("Transaction updated",
			slog.String("step", step),
			slog.String("transaction_id", transactionID),
			slog.String("state", string(txn.State)))
		c.JSON(http.StatusOK, txn)
	}
}

// reverseTransaction godoc
// @Summary Reverse a posted transaction
// @Description Writes the mirror journal entry and moves the transaction to REVERSED. A reason is required.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   reversal body dto.ReverseTransactionRequest true "Reversal reason"
// @Success 200 {object} domain.Transaction
// @Failure 400 {object} map[string]string "Reason missing"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Approver or Treasurer capability required"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Not posted or already reversed"
// @Failure 423 {object} map[string]string "Period is locked"
// @Failure 500 {object} map[string]string "Failed to reverse transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID}/reverse [post]
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.ReverseTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReverseTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	txn, err := h.transactionService.Reverse(c.Request.Context(), c.Param("transactionID"), req.Reason, actor)
	if err != nil {
		respondError(c, err, "Failed to reverse transaction")
		return
	}
	logger.Info("Transaction reversed", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusOK, txn)
}

// getTransactionEntries godoc
// @Summary Journal entries of a transaction
// @Description Lists the posting entry and, once reversed, its reversal
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.JournalEntriesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to load journal entries"
// @Security BearerAuth
// @Router /transactions/{transactionID}/entries [get]
func (h *transactionHandler) getTransactionEntries(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	transactionID := c.Param("transactionID")
	entries, err := h.transactionService.GetJournalEntries(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, err, "Failed to load journal entries")
		return
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	c.JSON(http.StatusOK, dto.JournalEntriesResponse{TransactionID: transactionID, Entries: entries})
}

// getTransactionAudit godoc
// @Summary Audit trail of a transaction
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.AuditTrailResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to load audit trail"
// @Security BearerAuth
// @Router /transactions/{transactionID}/audit [get]
func (h *transactionHandler) getTransactionAudit(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	transactionID := c.Param("transactionID")
	rows, err := h.transactionService.ListAuditTrail(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, err, "Failed to load audit trail")
		return
	}
	if rows == nil {
		rows = []domain.AuditEntry{}
	}
	c.JSON(http.StatusOK, dto.AuditTrailResponse{EntityType: domain.EntityTransaction, EntityID: transactionID, Entries: rows})
}
