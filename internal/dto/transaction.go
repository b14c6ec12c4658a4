package dto

import (
	"time"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record an income or expense.
// Either AccountID or PaymentMode must identify the counter account; FundID may be
// omitted when the category implies a fund.
type CreateTransactionRequest struct {
	Direction       domain.Direction   `json:"direction" binding:"required,oneof=INCOME EXPENSE"`
	Category        string             `json:"category" binding:"required,max=50"`
	Amount          decimal.Decimal    `json:"amount" binding:"money"`
	FundID          string             `json:"fundID"`
	AccountID       string             `json:"accountID"`
	PaymentMode     domain.PaymentMode `json:"paymentMode" binding:"omitempty,oneof=CASH BANK UPI CARD CHEQUE"`
	TransactionDate *time.Time         `json:"transactionDate"` // Optional: defaults to today
	Description     string             `json:"description" binding:"required,max=500"`
	Party           string             `json:"party" binding:"max=150"`
	VoucherRef      string             `json:"voucherRef" binding:"max=500"`
}

// ReverseTransactionRequest carries the mandatory reason for a reversal.
type ReverseTransactionRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListTransactionsParams holds parameters for listing transactions.
type ListTransactionsParams struct {
	Direction domain.Direction        `form:"direction" binding:"omitempty,oneof=INCOME EXPENSE"`
	State     domain.TransactionState `form:"state" binding:"omitempty,oneof=DRAFT VERIFIED APPROVED POSTED REVERSED"`
	FundID    string                  `form:"fundID"`
	Category  string                  `form:"category"`
	From      string                  `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string                  `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Limit     int                     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string                 `form:"nextToken"`
}

// ListTransactionsResponse is a page of transactions.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextToken    *string              `json:"nextToken,omitempty"`
}

// JournalEntriesResponse lists the entries produced by a transaction.
type JournalEntriesResponse struct {
	TransactionID string                `json:"transactionID"`
	Entries       []domain.JournalEntry `json:"entries"`
}

// AuditTrailResponse lists the audit rows of one entity.
type AuditTrailResponse struct {
	EntityType string              `json:"entityType"`
	EntityID   string              `json:"entityID"`
	Entries    []domain.AuditEntry `json:"entries"`
}
