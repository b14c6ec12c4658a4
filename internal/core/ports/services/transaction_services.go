package services

import (
	"context"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/SscSPs/masjid_treasury/internal/dto"
)

// TransactionWorkflowSvc drives a transaction through the approval state machine.
type TransactionWorkflowSvc interface {
	// CreateTransaction records a new transaction in the policy's initial state
	// (and posts it immediately under the one-step policy).
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actor domain.Actor) (*domain.Transaction, error)

	Verify(ctx context.Context, transactionID string, actor domain.Actor) (*domain.Transaction, error)
	Approve(ctx context.Context, transactionID string, actor domain.Actor) (*domain.Transaction, error)

	// Post writes the journal entry exactly once. Calling it on an already posted
	// transaction returns the transaction with its existing entry references.
	Post(ctx context.Context, transactionID string, actor domain.Actor) (*domain.Transaction, error)

	// Reverse writes the mirror entry of a posted transaction.
	Reverse(ctx context.Context, transactionID string, reason string, actor domain.Actor) (*domain.Transaction, error)

	// Policy returns the workflow policy resolved at start-up.
	Policy() domain.WorkflowPolicy
}

// TransactionReaderSvc exposes the ledger and its audit trail.
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	GetJournalEntries(ctx context.Context, transactionID string) ([]domain.JournalEntry, error)
	GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListAuditTrail(ctx context.Context, transactionID string) ([]domain.AuditEntry, error)
}

// TransactionSvcFacade combines the workflow and reader interfaces.
type TransactionSvcFacade interface {
	TransactionWorkflowSvc
	TransactionReaderSvc
}
