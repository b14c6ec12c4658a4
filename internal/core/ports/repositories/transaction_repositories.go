package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
)

// TransactionReader defines read operations for the transaction ledger
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by id.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns transactions matching filter, newest transaction date first,
	// using token-based pagination. It returns the page and a token for the next one.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for the transaction ledger.
// The three state-changing methods are atomic compare-and-set operations: the
// transaction must still be in the expected state when the write happens,
// otherwise they return *apperrors.InvalidStateTransitionError and write nothing.
type TransactionWriter interface {
	// SaveTransaction persists a new transaction with its creation audit row.
	SaveTransaction(ctx context.Context, txn domain.Transaction, audit domain.AuditEntry) error

	// NextReferenceSequence atomically increments and returns the daily counter for prefix.
	NextReferenceSequence(ctx context.Context, prefix string, day time.Time) (int, error)

	// ApplyStateChange moves a transaction between two non-posting states.
	ApplyStateChange(ctx context.Context, change domain.StateChange) error

	// CommitPosting writes the journal entry, the POSTED state and the entry link together.
	CommitPosting(ctx context.Context, commit domain.PostingCommit) error

	// CommitReversal writes the mirror entry, the REVERSED state and the reversal record together.
	CommitReversal(ctx context.Context, commit domain.ReversalCommit) error
}

// TransactionRepositoryFacade combines all transaction-ledger repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
