package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
)

// JournalReader defines read operations for journal entries. Entries are only
// ever written through TransactionWriter.CommitPosting and CommitReversal.
type JournalReader interface {
	// FindEntryByID retrieves a journal entry with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntriesByTransactionID returns every entry (posting and reversal) of a transaction, oldest first.
	FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error)

	// ListAccountLines returns the lines of one account dated on or before until, in ledger order.
	ListAccountLines(ctx context.Context, accountID string, until time.Time) ([]domain.PostedLine, error)
}
