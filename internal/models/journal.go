package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table. Lines are loaded separately
// by the Postgres store and embedded by the bbolt store.
type JournalEntry struct {
	EntryID       string        `db:"entry_id" json:"entryID"`
	TransactionID string        `db:"transaction_id" json:"transactionID"`
	Kind          string        `db:"kind" json:"kind"`
	ReversalOf    *string       `db:"reversal_of" json:"reversalOf,omitempty"` // Nullable
	EntryDate     time.Time     `db:"entry_date" json:"entryDate"`
	Description   string        `db:"description" json:"description"`
	FundID        string        `db:"fund_id" json:"fundID"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
	CreatedBy     string        `db:"created_by" json:"createdBy"`
	Lines         []JournalLine `db:"-" json:"lines"`
}

// JournalLine is a row of the journal_lines table.
type JournalLine struct {
	LineID    string          `db:"line_id" json:"lineID"`
	EntryID   string          `db:"entry_id" json:"entryID"`
	LineNo    int             `db:"line_no" json:"lineNo"`
	AccountID string          `db:"account_id" json:"accountID"`
	Side      string          `db:"side" json:"side"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	FundID    string          `db:"fund_id" json:"fundID"`
}
