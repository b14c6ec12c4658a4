package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind distinguishes original postings from reversals.
type EntryKind string

const (
	EntryPosting  EntryKind = "POSTING"
	EntryReversal EntryKind = "REVERSAL"
)

// Line is one debit or credit of a journal entry.
type Line struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	Side      Side            `json:"side"`
	Amount    decimal.Decimal `json:"amount"`
	FundID    string          `json:"fundID"`
}

// JournalEntry is an immutable, balanced set of lines recording one event.
type JournalEntry struct {
	EntryID       string    `json:"entryID"`
	TransactionID string    `json:"transactionID"`
	Kind          EntryKind `json:"kind"`
	ReversalOf    string    `json:"reversalOf,omitempty"`
	EntryDate     time.Time `json:"entryDate"`
	Description   string    `json:"description"`
	FundID        string    `json:"fundID"`
	Lines         []Line    `json:"lines"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
}

// Totals returns the debit and credit sums of the entry.
func (e JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		if l.Side == Debit {
			debit = debit.Add(l.Amount)
		} else {
			credit = credit.Add(l.Amount)
		}
	}
	return debit, credit
}

// FundTotals returns debit and credit sums per fund tag.
func (e JournalEntry) FundTotals() map[string][2]decimal.Decimal {
	out := make(map[string][2]decimal.Decimal)
	for _, l := range e.Lines {
		t := out[l.FundID]
		if l.Side == Debit {
			t[0] = t[0].Add(l.Amount)
		} else {
			t[1] = t[1].Add(l.Amount)
		}
		out[l.FundID] = t
	}
	return out
}

// PostedLine is a ledger line together with the entry it belongs to, as read by reports.
type PostedLine struct {
	Line
	EntryID       string    `json:"entryID"`
	TransactionID string    `json:"transactionID"`
	Kind          EntryKind `json:"kind"`
	EntryDate     time.Time `json:"entryDate"`
}

// FlattenLines expands entries into posted lines.
func FlattenLines(entries []JournalEntry) []PostedLine {
	var out []PostedLine
	for _, e := range entries {
		for _, l := range e.Lines {
			out = append(out, PostedLine{
				Line:          l,
				EntryID:       e.EntryID,
				TransactionID: e.TransactionID,
				Kind:          e.Kind,
				EntryDate:     e.EntryDate,
			})
		}
	}
	return out
}

// LedgerSnapshot is a consistent read of the chart and all lines dated on or before Until.
type LedgerSnapshot struct {
	Until    time.Time
	Accounts []Account
	Funds    []Fund
	Lines    []PostedLine
}
