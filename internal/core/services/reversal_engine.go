package services

import (
	"time"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/SscSPs/masjid_treasury/internal/utils/accounting"
	"github.com/google/uuid"
)

// ReversalDate is the date a reversal is booked on: today, but never before
// the entry it reverses.
func ReversalDate(original domain.JournalEntry, now time.Time) time.Time {
	today := domain.DateOnly(now)
	if original.EntryDate.After(today) {
		return domain.DateOnly(original.EntryDate)
	}
	return today
}

// BuildReversal mirrors original: same accounts, amounts and funds with the
// sides swapped, dated on date.
func BuildReversal(original domain.JournalEntry, reason, actorID string, date, at time.Time) (domain.JournalEntry, error) {
	lines := make([]domain.Line, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = domain.Line{
			LineID:    uuid.NewString(),
			AccountID: l.AccountID,
			Side:      l.Side.Opposite(),
			Amount:    l.Amount,
			FundID:    l.FundID,
		}
	}
	entry := domain.JournalEntry{
		EntryID:       uuid.NewString(),
		TransactionID: original.TransactionID,
		Kind:          domain.EntryReversal,
		ReversalOf:    original.EntryID,
		EntryDate:     domain.DateOnly(date),
		Description:   "Reversal: " + reason,
		FundID:        original.FundID,
		Lines:         lines,
		CreatedAt:     at,
		CreatedBy:     actorID,
	}
	if err := accounting.ValidateEntryBalance(entry); err != nil {
		return domain.JournalEntry{}, err
	}
	return entry, nil
}
