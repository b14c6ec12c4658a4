package mapping

import (
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/SscSPs/masjid_treasury/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry, lines included, to its storage rows.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	lines := make([]models.JournalLine, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = models.JournalLine{
			LineID:    l.LineID,
			EntryID:   d.EntryID,
			LineNo:    i + 1,
			AccountID: l.AccountID,
			Side:      string(l.Side),
			Amount:    l.Amount,
			FundID:    l.FundID,
		}
	}
	return models.JournalEntry{
		EntryID:       d.EntryID,
		TransactionID: d.TransactionID,
		Kind:          string(d.Kind),
		ReversalOf:    nullable(d.ReversalOf),
		EntryDate:     d.EntryDate,
		Description:   d.Description,
		FundID:        d.FundID,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		Lines:         lines,
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	lines := make([]domain.Line, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = ToDomainLine(l)
	}
	return domain.JournalEntry{
		EntryID:       m.EntryID,
		TransactionID: m.TransactionID,
		Kind:          domain.EntryKind(m.Kind),
		ReversalOf:    deref(m.ReversalOf),
		EntryDate:     m.EntryDate,
		Description:   m.Description,
		FundID:        m.FundID,
		Lines:         lines,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

// ToDomainLine converts a single journal line row.
func ToDomainLine(m models.JournalLine) domain.Line {
	return domain.Line{
		LineID:    m.LineID,
		AccountID: m.AccountID,
		Side:      domain.Side(m.Side),
		Amount:    m.Amount,
		FundID:    m.FundID,
	}
}

// ToDomainJournalEntrySlice converts a slice of entries.
func ToDomainJournalEntrySlice(ms []models.JournalEntry) []domain.JournalEntry {
	ds := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntry(m)
	}
	return ds
}
