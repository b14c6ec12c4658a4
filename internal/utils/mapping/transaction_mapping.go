package mapping

import (
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/SscSPs/masjid_treasury/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:   d.TransactionID,
		ReferenceNumber: d.ReferenceNumber,
		Direction:       string(d.Direction),
		Category:        d.Category,
		Amount:          d.Amount,
		FundID:          d.FundID,
		AccountID:       d.AccountID,
		PaymentMode:     nullable(string(d.PaymentMode)),
		TransactionDate: d.TransactionDate,
		Description:     d.Description,
		Party:           nullable(d.Party),
		VoucherRef:      nullable(d.VoucherRef),
		State:           string(d.State),
		VerifiedBy:      nullable(d.VerifiedBy),
		VerifiedAt:      d.VerifiedAt,
		ApprovedBy:      nullable(d.ApprovedBy),
		ApprovedAt:      d.ApprovedAt,
		PostedBy:        nullable(d.PostedBy),
		PostedAt:        d.PostedAt,
		JournalEntryIDs: append([]string(nil), d.JournalEntryIDs...),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
	if r := d.Reversal; r != nil {
		at := r.ReversedAt
		m.ReversalEntryID = nullable(r.ReversalEntryID)
		m.ReversedBy = nullable(r.ReversedBy)
		m.ReversedAt = &at
		m.ReversalReason = nullable(r.Reason)
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID:   m.TransactionID,
		ReferenceNumber: m.ReferenceNumber,
		Direction:       domain.Direction(m.Direction),
		Category:        m.Category,
		Amount:          m.Amount,
		FundID:          m.FundID,
		AccountID:       m.AccountID,
		PaymentMode:     domain.PaymentMode(deref(m.PaymentMode)),
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		Party:           deref(m.Party),
		VoucherRef:      deref(m.VoucherRef),
		State:           domain.TransactionState(m.State),
		VerifiedBy:      deref(m.VerifiedBy),
		VerifiedAt:      m.VerifiedAt,
		ApprovedBy:      deref(m.ApprovedBy),
		ApprovedAt:      m.ApprovedAt,
		PostedBy:        deref(m.PostedBy),
		PostedAt:        m.PostedAt,
		JournalEntryIDs: append([]string(nil), m.JournalEntryIDs...),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	if m.ReversalEntryID != nil {
		d.Reversal = &domain.ReversalRecord{
			ReversalEntryID: *m.ReversalEntryID,
			ReversedBy:      deref(m.ReversedBy),
			Reason:          deref(m.ReversalReason),
		}
		if m.ReversedAt != nil {
			d.Reversal.ReversedAt = *m.ReversedAt
		}
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
