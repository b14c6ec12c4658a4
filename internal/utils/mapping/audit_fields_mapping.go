package mapping

import (
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/SscSPs/masjid_treasury/internal/models"
)

// ToModelAuditFields converts a domain AuditFields to a model AuditFields
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToDomainAuditFields converts a model AuditFields to a domain AuditFields
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt,
		LastUpdatedBy: m.LastUpdatedBy,
	}
}

// ToModelAuditLog converts a domain AuditEntry to its storage row.
func ToModelAuditLog(d domain.AuditEntry) models.AuditLog {
	return models.AuditLog{
		AuditID:    d.AuditID,
		EntityType: d.EntityType,
		EntityID:   d.EntityID,
		Action:     string(d.Action),
		ActorID:    d.ActorID,
		At:         d.At,
		OldValue:   nullable(d.OldValue),
		NewValue:   nullable(d.NewValue),
		Remarks:    nullable(d.Remarks),
	}
}

// ToDomainAuditEntry converts an audit row to a domain AuditEntry.
func ToDomainAuditEntry(m models.AuditLog) domain.AuditEntry {
	return domain.AuditEntry{
		AuditID:    m.AuditID,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Action:     domain.AuditAction(m.Action),
		ActorID:    m.ActorID,
		At:         m.At,
		OldValue:   deref(m.OldValue),
		NewValue:   deref(m.NewValue),
		Remarks:    deref(m.Remarks),
	}
}

// ToDomainAuditEntrySlice converts audit rows to domain entries.
func ToDomainAuditEntrySlice(ms []models.AuditLog) []domain.AuditEntry {
	ds := make([]domain.AuditEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAuditEntry(m)
	}
	return ds
}

// ToModelPeriodLock converts a domain PeriodLock to its storage row.
func ToModelPeriodLock(d domain.PeriodLock) models.PeriodLock {
	return models.PeriodLock{
		Year:     d.Year,
		Month:    d.Month,
		Reason:   nullable(d.Reason),
		LockedBy: d.LockedBy,
		LockedAt: d.LockedAt,
	}
}

// ToDomainPeriodLock converts a period lock row to the domain type.
func ToDomainPeriodLock(m models.PeriodLock) domain.PeriodLock {
	return domain.PeriodLock{
		Year:     m.Year,
		Month:    m.Month,
		Reason:   deref(m.Reason),
		LockedBy: m.LockedBy,
		LockedAt: m.LockedAt,
	}
}

// nullable maps the empty string to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
