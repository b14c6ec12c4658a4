package repositories

import (
	"context"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
)

// PeriodLockRepository persists month locks.
type PeriodLockRepository interface {
	// SavePeriodLock returns ErrDuplicate if the month is already locked.
	SavePeriodLock(ctx context.Context, lock domain.PeriodLock, audit domain.AuditEntry) error

	// DeletePeriodLock returns a NotFoundError if the month is not locked.
	DeletePeriodLock(ctx context.Context, year, month int, audit domain.AuditEntry) error

	FindPeriodLock(ctx context.Context, year, month int) (*domain.PeriodLock, error)
	ListPeriodLocks(ctx context.Context) ([]domain.PeriodLock, error)
}

// AuditRepository reads the append-only audit log. Rows are written by the
// other repositories in the same atomic unit as the change they describe.
type AuditRepository interface {
	ListAuditEntries(ctx context.Context, entityType, entityID string) ([]domain.AuditEntry, error)
}
