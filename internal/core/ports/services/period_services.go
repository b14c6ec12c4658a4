package services

import (
	"context"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/SscSPs/masjid_treasury/internal/dto"
)

// PeriodSvcFacade manages month locks.
type PeriodSvcFacade interface {
	LockPeriod(ctx context.Context, req dto.LockPeriodRequest, actor domain.Actor) (*domain.PeriodLock, error)
	UnlockPeriod(ctx context.Context, year, month int, actor domain.Actor) error
	ListLocks(ctx context.Context) ([]domain.PeriodLock, error)

	// EnsureOpen returns a PeriodLockedError if the month containing t is locked.
	EnsureOpen(ctx context.Context, t time.Time) error
}

// Clock supplies the current time for audit fields.
type Clock interface {
	Now() time.Time
}
