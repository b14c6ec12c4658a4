package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
	"github.com/SscSPs/masjid_treasury/internal/dto"
)

type periodService struct {
	BaseService
	repo portsrepo.PeriodLockRepository
}

// PeriodServiceOption is a functional option for configuring the period service
type PeriodServiceOption func(*periodService)

// WithPeriodClock sets the clock used for lock timestamps.
func WithPeriodClock(clock portssvc.Clock) PeriodServiceOption {
	return func(s *periodService) {
		s.Clock = clock
	}
}

// NewPeriodService creates the month-lock service.
func NewPeriodService(repo portsrepo.PeriodLockRepository, options ...PeriodServiceOption) portssvc.PeriodSvcFacade {
	svc := &periodService{repo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

func (s *periodService) LockPeriod(ctx context.Context, req dto.LockPeriodRequest, actor domain.Actor) (*domain.PeriodLock, error) {
	if err := s.Authorize(ctx, actor, "lock period", domain.CapTreasurer); err != nil {
		return nil, err
	}
	if req.Month < 1 || req.Month > 12 || req.Year < 1 {
		return nil, fmt.Errorf("%w: invalid period %d-%d", apperrors.ErrValidation, req.Year, req.Month)
	}
	now := s.Now()
	lock := domain.PeriodLock{
		Year:     req.Year,
		Month:    req.Month,
		Reason:   req.Reason,
		LockedBy: actor.ID,
		LockedAt: now,
	}
	audit := newAuditEntry(domain.EntityPeriodLock, lock.Key(), domain.ActionLock, actor, now, nil, req.Reason)
	if err := s.repo.SavePeriodLock(ctx, lock, audit); err != nil {
		s.LogError(ctx, err, "Failed to lock period", slog.String("period", lock.Key()))
		return nil, err
	}
	s.LogInfo(ctx, "Period locked", slog.String("period", lock.Key()), slog.String("actor_id", actor.ID))
	return &lock, nil
}

func (s *periodService) UnlockPeriod(ctx context.Context, year, month int, actor domain.Actor) error {
	if err := s.Authorize(ctx, actor, "unlock period", domain.CapTreasurer); err != nil {
		return err
	}
	key := domain.PeriodKey(year, month)
	audit := newAuditEntry(domain.EntityPeriodLock, key, domain.ActionUnlock, actor, s.Now(), nil, "")
	if err := s.repo.DeletePeriodLock(ctx, year, month, audit); err != nil {
		s.LogError(ctx, err, "Failed to unlock period", slog.String("period", key))
		return err
	}
	s.LogInfo(ctx, "Period unlocked", slog.String("period", key), slog.String("actor_id", actor.ID))
	return nil
}

func (s *periodService) ListLocks(ctx context.Context) ([]domain.PeriodLock, error) {
	return s.repo.ListPeriodLocks(ctx)
}

func (s *periodService) EnsureOpen(ctx context.Context, t time.Time) error {
	year, month := domain.PeriodOf(t)
	_, err := s.repo.FindPeriodLock(ctx, year, month)
	if err == nil {
		return &apperrors.PeriodLockedError{Year: year, Month: month}
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("check period lock %s: %w", domain.PeriodKey(year, month), err)
}
