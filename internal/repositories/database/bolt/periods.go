package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	"github.com/SscSPs/masjid_treasury/internal/models"
	"github.com/SscSPs/masjid_treasury/internal/utils/mapping"
	bbolt "go.etcd.io/bbolt"
)

type periodLockRepository struct {
	store *Store
}

var _ portsrepo.PeriodLockRepository = (*periodLockRepository)(nil)

// ensureUnlocked fails with *apperrors.PeriodLockedError when any date falls
// in a locked month. It reads inside tx, so it sees locks committed before it.
func ensureUnlocked(tx *bbolt.Tx, dates []time.Time) error {
	b := tx.Bucket([]byte(bucketPeriodLocks))
	for _, p := range domain.DistinctPeriods(dates) {
		if b.Get([]byte(domain.PeriodKey(p[0], p[1]))) != nil {
			return &apperrors.PeriodLockedError{Year: p[0], Month: p[1]}
		}
	}
	return nil
}

func (r *periodLockRepository) SavePeriodLock(ctx context.Context, lock domain.PeriodLock, audit domain.AuditEntry) error {
	return r.store.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketPeriodLocks))
		if b.Get([]byte(lock.Key())) != nil {
			return fmt.Errorf("%w: period %s is already locked", apperrors.ErrDuplicate, lock.Key())
		}
		if err := putJSON(b, lock.Key(), mapping.ToModelPeriodLock(lock)); err != nil {
			return err
		}
		return appendAudit(tx, audit)
	})
}

func (r *periodLockRepository) DeletePeriodLock(ctx context.Context, year, month int, audit domain.AuditEntry) error {
	key := domain.PeriodKey(year, month)
	return r.store.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketPeriodLocks))
		if b.Get([]byte(key)) == nil {
			return apperrors.NewNotFoundError("period lock", key)
		}
		if err := b.Delete([]byte(key)); err != nil {
			return err
		}
		return appendAudit(tx, audit)
	})
}

func (r *periodLockRepository) FindPeriodLock(ctx context.Context, year, month int) (*domain.PeriodLock, error) {
	key := domain.PeriodKey(year, month)
	var lock domain.PeriodLock
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		var m models.PeriodLock
		found, err := getJSON(tx.Bucket([]byte(bucketPeriodLocks)), key, &m)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.NewNotFoundError("period lock", key)
		}
		lock = mapping.ToDomainPeriodLock(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &lock, nil
}

// ListPeriodLocks returns locks oldest period first; "YYYY-MM" keys sort chronologically.
func (r *periodLockRepository) ListPeriodLocks(ctx context.Context) ([]domain.PeriodLock, error) {
	locks := []domain.PeriodLock{}
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketPeriodLocks)).ForEach(func(k, v []byte) error {
			var m models.PeriodLock
			if err := json.Unmarshal(v, &m); err != nil {
				return fmt.Errorf("failed to decode period lock %s: %w", k, err)
			}
			locks = append(locks, mapping.ToDomainPeriodLock(m))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return locks, nil
}
