package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	"github.com/SscSPs/masjid_treasury/internal/models"
	"github.com/SscSPs/masjid_treasury/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPeriodLockRepository struct {
	BaseRepository
}

func newPgxPeriodLockRepository(pool *pgxpool.Pool) *PgxPeriodLockRepository {
	return &PgxPeriodLockRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodLockRepository = (*PgxPeriodLockRepository)(nil)

// Posting and locking serialize on a per-month advisory lock: commits take it
// shared, SavePeriodLock takes it exclusive. A commit therefore either lands
// before the lock row exists or sees the committed row and fails.

// ensureUnlocked fails with *apperrors.PeriodLockedError when any date falls
// in a locked month.
func ensureUnlocked(ctx context.Context, tx pgx.Tx, dates []time.Time) error {
	for _, p := range domain.DistinctPeriods(dates) {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock_shared($1, $2);`, p[0], p[1]); err != nil {
			return apperrors.NewAppError(500, "failed to take period lock "+domain.PeriodKey(p[0], p[1]), err)
		}
		var locked bool
		err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM period_locks WHERE year = $1 AND month = $2);`, p[0], p[1]).Scan(&locked)
		if err != nil {
			return apperrors.NewAppError(500, "failed to check period lock "+domain.PeriodKey(p[0], p[1]), err)
		}
		if locked {
			return &apperrors.PeriodLockedError{Year: p[0], Month: p[1]}
		}
	}
	return nil
}

func (r *PgxPeriodLockRepository) SavePeriodLock(ctx context.Context, lock domain.PeriodLock, audit domain.AuditEntry) error {
	m := mapping.ToModelPeriodLock(lock)
	return r.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2);`, m.Year, m.Month); err != nil {
			return apperrors.NewAppError(500, "failed to take period lock "+lock.Key(), err)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO period_locks (year, month, reason, locked_by, locked_at)
			VALUES ($1, $2, $3, $4, $5);`,
			m.Year, m.Month, m.Reason, m.LockedBy, m.LockedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: period %s is already locked", apperrors.ErrDuplicate, lock.Key())
			}
			return apperrors.NewAppError(500, "failed to lock period "+lock.Key(), err)
		}
		return insertAudit(ctx, tx, audit)
	})
}

func (r *PgxPeriodLockRepository) DeletePeriodLock(ctx context.Context, year, month int, audit domain.AuditEntry) error {
	key := domain.PeriodKey(year, month)
	return r.InTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM period_locks WHERE year = $1 AND month = $2;`, year, month)
		if err != nil {
			return apperrors.NewAppError(500, "failed to unlock period "+key, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("period lock", key)
		}
		return insertAudit(ctx, tx, audit)
	})
}

func scanPeriodLock(row pgx.Row) (models.PeriodLock, error) {
	var m models.PeriodLock
	err := row.Scan(&m.Year, &m.Month, &m.Reason, &m.LockedBy, &m.LockedAt)
	return m, err
}

func (r *PgxPeriodLockRepository) FindPeriodLock(ctx context.Context, year, month int) (*domain.PeriodLock, error) {
	m, err := scanPeriodLock(r.Pool.QueryRow(ctx, `
		SELECT year, month, reason, locked_by, locked_at FROM period_locks
		WHERE year = $1 AND month = $2;`, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("period lock", domain.PeriodKey(year, month))
		}
		return nil, apperrors.NewAppError(500, "failed to find period lock", err)
	}
	lock := mapping.ToDomainPeriodLock(m)
	return &lock, nil
}

func (r *PgxPeriodLockRepository) ListPeriodLocks(ctx context.Context) ([]domain.PeriodLock, error) {
	rows, err := r.Pool.Query(ctx, `SELECT year, month, reason, locked_by, locked_at FROM period_locks ORDER BY year, month;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query period locks", err)
	}
	defer rows.Close()

	locks := []domain.PeriodLock{}
	for rows.Next() {
		m, err := scanPeriodLock(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan period lock", err)
		}
		locks = append(locks, mapping.ToDomainPeriodLock(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating period locks", err)
	}
	return locks, nil
}

type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) *PgxAuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// ListAuditEntries returns the rows of one entity in insertion order.
func (r *PgxAuditRepository) ListAuditEntries(ctx context.Context, entityType, entityID string) ([]domain.AuditEntry, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT audit_id, entity_type, entity_id, action, actor_id, at, old_value, new_value, remarks
		FROM audit_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY seq;`, entityType, entityID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit log", err)
	}
	defer rows.Close()

	var out []models.AuditLog
	for rows.Next() {
		var m models.AuditLog
		if err := rows.Scan(&m.AuditID, &m.EntityType, &m.EntityID, &m.Action, &m.ActorID, &m.At, &m.OldValue, &m.NewValue, &m.Remarks); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit row", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit rows", err)
	}
	return mapping.ToDomainAuditEntrySlice(out), nil
}
