package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// LoadSnapshot reads the chart and lines inside one REPEATABLE READ read-only
// transaction, so every query sees the same committed postings.
func (r *reportingRepository) LoadSnapshot(ctx context.Context, until time.Time) (*domain.LedgerSnapshot, error) {
	tx, err := r.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // read-only, nothing to commit

	snap := &domain.LedgerSnapshot{Until: domain.DateOnly(until)}
	if snap.Accounts, err = listAccounts(ctx, tx); err != nil {
		return nil, fmt.Errorf("error loading accounts for snapshot: %w", err)
	}
	if snap.Funds, err = listFunds(ctx, tx); err != nil {
		return nil, fmt.Errorf("error loading funds for snapshot: %w", err)
	}
	rows, err := tx.Query(ctx, postedLineQuery+`WHERE e.entry_date <= $1`+postedLineOrder+`;`, snap.Until)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error querying ledger lines", err)
	}
	if snap.Lines, err = scanPostedLines(rows); err != nil {
		return nil, err
	}
	return snap, nil
}
