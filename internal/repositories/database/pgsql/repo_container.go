package pgsql

import (
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ChartRepo:       newPgxChartRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		JournalRepo:     newPgxJournalRepository(dbPool),
		ReportingRepo:   newReportingRepository(dbPool),
		PeriodLockRepo:  newPgxPeriodLockRepository(dbPool),
		AuditRepo:       newPgxAuditRepository(dbPool),
	}
}
