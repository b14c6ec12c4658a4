package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Both the Postgres and the bbolt stores build one of these.
type RepositoryProvider struct {
	ChartRepo       ChartRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	JournalRepo     JournalReader
	ReportingRepo   ReportingRepository
	PeriodLockRepo  PeriodLockRepository
	AuditRepo       AuditRepository
}
