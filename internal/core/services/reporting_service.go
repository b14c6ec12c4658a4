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
	"github.com/SscSPs/masjid_treasury/internal/utils/accounting"
)

// reportCapabilities may read financial statements.
var reportCapabilities = []domain.Capability{domain.CapAuditor, domain.CapTreasurer, domain.CapApprover}

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
	journalRepo   portsrepo.JournalReader
	txnRepo       portsrepo.TransactionReader
}

// transactionPageSize is the page size used when scanning transactions for a report.
const transactionPageSize = 500

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithAccountLedgerSource enables AccountLedger.
func WithAccountLedgerSource(accounts portsrepo.AccountReader, journal portsrepo.JournalReader) ReportingServiceOption {
	return func(s *reportingService) {
		s.accountRepo = accounts
		s.journalRepo = journal
	}
}

// WithTransactionSource enables the reports built from transactions rather
// than ledger lines: DonorSummary, CategorySummary and DailyBook.
func WithTransactionSource(repo portsrepo.TransactionReader) ReportingServiceOption {
	return func(s *reportingService) {
		s.txnRepo = repo
	}
}

// WithReportingClock sets the clock used when a report date is omitted.
func WithReportingClock(clock portssvc.Clock) ReportingServiceOption {
	return func(s *reportingService) {
		s.Clock = clock
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) snapshot(ctx context.Context, until time.Time, report string) (*domain.LedgerSnapshot, error) {
	snap, err := s.reportingRepo.LoadSnapshot(ctx, until)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger snapshot",
			slog.String("report", report),
			slog.String("until", until.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to load ledger for %s: %w", report, err)
	}
	return snap, nil
}

// cutoff returns the calendar date of t, or today when t is zero.
func (s *reportingService) cutoff(t time.Time) time.Time {
	if t.IsZero() {
		return domain.DateOnly(s.Now())
	}
	return domain.DateOnly(t)
}

func (s *reportingService) checkRange(from *time.Time, to time.Time) (*time.Time, time.Time, error) {
	to = s.cutoff(to)
	if from == nil {
		return nil, to, nil
	}
	f := domain.DateOnly(*from)
	if to.Before(f) {
		return nil, to, fmt.Errorf("%w: range end %s is before start %s", apperrors.ErrValidation, to.Format(time.DateOnly), f.Format(time.DateOnly))
	}
	return &f, to, nil
}

func checkFund(snap *domain.LedgerSnapshot, fundID string) error {
	if fundID == "" {
		return nil
	}
	for _, f := range snap.Funds {
		if f.FundID == fundID {
			return nil
		}
	}
	return apperrors.NewNotFoundError("fund", fundID)
}

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time, actor domain.Actor) (*domain.TrialBalance, error) {
	if err := s.Authorize(ctx, actor, "view trial balance", reportCapabilities...); err != nil {
		return nil, err
	}
	asOf = s.cutoff(asOf)
	snap, err := s.snapshot(ctx, asOf, "trial balance")
	if err != nil {
		return nil, err
	}
	tb := accounting.BuildTrialBalance(*snap, asOf)
	if !tb.IsBalanced() {
		// Every committed entry balances, so this means the store is corrupt.
		err := &apperrors.UnbalancedEntryError{EntryID: "trial-balance", Debit: tb.TotalDebit.StringFixed(2), Credit: tb.TotalCredit.StringFixed(2)}
		s.LogError(ctx, err, "Trial balance does not balance")
		return nil, err
	}
	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("asOf", asOf.Format(time.DateOnly)),
		slog.Int("row_count", len(tb.Rows)))
	return &tb, nil
}

// IncomeAndExpenditure reports income less expenditure for a period.
func (s *reportingService) IncomeAndExpenditure(ctx context.Context, from *time.Time, to time.Time, fundID string, actor domain.Actor) (*domain.IncomeExpenditureStatement, error) {
	if err := s.Authorize(ctx, actor, "view income and expenditure", reportCapabilities...); err != nil {
		return nil, err
	}
	from, to, err := s.checkRange(from, to)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, to, "income and expenditure")
	if err != nil {
		return nil, err
	}
	if err := checkFund(snap, fundID); err != nil {
		return nil, err
	}
	stmt := accounting.BuildIncomeExpenditure(*snap, from, to, fundID)
	s.LogInfo(ctx, "Income and expenditure report generated successfully",
		slog.String("to", to.Format(time.DateOnly)),
		slog.String("fund_id", fundID))
	return &stmt, nil
}

// BalanceSheet generates a balance sheet report as of a specific date
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time, fundID string, actor domain.Actor) (*domain.BalanceSheet, error) {
	if err := s.Authorize(ctx, actor, "view balance sheet", reportCapabilities...); err != nil {
		return nil, err
	}
	asOf = s.cutoff(asOf)
	snap, err := s.snapshot(ctx, asOf, "balance sheet")
	if err != nil {
		return nil, err
	}
	if err := checkFund(snap, fundID); err != nil {
		return nil, err
	}
	bs := accounting.BuildBalanceSheet(*snap, asOf, fundID)
	if !bs.IsBalanced() {
		s.LogError(ctx, errors.New("accounting equation violated"), "Balance sheet does not balance",
			slog.String("assets", bs.TotalAssets.String()),
			slog.String("liabilities", bs.TotalLiabilities.String()),
			slog.String("equity", bs.TotalEquity.String()))
	}
	s.LogInfo(ctx, "Balance sheet report generated successfully",
		slog.String("asOf", asOf.Format(time.DateOnly)),
		slog.String("fund_id", fundID))
	return &bs, nil
}

// FundSummary reports opening, movement and closing balance per fund.
func (s *reportingService) FundSummary(ctx context.Context, from *time.Time, to time.Time, actor domain.Actor) (*domain.FundSummary, error) {
	if err := s.Authorize(ctx, actor, "view fund summary", reportCapabilities...); err != nil {
		return nil, err
	}
	from, to, err := s.checkRange(from, to)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, to, "fund summary")
	if err != nil {
		return nil, err
	}
	summary := accounting.BuildFundSummary(*snap, from, to)
	s.LogInfo(ctx, "Fund summary generated successfully",
		slog.String("to", to.Format(time.DateOnly)),
		slog.Int("fund_count", len(summary.Rows)))
	return &summary, nil
}

// AccountLedger lists one account's lines with a running balance.
func (s *reportingService) AccountLedger(ctx context.Context, accountID string, from *time.Time, to time.Time, actor domain.Actor) (*domain.AccountLedger, error) {
	if err := s.Authorize(ctx, actor, "view account ledger", reportCapabilities...); err != nil {
		return nil, err
	}
	if s.accountRepo == nil || s.journalRepo == nil {
		return nil, errors.New("account ledger source is not configured")
	}
	from, to, err := s.checkRange(from, to)
	if err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.ListAccountLines(ctx, accountID, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account lines", slog.String("account_id", accountID))
		return nil, err
	}
	ledger := accounting.BuildAccountLedger(*account, lines, from, to)
	return &ledger, nil
}

// collectTransactions scans every transaction matching filter.
func (s *reportingService) collectTransactions(ctx context.Context, filter domain.TransactionFilter, report string) ([]domain.Transaction, error) {
	if s.txnRepo == nil {
		return nil, errors.New("transaction source is not configured")
	}
	var (
		all   []domain.Transaction
		token *string
	)
	for {
		page, next, err := s.txnRepo.ListTransactions(ctx, filter, transactionPageSize, token)
		if err != nil {
			s.LogError(ctx, err, "Failed to list transactions", slog.String("report", report))
			return nil, fmt.Errorf("failed to load transactions for %s: %w", report, err)
		}
		all = append(all, page...)
		if next == nil || len(page) == 0 {
			return all, nil
		}
		token = next
	}
}

// DonorSummary totals posted income per payer, largest first.
func (s *reportingService) DonorSummary(ctx context.Context, from *time.Time, to time.Time, actor domain.Actor) (*domain.DonorSummary, error) {
	if err := s.Authorize(ctx, actor, "view donor summary", reportCapabilities...); err != nil {
		return nil, err
	}
	from, to, err := s.checkRange(from, to)
	if err != nil {
		return nil, err
	}
	txns, err := s.collectTransactions(ctx, domain.TransactionFilter{
		Direction: domain.DirectionIncome,
		State:     domain.StatePosted,
		From:      from,
		To:        &to,
	}, "donor summary")
	if err != nil {
		return nil, err
	}
	summary := accounting.BuildDonorSummary(txns, from, to)
	s.LogInfo(ctx, "Donor summary generated successfully",
		slog.String("to", to.Format(time.DateOnly)),
		slog.Int("donor_count", len(summary.Rows)))
	return &summary, nil
}

// CategorySummary totals posted transactions per category. An empty
// direction reports income and expenses.
func (s *reportingService) CategorySummary(ctx context.Context, from *time.Time, to time.Time, direction domain.Direction, actor domain.Actor) (*domain.CategorySummary, error) {
	if err := s.Authorize(ctx, actor, "view category summary", reportCapabilities...); err != nil {
		return nil, err
	}
	if direction != "" && !direction.IsValid() {
		return nil, fmt.Errorf("%w: unknown direction %q", apperrors.ErrValidation, direction)
	}
	from, to, err := s.checkRange(from, to)
	if err != nil {
		return nil, err
	}
	txns, err := s.collectTransactions(ctx, domain.TransactionFilter{
		Direction: direction,
		State:     domain.StatePosted,
		From:      from,
		To:        &to,
	}, "category summary")
	if err != nil {
		return nil, err
	}
	summary := accounting.BuildCategorySummary(txns, from, to, direction)
	s.LogInfo(ctx, "Category summary generated successfully",
		slog.String("to", to.Format(time.DateOnly)),
		slog.String("direction", string(direction)))
	return &summary, nil
}

// DailyBook lists the non-reversed transactions dated on one day.
func (s *reportingService) DailyBook(ctx context.Context, date time.Time, actor domain.Actor) (*domain.DailyBook, error) {
	if err := s.Authorize(ctx, actor, "view daily book", reportCapabilities...); err != nil {
		return nil, err
	}
	date = s.cutoff(date)
	txns, err := s.collectTransactions(ctx, domain.TransactionFilter{From: &date, To: &date}, "daily book")
	if err != nil {
		return nil, err
	}
	book := accounting.BuildDailyBook(txns, date)
	s.LogInfo(ctx, "Daily book generated successfully",
		slog.String("date", date.Format(time.DateOnly)),
		slog.Int("income_count", len(book.Income)),
		slog.Int("expense_count", len(book.Expense)))
	return &book, nil
}
