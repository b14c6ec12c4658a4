package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
	"github.com/SscSPs/masjid_treasury/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock ChartService ---
type MockChartService struct {
	mock.Mock
}

func (m *MockChartService) ResolveAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockChartService) ResolveAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockChartService) ResolveFund(ctx context.Context, fundID string) (*domain.Fund, error) {
	args := m.Called(ctx, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fund), args.Error(1)
}

func (m *MockChartService) IsCompatible(account domain.Account, fund domain.Fund) bool {
	return m.Called(account, fund).Bool(0)
}

func (m *MockChartService) ResolveCategory(direction domain.Direction, category string) (domain.CategoryRule, error) {
	args := m.Called(direction, category)
	return args.Get(0).(domain.CategoryRule), args.Error(1)
}

func (m *MockChartService) ResolveCounterAccount(ctx context.Context, mode domain.PaymentMode, fundID string) (*domain.Account, error) {
	args := m.Called(ctx, mode, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockChartService) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockChartService) ListFunds(ctx context.Context) ([]domain.Fund, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fund), args.Error(1)
}

func (m *MockChartService) ListCategories(direction domain.Direction) []domain.CategoryRule {
	args := m.Called(direction)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.CategoryRule)
}

func (m *MockChartService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor domain.Actor) (*domain.Account, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockChartService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor domain.Actor) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockChartService) DeactivateAccount(ctx context.Context, accountID string, actor domain.Actor) error {
	return m.Called(ctx, accountID, actor).Error(0)
}

func (m *MockChartService) CreateFund(ctx context.Context, req dto.CreateFundRequest, actor domain.Actor) (*domain.Fund, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fund), args.Error(1)
}

func (m *MockChartService) Seed(ctx context.Context, funds []domain.Fund, accounts []domain.Account, actor domain.Actor) (int, error) {
	args := m.Called(ctx, funds, accounts, actor)
	return args.Int(0), args.Error(1)
}

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) txn(args mock.Arguments) (*domain.Transaction, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actor domain.Actor) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, req, actor))
}

func (m *MockTransactionService) Verify(ctx context.Context, transactionID string, actor domain.Actor) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, transactionID, actor))
}

func (m *MockTransactionService) Approve(ctx context.Context, transactionID string, actor domain.Actor) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, transactionID, actor))
}

func (m *MockTransactionService) Post(ctx context.Context, transactionID string, actor domain.Actor) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, transactionID, actor))
}

func (m *MockTransactionService) Reverse(ctx context.Context, transactionID string, reason string, actor domain.Actor) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, transactionID, reason, actor))
}

func (m *MockTransactionService) Policy() domain.WorkflowPolicy {
	return m.Called().Get(0).(domain.WorkflowPolicy)
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, transactionID))
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockTransactionService) GetJournalEntries(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockTransactionService) GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockTransactionService) ListAuditTrail(ctx context.Context, transactionID string) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalance(ctx context.Context, asOf time.Time, actor domain.Actor) (*domain.TrialBalance, error) {
	args := m.Called(ctx, asOf, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *MockReportingService) IncomeAndExpenditure(ctx context.Context, from *time.Time, to time.Time, fundID string, actor domain.Actor) (*domain.IncomeExpenditureStatement, error) {
	args := m.Called(ctx, from, to, fundID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeExpenditureStatement), args.Error(1)
}

func (m *MockReportingService) BalanceSheet(ctx context.Context, asOf time.Time, fundID string, actor domain.Actor) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, asOf, fundID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}

func (m *MockReportingService) FundSummary(ctx context.Context, from *time.Time, to time.Time, actor domain.Actor) (*domain.FundSummary, error) {
	args := m.Called(ctx, from, to, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FundSummary), args.Error(1)
}

func (m *MockReportingService) AccountLedger(ctx context.Context, accountID string, from *time.Time, to time.Time, actor domain.Actor) (*domain.AccountLedger, error) {
	args := m.Called(ctx, accountID, from, to, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountLedger), args.Error(1)
}

func (m *MockReportingService) DonorSummary(ctx context.Context, from *time.Time, to time.Time, actor domain.Actor) (*domain.DonorSummary, error) {
	args := m.Called(ctx, from, to, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DonorSummary), args.Error(1)
}

func (m *MockReportingService) CategorySummary(ctx context.Context, from *time.Time, to time.Time, direction domain.Direction, actor domain.Actor) (*domain.CategorySummary, error) {
	args := m.Called(ctx, from, to, direction, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategorySummary), args.Error(1)
}

func (m *MockReportingService) DailyBook(ctx context.Context, date time.Time, actor domain.Actor) (*domain.DailyBook, error) {
	args := m.Called(ctx, date, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyBook), args.Error(1)
}

// --- Mock PeriodService ---
type MockPeriodService struct {
	mock.Mock
}

func (m *MockPeriodService) LockPeriod(ctx context.Context, req dto.LockPeriodRequest, actor domain.Actor) (*domain.PeriodLock, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodLock), args.Error(1)
}

func (m *MockPeriodService) UnlockPeriod(ctx context.Context, year, month int, actor domain.Actor) error {
	return m.Called(ctx, year, month, actor).Error(0)
}

func (m *MockPeriodService) ListLocks(ctx context.Context) ([]domain.PeriodLock, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PeriodLock), args.Error(1)
}

func (m *MockPeriodService) EnsureOpen(ctx context.Context, t time.Time) error {
	return m.Called(ctx, t).Error(0)
}

// Ensure mocks implement the interfaces
var (
	_ portssvc.ChartSvcFacade       = (*MockChartService)(nil)
	_ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)
	_ portssvc.ReportingService     = (*MockReportingService)(nil)
	_ portssvc.PeriodSvcFacade      = (*MockPeriodService)(nil)
)
