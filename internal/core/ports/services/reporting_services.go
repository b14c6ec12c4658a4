package services

import (
	"context"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
)

// ReportingService defines operations for generating financial reports.
// A nil from means "since the first entry"; a zero date means today.
type ReportingService interface {
	// TrialBalance generates a trial balance report as of a specific date
	TrialBalance(ctx context.Context, asOf time.Time, actor domain.Actor) (*domain.TrialBalance, error)

	// IncomeAndExpenditure reports income less expenditure for a period, optionally for one fund.
	IncomeAndExpenditure(ctx context.Context, from *time.Time, to time.Time, fundID string, actor domain.Actor) (*domain.IncomeExpenditureStatement, error)

	// BalanceSheet generates a balance sheet report as of a specific date, optionally for one fund.
	BalanceSheet(ctx context.Context, asOf time.Time, fundID string, actor domain.Actor) (*domain.BalanceSheet, error)

	// FundSummary reports opening, movement and closing balance per fund.
	FundSummary(ctx context.Context, from *time.Time, to time.Time, actor domain.Actor) (*domain.FundSummary, error)

	// AccountLedger lists one account's lines with a running balance.
	AccountLedger(ctx context.Context, accountID string, from *time.Time, to time.Time, actor domain.Actor) (*domain.AccountLedger, error)

	// DonorSummary totals posted income per payer, largest first.
	DonorSummary(ctx context.Context, from *time.Time, to time.Time, actor domain.Actor) (*domain.DonorSummary, error)

	// CategorySummary totals posted transactions per category; direction may be empty.
	CategorySummary(ctx context.Context, from *time.Time, to time.Time, direction domain.Direction, actor domain.Actor) (*domain.CategorySummary, error)

	// DailyBook lists the transactions dated on one day, reversed ones left out.
	DailyBook(ctx context.Context, date time.Time, actor domain.Actor) (*domain.DailyBook, error)
}
