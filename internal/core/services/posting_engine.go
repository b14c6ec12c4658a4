package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
	"github.com/SscSPs/masjid_treasury/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// postingEngine turns a transaction into its two-line journal entry. It only
// reads from the chart; the caller commits the result.
type postingEngine struct {
	chart portssvc.ChartReaderSvc
}

// ValidateAmount checks that amount is positive and fits the ledger's fixed-point precision.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &apperrors.InvalidAmountError{Amount: amount.String(), Reason: "must be greater than zero"}
	}
	if !amount.Equal(amount.Round(domain.MoneyScale)) {
		return &apperrors.InvalidAmountError{Amount: amount.String(), Reason: fmt.Sprintf("more than %d decimal places", domain.MoneyScale)}
	}
	if amount.GreaterThanOrEqual(domain.MaxAmount) {
		return &apperrors.InvalidAmountError{Amount: amount.String(), Reason: "exceeds the ledger maximum"}
	}
	return nil
}

// postingAccounts are the resolved accounts and fund of a transaction.
type postingAccounts struct {
	fund     domain.Fund
	category domain.Account
	counter  domain.Account
}

// resolve looks up and validates everything the entry depends on.
func (e *postingEngine) resolve(ctx context.Context, txn domain.Transaction) (*postingAccounts, error) {
	if err := ValidateAmount(txn.Amount); err != nil {
		return nil, err
	}
	if !txn.Direction.IsValid() {
		return nil, fmt.Errorf("%w: invalid direction %q", apperrors.ErrValidation, txn.Direction)
	}
	fund, err := e.chart.ResolveFund(ctx, txn.FundID)
	if err != nil {
		return nil, err
	}
	rule, err := e.chart.ResolveCategory(txn.Direction, txn.Category)
	if err != nil {
		return nil, err
	}
	if rule.FundID != "" && rule.FundID != fund.FundID {
		return nil, &apperrors.FundMismatchError{FundID: fund.FundID, Reason: fmt.Sprintf("category %s belongs to fund %s", rule.Name, rule.FundID)}
	}

	category, err := e.chart.ResolveAccountByCode(ctx, rule.AccountCode)
	if err != nil {
		return nil, err
	}
	wantType := domain.Income
	if txn.Direction == domain.DirectionExpense {
		wantType = domain.Expense
	}
	if category.AccountType != wantType {
		return nil, fmt.Errorf("%w: category %s maps to %s account %s, expected %s", apperrors.ErrValidation, rule.Name, category.AccountType, category.Code, wantType)
	}

	counter, err := e.chart.ResolveAccount(ctx, txn.AccountID)
	if err != nil {
		return nil, err
	}
	if !counter.IsCashMovement() {
		return nil, fmt.Errorf("%w: counter account %s must be an asset or liability account", apperrors.ErrValidation, counter.Code)
	}

	for _, acc := range []*domain.Account{category, counter} {
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, acc.Code)
		}
		if !e.chart.IsCompatible(*acc, *fund) {
			return nil, &apperrors.FundMismatchError{AccountID: acc.Code, FundID: fund.FundID, Reason: domain.CompatibilityReason(*acc, *fund)}
		}
	}
	return &postingAccounts{fund: *fund, category: *category, counter: *counter}, nil
}

// Build validates txn and returns the balanced entry that posts it.
func (e *postingEngine) Build(ctx context.Context, txn domain.Transaction, actorID string, at time.Time) (domain.JournalEntry, error) {
	accs, err := e.resolve(ctx, txn)
	if err != nil {
		return domain.JournalEntry{}, err
	}

	debit, credit := accs.counter, accs.category
	if txn.Direction == domain.DirectionExpense {
		debit, credit = accs.category, accs.counter
	}
	entryID := uuid.NewString()
	entry := domain.JournalEntry{
		EntryID:       entryID,
		TransactionID: txn.TransactionID,
		Kind:          domain.EntryPosting,
		EntryDate:     domain.DateOnly(txn.TransactionDate),
		Description:   fmt.Sprintf("%s %s: %s", txn.ReferenceNumber, txn.Category, txn.Description),
		FundID:        accs.fund.FundID,
		Lines: []domain.Line{
			{LineID: uuid.NewString(), AccountID: debit.AccountID, Side: domain.Debit, Amount: txn.Amount, FundID: accs.fund.FundID},
			{LineID: uuid.NewString(), AccountID: credit.AccountID, Side: domain.Credit, Amount: txn.Amount, FundID: accs.fund.FundID},
		},
		CreatedAt: at,
		CreatedBy: actorID,
	}
	if err := accounting.ValidateEntryBalance(entry); err != nil {
		return domain.JournalEntry{}, err
	}
	return entry, nil
}
