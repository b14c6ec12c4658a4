package accounting

import (
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the sign convention of the account type to a line amount.
// DEBIT to ASSET/EXPENSE -> positive, CREDIT to ASSET/EXPENSE -> negative, and the
// reverse for LIABILITY/EQUITY/INCOME.
func SignedAmount(side domain.Side, accountType domain.AccountType, amount decimal.Decimal) decimal.Decimal {
	if side == accountType.NormalSide() {
		return amount
	}
	return amount.Neg()
}

// ValidateEntryBalance checks that an entry balances overall and within every fund.
func ValidateEntryBalance(entry domain.JournalEntry) error {
	if len(entry.Lines) < 2 {
		return fmt.Errorf("journal entry must have at least two lines: %w", apperrors.ErrUnbalancedEntry)
	}
	for _, l := range entry.Lines {
		if !l.Amount.IsPositive() {
			return &apperrors.InvalidAmountError{Amount: l.Amount.String(), Reason: "line amount must be positive"}
		}
		if l.FundID == "" {
			return &apperrors.FundMismatchError{AccountID: l.AccountID, Reason: "line carries no fund"}
		}
	}
	debit, credit := entry.Totals()
	if !debit.Equal(credit) {
		return &apperrors.UnbalancedEntryError{EntryID: entry.EntryID, Debit: debit.StringFixed(2), Credit: credit.StringFixed(2)}
	}
	funds := make([]string, 0)
	totals := entry.FundTotals()
	for fundID := range totals {
		funds = append(funds, fundID)
	}
	sort.Strings(funds)
	for _, fundID := range funds {
		t := totals[fundID]
		if !t[0].Equal(t[1]) {
			return &apperrors.UnbalancedEntryError{EntryID: entry.EntryID, FundID: fundID, Debit: t[0].StringFixed(2), Credit: t[1].StringFixed(2)}
		}
	}
	return nil
}

func onOrBefore(t, cutoff time.Time) bool {
	return !t.After(cutoff)
}

func inRange(t time.Time, from *time.Time, to time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	return onOrBefore(t, to)
}

func accountIndex(accounts []domain.Account) map[string]domain.Account {
	idx := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		idx[a.AccountID] = a
	}
	return idx
}

type sides struct {
	debit, credit decimal.Decimal
}

func (s *sides) add(l domain.Line) {
	if l.Side == domain.Debit {
		s.debit = s.debit.Add(l.Amount)
	} else {
		s.credit = s.credit.Add(l.Amount)
	}
}

// BuildTrialBalance sums debits and credits per account over the lines dated
// on or before asOf. Accounts without lines are omitted.
func BuildTrialBalance(snap domain.LedgerSnapshot, asOf time.Time) domain.TrialBalance {
	accounts := accountIndex(snap.Accounts)
	perAccount := make(map[string]*sides)
	for _, l := range snap.Lines {
		if !onOrBefore(l.EntryDate, asOf) {
			continue
		}
		s, ok := perAccount[l.AccountID]
		if !ok {
			s = &sides{}
			perAccount[l.AccountID] = s
		}
		s.add(l.Line)
	}

	tb := domain.TrialBalance{
		AsOf:           asOf,
		Rows:           make([]domain.TrialBalanceRow, 0, len(perAccount)),
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
		TotalNetDebit:  decimal.Zero,
		TotalNetCredit: decimal.Zero,
	}
	for id, s := range perAccount {
		acc := accounts[id]
		row := domain.TrialBalanceRow{
			AccountID:   id,
			AccountCode: acc.Code,
			AccountName: acc.Name,
			AccountType: acc.AccountType,
			Debit:       s.debit,
			Credit:      s.credit,
			NetDebit:    decimal.Zero,
			NetCredit:   decimal.Zero,
		}
		if net := s.debit.Sub(s.credit); net.IsPositive() {
			row.NetDebit = net
		} else {
			row.NetCredit = net.Neg()
		}
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
		tb.TotalNetDebit = tb.TotalNetDebit.Add(row.NetDebit)
		tb.TotalNetCredit = tb.TotalNetCredit.Add(row.NetCredit)
		tb.Rows = append(tb.Rows, row)
	}
	sort.Slice(tb.Rows, func(i, j int) bool {
		if tb.Rows[i].AccountCode != tb.Rows[j].AccountCode {
			return tb.Rows[i].AccountCode < tb.Rows[j].AccountCode
		}
		return tb.Rows[i].AccountID < tb.Rows[j].AccountID
	})
	return tb
}

// balancesByAccount returns the signed balance of each account over the
// selected lines, in the account's normal-side convention.
func balancesByAccount(snap domain.LedgerSnapshot, keep func(domain.PostedLine) bool) map[string]decimal.Decimal {
	accounts := accountIndex(snap.Accounts)
	out := make(map[string]decimal.Decimal)
	for _, l := range snap.Lines {
		if !keep(l) {
			continue
		}
		acc, ok := accounts[l.AccountID]
		if !ok {
			continue
		}
		out[l.AccountID] = out[l.AccountID].Add(SignedAmount(l.Side, acc.AccountType, l.Amount))
	}
	return out
}

// collect lists the non-zero balances of accounts of type t, sorted by code.
func collect(snap domain.LedgerSnapshot, balances map[string]decimal.Decimal, t domain.AccountType) ([]domain.AccountAmount, decimal.Decimal) {
	var rows []domain.AccountAmount
	total := decimal.Zero
	for _, acc := range snap.Accounts {
		if acc.AccountType != t {
			continue
		}
		bal, ok := balances[acc.AccountID]
		if !ok || bal.IsZero() {
			continue
		}
		rows = append(rows, domain.AccountAmount{AccountID: acc.AccountID, Code: acc.Code, Name: acc.Name, Amount: bal})
		total = total.Add(bal)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
	if rows == nil {
		rows = []domain.AccountAmount{}
	}
	return rows, total
}

func matchesFund(l domain.PostedLine, fundID string) bool {
	return fundID == "" || l.FundID == fundID
}

// BuildIncomeExpenditure reports income (credit - debit) and expenditure
// (debit - credit) per account for lines in [from, to], optionally for one fund.
func BuildIncomeExpenditure(snap domain.LedgerSnapshot, from *time.Time, to time.Time, fundID string) domain.IncomeExpenditureStatement {
	balances := balancesByAccount(snap, func(l domain.PostedLine) bool {
		return inRange(l.EntryDate, from, to) && matchesFund(l, fundID)
	})
	income, totalIncome := collect(snap, balances, domain.Income)
	expenditure, totalExpenditure := collect(snap, balances, domain.Expense)
	return domain.IncomeExpenditureStatement{
		From:             from,
		To:               to,
		FundID:           fundID,
		Income:           income,
		Expenditure:      expenditure,
		TotalIncome:      totalIncome,
		TotalExpenditure: totalExpenditure,
		Surplus:          totalIncome.Sub(totalExpenditure),
	}
}

// BuildBalanceSheet reports assets against liabilities and equity as of asOf.
// The surplus of income over expenditure to date is carried in equity.
func BuildBalanceSheet(snap domain.LedgerSnapshot, asOf time.Time, fundID string) domain.BalanceSheet {
	balances := balancesByAccount(snap, func(l domain.PostedLine) bool {
		return onOrBefore(l.EntryDate, asOf) && matchesFund(l, fundID)
	})
	assets, totalAssets := collect(snap, balances, domain.Asset)
	liabilities, totalLiabilities := collect(snap, balances, domain.Liability)
	equity, totalEquity := collect(snap, balances, domain.Equity)
	_, income := collect(snap, balances, domain.Income)
	_, expense := collect(snap, balances, domain.Expense)
	surplus := income.Sub(expense)
	return domain.BalanceSheet{
		AsOf:             asOf,
		FundID:           fundID,
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		Surplus:          surplus,
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		TotalEquity:      totalEquity.Add(surplus),
	}
}

// netAssetEffect is the change a line makes to its fund's net assets.
func netAssetEffect(l domain.PostedLine, acc domain.Account) decimal.Decimal {
	switch acc.AccountType {
	case domain.Asset:
		return SignedAmount(l.Side, acc.AccountType, l.Amount)
	case domain.Liability:
		return SignedAmount(l.Side, acc.AccountType, l.Amount).Neg()
	}
	return decimal.Zero
}

// BuildFundSummary computes opening + postings - reversals = closing for each fund
// using only the lines tagged to that fund.
func BuildFundSummary(snap domain.LedgerSnapshot, from *time.Time, to time.Time) domain.FundSummary {
	accounts := accountIndex(snap.Accounts)
	type acc struct{ opening, postings, reversalNet decimal.Decimal }
	perFund := make(map[string]*acc, len(snap.Funds))
	for _, f := range snap.Funds {
		perFund[f.FundID] = &acc{}
	}
	for _, l := range snap.Lines {
		a, ok := perFund[l.FundID]
		if !ok || !onOrBefore(l.EntryDate, to) {
			continue
		}
		effect := netAssetEffect(l, accounts[l.AccountID])
		switch {
		case from != nil && l.EntryDate.Before(*from):
			a.opening = a.opening.Add(effect)
		case l.Kind == domain.EntryReversal:
			a.reversalNet = a.reversalNet.Add(effect)
		default:
			a.postings = a.postings.Add(effect)
		}
	}

	funds := append([]domain.Fund(nil), snap.Funds...)
	sort.Slice(funds, func(i, j int) bool { return funds[i].FundID < funds[j].FundID })
	summary := domain.FundSummary{From: from, To: to, Rows: make([]domain.FundSummaryRow, 0, len(funds))}
	for _, f := range funds {
		a := perFund[f.FundID]
		reversals := a.reversalNet.Neg()
		movement := a.postings.Sub(reversals)
		summary.Rows = append(summary.Rows, domain.FundSummaryRow{
			FundID:    f.FundID,
			FundName:  f.Name,
			Kind:      f.Kind,
			Opening:   a.opening,
			Postings:  a.postings,
			Reversals: reversals,
			Movement:  movement,
			Closing:   a.opening.Add(movement),
		})
	}
	return summary
}

// BuildAccountLedger lists the lines of one account in [from, to] with a running
// balance in the account's normal-side convention.
func BuildAccountLedger(account domain.Account, lines []domain.PostedLine, from *time.Time, to time.Time) domain.AccountLedger {
	sorted := append([]domain.PostedLine(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EntryDate.Before(sorted[j].EntryDate)
	})

	ledger := domain.AccountLedger{Account: account, From: from, To: to, Opening: decimal.Zero, Lines: []domain.AccountLedgerLine{}}
	for _, l := range sorted {
		if l.AccountID != account.AccountID || !onOrBefore(l.EntryDate, to) {
			continue
		}
		signed := SignedAmount(l.Side, account.AccountType, l.Amount)
		if from != nil && l.EntryDate.Before(*from) {
			ledger.Opening = ledger.Opening.Add(signed)
		}
	}
	running := ledger.Opening
	for _, l := range sorted {
		if l.AccountID != account.AccountID || !inRange(l.EntryDate, from, to) {
			continue
		}
		running = running.Add(SignedAmount(l.Side, account.AccountType, l.Amount))
		ledger.Lines = append(ledger.Lines, domain.AccountLedgerLine{
			EntryID:        l.EntryID,
			TransactionID:  l.TransactionID,
			EntryDate:      l.EntryDate,
			Kind:           l.Kind,
			Side:           l.Side,
			Amount:         l.Amount,
			FundID:         l.FundID,
			RunningBalance: running,
		})
	}
	ledger.Closing = running
	return ledger
}
