package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report.
// Debit and Credit are gross totals; NetDebit/NetCredit place the balance in one column.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	NetDebit    decimal.Decimal `json:"netDebit"`
	NetCredit   decimal.Decimal `json:"netCredit"`
}

// TrialBalance lists every account with activity up to AsOf.
type TrialBalance struct {
	AsOf           time.Time         `json:"asOf"`
	Rows           []TrialBalanceRow `json:"rows"`
	TotalDebit     decimal.Decimal   `json:"totalDebit"`
	TotalCredit    decimal.Decimal   `json:"totalCredit"`
	TotalNetDebit  decimal.Decimal   `json:"totalNetDebit"`
	TotalNetCredit decimal.Decimal   `json:"totalNetCredit"`
}

// IsBalanced reports whether both the gross and the net columns agree.
func (tb TrialBalance) IsBalanced() bool {
	return tb.TotalDebit.Equal(tb.TotalCredit) && tb.TotalNetDebit.Equal(tb.TotalNetCredit)
}

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// IncomeExpenditureStatement is the non-profit equivalent of a profit and loss report.
type IncomeExpenditureStatement struct {
	From             *time.Time      `json:"from,omitempty"`
	To               time.Time       `json:"to"`
	FundID           string          `json:"fundID,omitempty"`
	Income           []AccountAmount `json:"income"`
	Expenditure      []AccountAmount `json:"expenditure"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenditure decimal.Decimal `json:"totalExpenditure"`
	Surplus          decimal.Decimal `json:"surplus"`
}

// BalanceSheet is the statement of financial position as of a cutoff.
// Surplus is income less expenditure not yet closed into an equity account.
type BalanceSheet struct {
	AsOf             time.Time       `json:"asOf"`
	FundID           string          `json:"fundID,omitempty"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	Surplus          decimal.Decimal `json:"surplus"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
}

// IsBalanced checks the accounting equation.
func (b BalanceSheet) IsBalanced() bool {
	return b.TotalAssets.Equal(b.TotalLiabilities.Add(b.TotalEquity))
}

// FundSummaryRow is opening + postings - reversals = closing for one fund.
type FundSummaryRow struct {
	FundID    string          `json:"fundID"`
	FundName  string          `json:"fundName"`
	Kind      FundKind        `json:"kind"`
	Opening   decimal.Decimal `json:"opening"`
	Postings  decimal.Decimal `json:"postings"`
	Reversals decimal.Decimal `json:"reversals"`
	Movement  decimal.Decimal `json:"movement"`
	Closing   decimal.Decimal `json:"closing"`
}

// FundSummary holds one row per fund for a date range.
type FundSummary struct {
	From *time.Time       `json:"from,omitempty"`
	To   time.Time        `json:"to"`
	Rows []FundSummaryRow `json:"rows"`
}

// Row returns the summary row of fundID.
func (s FundSummary) Row(fundID string) (FundSummaryRow, bool) {
	for _, r := range s.Rows {
		if r.FundID == fundID {
			return r, true
		}
	}
	return FundSummaryRow{}, false
}

// AccountLedgerLine is one line of an account statement with its running balance.
type AccountLedgerLine struct {
	EntryID        string          `json:"entryID"`
	TransactionID  string          `json:"transactionID"`
	EntryDate      time.Time       `json:"entryDate"`
	Kind           EntryKind       `json:"kind"`
	Side           Side            `json:"side"`
	Amount         decimal.Decimal `json:"amount"`
	FundID         string          `json:"fundID"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AccountLedger is the statement of one account over a date range.
type AccountLedger struct {
	Account Account             `json:"account"`
	From    *time.Time          `json:"from,omitempty"`
	To      time.Time           `json:"to"`
	Opening decimal.Decimal     `json:"opening"`
	Lines   []AccountLedgerLine `json:"lines"`
	Closing decimal.Decimal     `json:"closing"`
}

// DonorContribution totals the posted income received from one payer.
type DonorContribution struct {
	Party string          `json:"party"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// DonorSummary ranks payers by what they gave in a date range, largest first.
// Income without a payer name is left out.
type DonorSummary struct {
	From  *time.Time          `json:"from,omitempty"`
	To    time.Time           `json:"to"`
	Rows  []DonorContribution `json:"rows"`
	Total decimal.Decimal     `json:"total"`
}

// CategoryAmount totals the posted transactions of one category.
type CategoryAmount struct {
	Direction Direction       `json:"direction"`
	Category  string          `json:"category"`
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
}

// CategorySummary breaks posted income and expenses down by category.
// Categories sharing a ledger account are reported separately.
type CategorySummary struct {
	From         *time.Time       `json:"from,omitempty"`
	To           time.Time        `json:"to"`
	Direction    Direction        `json:"direction,omitempty"`
	Income       []CategoryAmount `json:"income"`
	Expense      []CategoryAmount `json:"expense"`
	TotalIncome  decimal.Decimal  `json:"totalIncome"`
	TotalExpense decimal.Decimal  `json:"totalExpense"`
}

// DailyBook lists the transactions dated on one day. Reversed transactions
// are left out; the totals count posted transactions only.
type DailyBook struct {
	Date         time.Time       `json:"date"`
	Income       []Transaction   `json:"income"`
	Expense      []Transaction   `json:"expense"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
}
