package accounting

import (
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/shopspring/decimal"
)

// The builders below work on transactions rather than ledger lines: they
// report by payer and category, which the chart of accounts does not carry.
// Only POSTED transactions count; a REVERSED one is netted out entirely.

func postedInRange(t domain.Transaction, from *time.Time, to time.Time) bool {
	return t.State == domain.StatePosted && inRange(t.TransactionDate, from, to)
}

// BuildDonorSummary groups posted income by payer name, largest total first.
func BuildDonorSummary(txns []domain.Transaction, from *time.Time, to time.Time) domain.DonorSummary {
	byParty := make(map[string]*domain.DonorContribution)
	total := decimal.Zero
	for _, t := range txns {
		party := strings.TrimSpace(t.Party)
		if t.Direction != domain.DirectionIncome || party == "" || !postedInRange(t, from, to) {
			continue
		}
		row, ok := byParty[party]
		if !ok {
			row = &domain.DonorContribution{Party: party, Total: decimal.Zero}
			byParty[party] = row
		}
		row.Count++
		row.Total = row.Total.Add(t.Amount)
		total = total.Add(t.Amount)
	}

	rows := make([]domain.DonorContribution, 0, len(byParty))
	for _, r := range byParty {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].Party < rows[j].Party
	})
	return domain.DonorSummary{From: from, To: to, Rows: rows, Total: total}
}

// BuildCategorySummary totals posted transactions per (direction, category).
// An empty direction reports both.
func BuildCategorySummary(txns []domain.Transaction, from *time.Time, to time.Time, direction domain.Direction) domain.CategorySummary {
	type key struct {
		direction domain.Direction
		category  string
	}
	byCategory := make(map[key]*domain.CategoryAmount)
	for _, t := range txns {
		if direction != "" && t.Direction != direction {
			continue
		}
		if !postedInRange(t, from, to) {
			continue
		}
		k := key{t.Direction, t.Category}
		row, ok := byCategory[k]
		if !ok {
			row = &domain.CategoryAmount{Direction: t.Direction, Category: t.Category, Total: decimal.Zero}
			byCategory[k] = row
		}
		row.Count++
		row.Total = row.Total.Add(t.Amount)
	}

	summary := domain.CategorySummary{
		From:         from,
		To:           to,
		Direction:    direction,
		Income:       []domain.CategoryAmount{},
		Expense:      []domain.CategoryAmount{},
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, r := range byCategory {
		if r.Direction == domain.DirectionIncome {
			summary.Income = append(summary.Income, *r)
			summary.TotalIncome = summary.TotalIncome.Add(r.Total)
		} else {
			summary.Expense = append(summary.Expense, *r)
			summary.TotalExpense = summary.TotalExpense.Add(r.Total)
		}
	}
	byName := func(rows []domain.CategoryAmount) func(i, j int) bool {
		return func(i, j int) bool { return rows[i].Category < rows[j].Category }
	}
	sort.Slice(summary.Income, byName(summary.Income))
	sort.Slice(summary.Expense, byName(summary.Expense))
	return summary
}

// BuildDailyBook lists the transactions of one day in creation order.
func BuildDailyBook(txns []domain.Transaction, date time.Time) domain.DailyBook {
	date = domain.DateOnly(date)
	book := domain.DailyBook{
		Date:         date,
		Income:       []domain.Transaction{},
		Expense:      []domain.Transaction{},
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, t := range txns {
		if t.State == domain.StateReversed || !domain.DateOnly(t.TransactionDate).Equal(date) {
			continue
		}
		posted := t.State == domain.StatePosted
		if t.Direction == domain.DirectionIncome {
			book.Income = append(book.Income, t)
			if posted {
				book.TotalIncome = book.TotalIncome.Add(t.Amount)
			}
		} else {
			book.Expense = append(book.Expense, t)
			if posted {
				book.TotalExpense = book.TotalExpense.Add(t.Amount)
			}
		}
	}
	byCreation := func(rows []domain.Transaction) func(i, j int) bool {
		return func(i, j int) bool {
			if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
				return rows[i].CreatedAt.Before(rows[j].CreatedAt)
			}
			return rows[i].TransactionID < rows[j].TransactionID
		}
	}
	sort.Slice(book.Income, byCreation(book.Income))
	sort.Slice(book.Expense, byCreation(book.Expense))
	return book
}
