package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/studio-console-api/internal/models"
)

// FinanceFilter restricts transactions to [From, To) by effective date. A nil bound is open.
type FinanceFilter struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Active reports whether either bound is set.
func (f FinanceFilter) Active() bool {
	return f.From != nil || f.To != nil
}

// Includes reports whether a transaction passes the filter. Undated transactions only pass an
// open filter.
func (f FinanceFilter) Includes(tx models.TransactionRecord) bool {
	if !f.Active() {
		return true
	}
	if tx.Date == nil {
		return false
	}
	if f.From != nil && tx.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && !tx.Date.Before(*f.To) {
		return false
	}
	return true
}

// MonthFilter covers the calendar month containing now.
func MonthFilter(now time.Time) FinanceFilter {
	w := NewWindow(now)
	return FinanceFilter{From: &w.MonthStart, To: &w.MonthEnd}
}

// CategoryTotal is the income and expense split of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
}

// MonthTotal is the income and expense split of one "YYYY-MM" month.
type MonthTotal struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// FinanceSummary is the financial rollup of a transaction set.
type FinanceSummary struct {
	Filter            FinanceFilter   `json:"filter"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	NetProfit         decimal.Decimal `json:"net_profit"`
	PendingPayments   decimal.Decimal `json:"pending_payments"`
	TransactionCount  int             `json:"transaction_count"`
	UnclassifiedCount int             `json:"unclassified_count"`
	ByCategory        []CategoryTotal `json:"by_category"`
	ByMonth           []MonthTotal    `json:"by_month"`
}

// SummarizeFinance totals income and expenses within the filter. Transactions of unknown type
// are counted but contribute to no total; undated ones are left out of the monthly split.
func SummarizeFinance(txs []models.TransactionRecord, filter FinanceFilter) FinanceSummary {
	summary := FinanceSummary{
		Filter:          filter,
		TotalIncome:     decimal.Zero,
		TotalExpenses:   decimal.Zero,
		PendingPayments: decimal.Zero,
	}
	categories := map[string]*CategoryTotal{}
	months := map[string]*MonthTotal{}

	for _, tx := range txs {
		if !filter.Includes(tx) {
			continue
		}
		summary.TransactionCount++
		if tx.Type == models.TransactionUnknown {
			summary.UnclassifiedCount++
			continue
		}

		cat := categories[Category(tx.Category)]
		if cat == nil {
			cat = &CategoryTotal{Category: Category(tx.Category), Income: decimal.Zero, Expense: decimal.Zero}
			categories[cat.Category] = cat
		}
		var month *MonthTotal
		if tx.Date != nil {
			key := tx.Date.Format("2006-01")
			month = months[key]
			if month == nil {
				month = &MonthTotal{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
				months[key] = month
			}
		}

		switch tx.Type {
		case models.TransactionIncome:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
			cat.Income = cat.Income.Add(tx.Amount)
			if month != nil {
				month.Income = month.Income.Add(tx.Amount)
			}
			if tx.IsPending() {
				summary.PendingPayments = summary.PendingPayments.Add(tx.Amount)
			}
		case models.TransactionExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(tx.Amount)
			cat.Expense = cat.Expense.Add(tx.Amount)
			if month != nil {
				month.Expense = month.Expense.Add(tx.Amount)
			}
		}
	}
	summary.NetProfit = summary.TotalIncome.Sub(summary.TotalExpenses)

	summary.ByCategory = make([]CategoryTotal, 0, len(categories))
	for _, cat := range categories {
		summary.ByCategory = append(summary.ByCategory, *cat)
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		return summary.ByCategory[i].Category < summary.ByCategory[j].Category
	})

	summary.ByMonth = make([]MonthTotal, 0, len(months))
	for _, month := range months {
		month.Net = month.Income.Sub(month.Expense)
		summary.ByMonth = append(summary.ByMonth, *month)
	}
	sort.Slice(summary.ByMonth, func(i, j int) bool {
		return summary.ByMonth[i].Month < summary.ByMonth[j].Month
	})
	return summary
}
