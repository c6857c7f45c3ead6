package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studio-console-api/internal/models"
)

func TestSummarizeFinanceIncomeMinusExpense(t *testing.T) {
	txs := DecodeTransactions([]models.Document{
		doc("t1", map[string]interface{}{"type": "income", "amount": "500", "date": "2024-03-02"}),
		doc("t2", map[string]interface{}{"type": "expense", "amount": 200, "date": "2024-03-05"}),
	}, time.UTC)

	summary := SummarizeFinance(txs, MonthFilter(refNow))

	assert.Equal(t, "500", summary.TotalIncome.String())
	assert.Equal(t, "200", summary.TotalExpenses.String())
	assert.Equal(t, "300", summary.NetProfit.String())
	assert.Equal(t, 2, summary.TransactionCount)
}

func TestSummarizeFinanceSplitsAndPending(t *testing.T) {
	txs := DecodeTransactions([]models.Document{
		doc("t1", map[string]interface{}{"type": "income", "amount": "100.25", "category": "Membership", "date": "2024-02-10", "status": "pending"}),
		doc("t2", map[string]interface{}{"type": "income", "amount": 50, "date": "2024-03-01"}),
		doc("t3", map[string]interface{}{"type": "expense", "amount": "80", "category": "Rent", "date": "2024-03-03"}),
		doc("t4", map[string]interface{}{"type": "expense", "amount": "garbage", "category": "Rent"}),
		doc("t5", map[string]interface{}{"type": "refund", "amount": 999}),
	}, time.UTC)

	summary := SummarizeFinance(txs, FinanceFilter{})

	assert.Equal(t, "150.25", summary.TotalIncome.String())
	assert.Equal(t, "80", summary.TotalExpenses.String())
	assert.Equal(t, "70.25", summary.NetProfit.String())
	assert.Equal(t, "100.25", summary.PendingPayments.String())
	assert.Equal(t, 5, summary.TransactionCount)
	assert.Equal(t, 1, summary.UnclassifiedCount)

	require.Len(t, summary.ByCategory, 3)
	assert.Equal(t, "Membership", summary.ByCategory[0].Category)
	assert.Equal(t, OtherCategory, summary.ByCategory[1].Category)
	assert.Equal(t, "50", summary.ByCategory[1].Income.String())
	assert.Equal(t, "Rent", summary.ByCategory[2].Category)
	assert.Equal(t, "80", summary.ByCategory[2].Expense.String())

	require.Len(t, summary.ByMonth, 2)
	assert.Equal(t, "2024-02", summary.ByMonth[0].Month)
	assert.Equal(t, "2024-03", summary.ByMonth[1].Month)
	assert.Equal(t, "-30", summary.ByMonth[1].Net.String())
}

func TestFinanceFilterDropsUndatedAndOutOfRange(t *testing.T) {
	march := day(2024, 3, 5)
	april := day(2024, 4, 1)
	txs := []models.TransactionRecord{
		{ID: "in", Type: models.TransactionIncome, Amount: mustDecimal("10"), Date: march},
		{ID: "boundary", Type: models.TransactionIncome, Amount: mustDecimal("20"), Date: april},
		{ID: "undated", Type: models.TransactionIncome, Amount: mustDecimal("40")},
	}

	filtered := SummarizeFinance(txs, MonthFilter(refNow))
	assert.Equal(t, "10", filtered.TotalIncome.String())
	assert.Equal(t, 1, filtered.TransactionCount)

	open := SummarizeFinance(txs, FinanceFilter{})
	assert.Equal(t, "70", open.TotalIncome.String())
	assert.Len(t, open.ByMonth, 2)
}

func TestSummarizeFinanceEmpty(t *testing.T) {
	summary := SummarizeFinance(nil, FinanceFilter{})
	assert.True(t, summary.TotalIncome.IsZero())
	assert.True(t, summary.NetProfit.IsZero())
	assert.Empty(t, summary.ByCategory)
	assert.Empty(t, summary.ByMonth)
}

func TestNetProfitIdentityHoldsForAnyFilter(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	for i := 0; i < 200; i++ {
		txs := randomTransactions(r, 40)
		filters := []FinanceFilter{{}, MonthFilter(refNow)}
		from := refNow.AddDate(0, 0, -r.Intn(30))
		filters = append(filters, FinanceFilter{From: &from})

		for _, filter := range filters {
			summary := SummarizeFinance(txs, filter)
			assert.True(t, summary.NetProfit.Equal(summary.TotalIncome.Sub(summary.TotalExpenses)))
			assert.Equal(t, summary, SummarizeFinance(txs, filter))
		}
	}
}

func TestSummarizeFinanceIsIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(19))
	txs := randomTransactions(r, 60)

	for _, filter := range []FinanceFilter{{}, MonthFilter(refNow)} {
		first := SummarizeFinance(txs, filter)
		second := SummarizeFinance(txs, filter)
		assert.Equal(t, first, second)
	}
}
