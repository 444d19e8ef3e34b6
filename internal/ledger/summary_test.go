package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeledger/internal/models"
)

func summarySet() []models.Transaction {
	return []models.Transaction{
		{ID: "t1", Amount: dec("1200"), Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Kind: models.KindIncome, CategoryID: "cat-salary"},
		{ID: "t2", Amount: dec("300"), Date: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), Kind: models.KindExpense, CategoryID: "cat-groceries"},
		{ID: "t3", Amount: dec("100"), Date: time.Date(2025, 4, 25, 0, 0, 0, 0, time.UTC), Kind: models.KindExpense, CategoryID: "cat-fun"},
		{ID: "t4", Amount: dec("1200"), Date: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), Kind: models.KindIncome, CategoryID: "cat-salary"},
		{ID: "t5", Amount: dec("250"), Date: time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC), Kind: models.KindExpense, CategoryID: "cat-groceries"},
	}
}

func TestMonthlyTotals(t *testing.T) {
	got := MonthlyTotals(summarySet())
	require.Len(t, got, 2)

	april := got[0]
	assert.Equal(t, "2025-04", april.Month)
	assert.Equal(t, "1200", april.Income.String())
	assert.Equal(t, "400", april.Expenses.String())
	assert.Equal(t, "800", april.Net.String())

	may := got[1]
	assert.Equal(t, "2025-05", may.Month)
	assert.Equal(t, "1200", may.Income.String())
	assert.Equal(t, "250", may.Expenses.String())
	assert.Equal(t, "950", may.Net.String())
}

func TestMonthlyTotals_Empty(t *testing.T) {
	assert.Empty(t, MonthlyTotals(nil))
}

func TestCategoryTotals_ExpensesOnly(t *testing.T) {
	got := CategoryTotals(summarySet())
	require.Len(t, got, 2)

	// Income categories never show up; order is biggest total first
	groceries := got[0]
	assert.Equal(t, "cat-groceries", groceries.CategoryID)
	assert.Equal(t, "550", groceries.Total.String())
	assert.Equal(t, "84.62", groceries.Percentage.String())

	fun := got[1]
	assert.Equal(t, "cat-fun", fun.CategoryID)
	assert.Equal(t, "100", fun.Total.String())
	assert.Equal(t, "15.38", fun.Percentage.String())
}

func TestCategoryTotals_NoExpenses(t *testing.T) {
	onlyIncome := []models.Transaction{
		{ID: "t1", Amount: dec("1200"), Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Kind: models.KindIncome, CategoryID: "cat-salary"},
	}
	assert.Empty(t, CategoryTotals(onlyIncome))

	// A zero-total expense set yields zero percentages, not a division
	// error
	zeroExpense := []models.Transaction{
		{ID: "t2", Date: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), Kind: models.KindExpense, CategoryID: "cat-fun"},
	}
	got := CategoryTotals(zeroExpense)
	require.Len(t, got, 1)
	assert.True(t, got[0].Total.IsZero())
	assert.True(t, got[0].Percentage.IsZero())
}

func TestCategoryTotals_TieBreaksOnCategoryID(t *testing.T) {
	even := []models.Transaction{
		{ID: "t1", Amount: dec("50"), Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Kind: models.KindExpense, CategoryID: "cat-b"},
		{ID: "t2", Amount: dec("50"), Date: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), Kind: models.KindExpense, CategoryID: "cat-a"},
	}

	got := CategoryTotals(even)
	require.Len(t, got, 2)
	assert.Equal(t, "cat-a", got[0].CategoryID)
	assert.Equal(t, "cat-b", got[1].CategoryID)
	assert.Equal(t, "50", got[0].Percentage.String())
}
