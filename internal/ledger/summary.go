package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"homeledger/internal/models"
	"homeledger/pkg/utils"
)

type MonthlySummary struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

type CategorySummary struct {
	CategoryID string          `json:"category_id"`
	Total      decimal.Decimal `json:"total"`
	Percentage decimal.Decimal `json:"percentage"`
}

// MonthlyTotals sums income and expenses per calendar month over
// whatever set the caller filtered, oldest month first.
func MonthlyTotals(txs []models.Transaction) []MonthlySummary {
	byMonth := make(map[string]*MonthlySummary)
	for _, t := range txs {
		month := t.Date.UTC().Format("2006-01")
		m, ok := byMonth[month]
		if !ok {
			m = &MonthlySummary{Month: month}
			byMonth[month] = m
		}
		switch t.Kind {
		case models.KindIncome:
			m.Income = m.Income.Add(t.Amount)
		case models.KindExpense:
			m.Expenses = m.Expenses.Add(t.Amount)
		}
	}

	out := make([]MonthlySummary, 0, len(byMonth))
	for _, m := range byMonth {
		m.Net = m.Income.Sub(m.Expenses)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// CategoryTotals breaks total expenses down by category, largest
// first. Each percentage is the category's slice of all expenses in
// the set; with no expenses every percentage is zero.
func CategoryTotals(txs []models.Transaction) []CategorySummary {
	totals := make(map[string]decimal.Decimal)
	totalExpenses := decimal.Zero
	for _, t := range txs {
		if t.Kind != models.KindExpense {
			continue
		}
		totals[t.CategoryID] = totals[t.CategoryID].Add(t.Amount)
		totalExpenses = totalExpenses.Add(t.Amount)
	}

	out := make([]CategorySummary, 0, len(totals))
	for id, total := range totals {
		out = append(out, CategorySummary{
			CategoryID: id,
			Total:      total,
			Percentage: utils.PercentOf(total, totalExpenses),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}
