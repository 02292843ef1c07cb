package calculator

import "github.com/shopspring/decimal"

// Uncategorized is the category used for expenses recorded without one.
const Uncategorized = "uncategorized"

// ExpenseForSummary carries the fields needed to summarize spending.
type ExpenseForSummary struct {
	PayerID  string
	Amount   decimal.Decimal
	Category string
}

// ExpenseSummary totals an event's spending.
type ExpenseSummary struct {
	Total      decimal.Decimal
	Count      int
	ByCategory map[string]decimal.Decimal
	ByPayer    map[string]decimal.Decimal
}

// SummarizeExpenses totals expenses overall, per category and per payer.
func SummarizeExpenses(expenses []ExpenseForSummary) ExpenseSummary {
	summary := ExpenseSummary{
		ByCategory: make(map[string]decimal.Decimal),
		ByPayer:    make(map[string]decimal.Decimal),
	}
	for _, e := range expenses {
		category := e.Category
		if category == "" {
			category = Uncategorized
		}
		summary.Total = summary.Total.Add(e.Amount)
		summary.Count++
		summary.ByCategory[category] = summary.ByCategory[category].Add(e.Amount)
		summary.ByPayer[e.PayerID] = summary.ByPayer[e.PayerID].Add(e.Amount)
	}
	return summary
}
