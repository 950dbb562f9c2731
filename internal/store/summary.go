package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySummary aggregates spending over one calendar month. Derived, never
// stored.
type MonthlySummary struct {
	TotalSpent     decimal.Decimal
	CategoryTotals map[string]decimal.Decimal
}

// Summarize computes the monthly summary over the calendar month containing
// now, in now's location.
func Summarize(transactions []Transaction, now time.Time) MonthlySummary {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	summary := MonthlySummary{
		TotalSpent:     decimal.Zero,
		CategoryTotals: make(map[string]decimal.Decimal),
	}

	for _, tx := range transactions {
		if tx.Date.Before(monthStart) || !tx.Date.Before(monthEnd) {
			continue
		}
		summary.TotalSpent = summary.TotalSpent.Add(tx.Amount)
		summary.CategoryTotals[tx.Category] = summary.CategoryTotals[tx.Category].Add(tx.Amount)
	}

	return summary
}
