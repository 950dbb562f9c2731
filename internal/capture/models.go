// Package capture implements the expense-capture pipeline: a deterministic
// pattern gate, a model-backed structured extractor, installment expansion
// and persistence.
package capture

import (
	"github.com/shopspring/decimal"

	"github.com/atenabot/atena/internal/taxonomy"
)

// Draft is an in-memory candidate transaction produced by the extractor,
// before installment expansion and persistence. Raw model strings never
// reach a Draft: category and payment method are already sanitized against
// the taxonomy.
type Draft struct {
	Amount        decimal.Decimal
	Description   string
	Category      string
	PaymentMethod string
	Installments  int
	IsExpense     bool
}

// nonExpenseDraft is the safe default the extractor falls back to on any
// failure: never blocks the capture flow, never claims to be an expense.
func nonExpenseDraft() Draft {
	return Draft{
		Amount:        decimal.Zero,
		Category:      taxonomy.CategoryOther,
		PaymentMethod: taxonomy.PaymentOther,
		Installments:  1,
		IsExpense:     false,
	}
}
