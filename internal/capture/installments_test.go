package capture

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func draftWith(amount string, installments int) Draft {
	d, _ := decimal.NewFromString(amount)
	return Draft{
		Amount:        d,
		Description:   "notebook",
		Category:      "Compras",
		PaymentMethod: "Crédito",
		Installments:  installments,
		IsExpense:     true,
	}
}

func TestExpandDraft_SingleInstallment(t *testing.T) {
	base := time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)

	records := ExpandDraft(draftWith("150.00", 1), 7, "Ana", base)

	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	rec := records[0]
	if !rec.Amount.Equal(decimal.NewFromFloat(150)) {
		t.Errorf("Amount = %s, want 150", rec.Amount)
	}
	if !rec.Date.Equal(base) {
		t.Errorf("Date = %v, want %v", rec.Date, base)
	}
	if rec.Description != "notebook" {
		t.Errorf("Description = %q, want no suffix for single installment", rec.Description)
	}
	if rec.OwnerID != 7 || rec.OwnerName != "Ana" {
		t.Errorf("owner fields = %d/%q", rec.OwnerID, rec.OwnerName)
	}
}

func TestExpandDraft_SeriesSumsToTotal(t *testing.T) {
	base := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

	for _, tt := range []struct {
		amount string
		n      int
	}{
		{"300.00", 3},
		{"100.00", 3}, // 33.33 * 2 + 33.34 remainder case
		{"999.99", 7},
		{"0.05", 4},
	} {
		t.Run(fmt.Sprintf("%s_in_%d", tt.amount, tt.n), func(t *testing.T) {
			draft := draftWith(tt.amount, tt.n)
			records := ExpandDraft(draft, 1, "Ana", base)

			if len(records) != tt.n {
				t.Fatalf("len(records) = %d, want %d", len(records), tt.n)
			}

			sum := decimal.Zero
			for _, rec := range records {
				sum = sum.Add(rec.Amount)
			}
			if !sum.Equal(draft.Amount) {
				t.Errorf("series sums to %s, want %s", sum, draft.Amount)
			}
		})
	}
}

func TestExpandDraft_ConsecutiveMonthsAndSuffixes(t *testing.T) {
	base := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	records := ExpandDraft(draftWith("300.00", 3), 1, "Ana", base)

	wantDates := []time.Time{
		base,
		time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC),
	}
	for i, rec := range records {
		if !rec.Date.Equal(wantDates[i]) {
			t.Errorf("records[%d].Date = %v, want %v", i, rec.Date, wantDates[i])
		}
		wantDesc := fmt.Sprintf("notebook (%d/3)", i+1)
		if rec.Description != wantDesc {
			t.Errorf("records[%d].Description = %q, want %q", i, rec.Description, wantDesc)
		}
		if rec.Category != "Compras" || rec.PaymentMethod != "Crédito" {
			t.Errorf("records[%d] taxonomy fields = %q/%q", i, rec.Category, rec.PaymentMethod)
		}
	}
}

func TestExpandDraft_MonthEndClamping(t *testing.T) {
	// Jan 31 + 1 month must land on the last day of February, not March.
	base := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	records := ExpandDraft(draftWith("400.00", 4), 1, "Ana", base)

	wantDates := []time.Time{
		time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC),
	}
	for i, rec := range records {
		if !rec.Date.Equal(wantDates[i]) {
			t.Errorf("records[%d].Date = %v, want %v", i, rec.Date, wantDates[i])
		}
	}
}

func TestExpandDraft_ZeroInstallmentsTreatedAsOne(t *testing.T) {
	records := ExpandDraft(draftWith("50.00", 0), 1, "Ana", time.Now())
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Category != "Compras" {
		t.Errorf("Category = %q", records[0].Category)
	}
}
