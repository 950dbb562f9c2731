package capture

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atenabot/atena/internal/store"
)

// ExpandDraft turns a draft into its installment series: one record per
// installment, dated on successive calendar months starting at baseDate.
// The amount is split equally at two decimal places with the rounding
// remainder carried by the first installment, so the series always sums to
// the draft amount. Multi-installment descriptions get an "(i/N)" suffix for
// human traceability.
func ExpandDraft(draft Draft, ownerID int64, ownerName string, baseDate time.Time) []store.Transaction {
	count := draft.Installments
	if count < 1 {
		count = 1
	}

	records := make([]store.Transaction, 0, count)
	if count == 1 {
		records = append(records, store.Transaction{
			OwnerID:       ownerID,
			OwnerName:     ownerName,
			Date:          baseDate,
			Description:   draft.Description,
			Amount:        draft.Amount,
			PaymentMethod: draft.PaymentMethod,
			Category:      draft.Category,
		})
		return records
	}

	n := decimal.NewFromInt(int64(count))
	per := draft.Amount.Div(n).Round(2)
	first := draft.Amount.Sub(per.Mul(n.Sub(decimal.NewFromInt(1))))

	for i := 0; i < count; i++ {
		amount := per
		if i == 0 {
			amount = first
		}
		records = append(records, store.Transaction{
			OwnerID:       ownerID,
			OwnerName:     ownerName,
			Date:          addMonthsClamped(baseDate, i),
			Description:   fmt.Sprintf("%s (%d/%d)", draft.Description, i+1, count),
			Amount:        amount,
			PaymentMethod: draft.PaymentMethod,
			Category:      draft.Category,
		})
	}

	return records
}

// addMonthsClamped adds calendar months keeping the day-of-month, clamped to
// the target month's last valid day (Jan 31 + 1 month = Feb 28/29, not
// Mar 3 the way AddDate normalizes it).
func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)

	day := t.Day()
	if last := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
