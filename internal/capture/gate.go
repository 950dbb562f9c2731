package capture

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// paymentPhrase recognizes the payment-method phrases users attach to an
// expense ("no pix", "no cartão", ...), with and without diacritics.
const paymentPhrase = `no cart[ãa]o|no dinheiro|no pix|no d[ée]bito|no cr[ée]dito`

// expensePattern is the deterministic pre-filter for expense utterances: a
// trigger verb, an optional description, an optional payment phrase before
// or after the amount, and a decimal amount with comma or dot separator.
var expensePattern = regexp.MustCompile(
	`(?i)(comprei|gastei|paguei|usei|passei|enviei|transferi)\s*(.*?)\s*(` + paymentPhrase + `)?\s*(?:por|de|=)?\s*(\d+(?:[.,]\d+)?)(?:\s*(` + paymentPhrase + `))?`)

// GateMatch is the pattern gate's parse of an expense utterance. It is the
// fallback source of amount and description when the extractor produces no
// usable amount.
type GateMatch struct {
	Amount      decimal.Decimal
	Description string
	PaymentHint string
}

// MatchExpense applies the pattern gate to an utterance. It reports false
// for anything that does not look like an expense statement, keeping
// ordinary chat away from the costlier extractor path.
func MatchExpense(text string) (GateMatch, bool) {
	m := expensePattern.FindStringSubmatch(text)
	if m == nil {
		return GateMatch{}, false
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(m[4], ",", "."))
	if err != nil {
		return GateMatch{}, false
	}

	hint := m[3]
	if hint == "" {
		hint = m[5]
	}
	hint = strings.TrimSpace(strings.TrimPrefix(strings.ToLower(hint), "no "))

	return GateMatch{
		Amount:      amount,
		Description: strings.TrimSpace(m[2]),
		PaymentHint: hint,
	}, true
}
