// Package taxonomy defines the fixed category and payment-method
// enumerations every persisted transaction is validated against.
package taxonomy

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CategoryOther is the catch-all category every unmatched string maps to.
const CategoryOther = "Outro"

// PaymentOther is the catch-all payment method.
const PaymentOther = "Outro"

// Categories is the fixed expense taxonomy, in declaration order.
// Declaration order doubles as the fuzzy-match tie-break.
var Categories = []string{
	"Alimentação",
	"Transporte",
	"Moradia",
	"Lazer",
	"Saúde",
	"Educação",
	"Compras",
	"Dívidas",
	CategoryOther,
}

// PaymentMethods is the fixed payment-method taxonomy, in declaration order.
var PaymentMethods = []string{
	"Pix",
	"Crédito",
	"Débito",
	"Cartão",
	"Dinheiro",
	PaymentOther,
}

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize folds a string for taxonomy comparison: diacritics stripped,
// lowercased, surrounding whitespace removed.
func Normalize(s string) string {
	folded, _, err := transform.String(foldChain, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// MatchCategory maps a raw model-returned category string onto the taxonomy.
// The match is fuzzy: after normalization, equality or substring containment
// in either direction counts. The first declared entry that matches wins, so
// ties between overlapping entries resolve deterministically. Anything else
// maps to CategoryOther.
func MatchCategory(raw string) string {
	return match(raw, Categories, CategoryOther)
}

// MatchPaymentMethod maps a raw payment-method string onto the taxonomy with
// the same fuzzy rules as MatchCategory.
func MatchPaymentMethod(raw string) string {
	return match(raw, PaymentMethods, PaymentOther)
}

func match(raw string, entries []string, fallback string) string {
	normRaw := Normalize(raw)
	if normRaw == "" {
		return fallback
	}
	for _, entry := range entries {
		normEntry := Normalize(entry)
		if normRaw == normEntry ||
			strings.Contains(normEntry, normRaw) ||
			strings.Contains(normRaw, normEntry) {
			return entry
		}
	}
	return fallback
}
