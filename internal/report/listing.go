// Package report produces expense listings and the category chart.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/atenabot/atena/internal/store"
)

// Period selects the slice of history a listing covers.
type Period int

const (
	PeriodWeek Period = iota
	PeriodMonth
	PeriodAll
)

// Listing trigger phrases, checked in order: the more specific periods
// first, the generic catch-alls last.
var (
	weekPhrases = []string{
		"gastos da semana",
		"meus gastos da semana",
		"gastei essa semana",
		"gastos semanais",
	}
	monthPhrases = []string{
		"gastos do mês",
		"meus gastos do mês",
		"gastei este mês",
		"gastos mensais",
	}
	allPhrases = []string{
		"com o que já gastei",
		"em que já gastei",
		"meus gastos",
		"o que já gastei",
		"listar gastos",
		"/gastos",
	}
)

// MatchListing reports whether the utterance asks for an expense listing
// and for which period.
func MatchListing(text string) (Period, bool) {
	lower := strings.ToLower(text)
	for _, p := range weekPhrases {
		if strings.Contains(lower, p) {
			return PeriodWeek, true
		}
	}
	for _, p := range monthPhrases {
		if strings.Contains(lower, p) {
			return PeriodMonth, true
		}
	}
	for _, p := range allPhrases {
		if strings.Contains(lower, p) {
			return PeriodAll, true
		}
	}
	return 0, false
}

// FormatListing renders the user's transactions for the period as a
// plain-text message. Transactions are expected most-recent-first, the way
// the store returns them.
func FormatListing(transactions []store.Transaction, period Period, now time.Time) string {
	if len(transactions) == 0 {
		return "Você ainda não registrou nenhum gasto."
	}

	var cutoff time.Time
	var header, empty string
	switch period {
	case PeriodWeek:
		// Week starts on Sunday.
		cutoff = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, -int(now.Weekday()))
		header = "Seus gastos da semana:"
		empty = "Você não teve gastos registrados nesta semana."
	case PeriodMonth:
		cutoff = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		header = "Seus gastos do mês:"
		empty = "Você não teve gastos registrados neste mês."
	default:
		header = "Seus gastos registrados:"
	}

	var lines []string
	for _, tx := range transactions {
		if !cutoff.IsZero() && tx.Date.Before(cutoff) {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s (R$ %s)",
			tx.Date.Format("2006-01-02"), tx.Description, tx.Amount.StringFixed(2)))
	}
	if len(lines) == 0 {
		return empty
	}

	return header + "\n" + strings.Join(lines, "\n")
}
