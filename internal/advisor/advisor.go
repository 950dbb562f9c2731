// Package advisor implements the conversational responder: free-form
// financial questions answered under the Atena persona, grounded on the
// user's profile and recent spending.
package advisor

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/atenabot/atena/internal/llm"
	"github.com/atenabot/atena/internal/store"
)

// apology is returned whenever the gateway is exhausted; a raw error never
// reaches the user.
const apology = "Desculpa, amiga, não consegui pensar em uma resposta agora. Tenta de novo daqui a pouco?"

// maxReplySentences caps how much of a rambling completion is forwarded.
const maxReplySentences = 4

// personaPrompt is the fixed persona and policy contract for the assistant.
const personaPrompt = `Você é a "Atena", assistente financeira pessoal.
Sua personalidade é casual, empática e parceira, como uma amiga que entende de finanças e quer ajudar, não julgar.
Você NUNCA usa Markdown. Fala em frases curtas, com tom feminino ("amiga", "a gente", "tô vendo aqui...").

Sua missão: dar a real sobre as finanças da usuária, de forma tranquila e construtiva. Aconselhar, nunca dar bronca.

Como agir (obrigatório):
1. Tom feminino e casual. Evite termos como "amigo" ou "mano".
2. Use os números do contexto, com empatia. Seja específica, mas com calma.
3. Mostre o impacto de um gasto antes de desaconselhar.
4. Quando desaconselhar, sempre ofereça um plano B.
5. SEMPRE texto puro. NUNCA use tokens como "<|begin_of_sentence|>" ou "<|end_of_sentence|>".`

// controlTokens matches leaked pseudo-tokens some models wrap their output
// in, both the ASCII and fullwidth-bar variants.
var controlTokens = regexp.MustCompile(`<[|｜][^<>]*[|｜]>`)

// Completer is the slice of the model gateway the advisor consumes.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Advisor answers free-form questions through the model gateway.
type Advisor struct {
	gateway Completer
	log     zerolog.Logger
}

// New creates an advisor over the given gateway.
func New(gateway Completer, log zerolog.Logger) *Advisor {
	return &Advisor{gateway: gateway, log: log}
}

// Respond builds the user-context document, asks the gateway for a reply
// under the persona contract, and post-processes the completion. On total
// gateway failure it returns a static apology instead of an error.
func (a *Advisor) Respond(ctx context.Context, utterance string, profile *store.Profile, recent []store.Transaction, summary store.MonthlySummary) string {
	contextDoc := buildContext(profile, recent, summary)

	text, err := a.gateway.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: personaPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf("%s\n\nPERGUNTA DA USUÁRIA:\n%q", contextDoc, utterance)},
		},
	})
	if err != nil {
		a.log.Error().Err(err).Msg("Advisor completion failed, returning apology")
		return apology
	}

	reply := strings.TrimSpace(controlTokens.ReplaceAllString(text, ""))
	if reply == "" {
		return apology
	}
	return limitSentences(reply, maxReplySentences)
}

// buildContext assembles the data block the model grounds its answer on.
func buildContext(profile *store.Profile, recent []store.Transaction, summary store.MonthlySummary) string {
	if profile == nil {
		return "A usuária ainda não finalizou o cadastro. Responda à pergunta de forma geral, sem dados pessoais. " +
			"Se ela perguntar sobre os próprios gastos, diga que precisa se cadastrar com /start primeiro."
	}

	var b strings.Builder
	b.WriteString("## Contexto da Usuária ##\n")
	fmt.Fprintf(&b, "Nome: %s\n", profile.Name)
	fmt.Fprintf(&b, "Renda Mensal: R$ %s\n", money(profile.MonthlyIncome))
	fmt.Fprintf(&b, "Gastos Fixos: R$ %s\n", money(profile.FixedExpenses))
	fmt.Fprintf(&b, "Meta de Poupança Mensal: R$ %s\n", money(profile.SavingsGoal))

	b.WriteString("\n## Situação do Mês Atual ##\n")
	fmt.Fprintf(&b, "Total Gasto no Mês (Variáveis): R$ %s\n", money(summary.TotalSpent))
	if len(summary.CategoryTotals) > 0 {
		b.WriteString("Gastos por Categoria (Mês Atual):\n")
		for category, total := range summary.CategoryTotals {
			fmt.Fprintf(&b, "- %s: R$ %s\n", category, money(total))
		}
	}

	disposable := profile.MonthlyIncome.
		Sub(profile.FixedExpenses).
		Sub(summary.TotalSpent).
		Sub(profile.SavingsGoal)
	fmt.Fprintf(&b, "Dinheiro Disponível (Renda - Fixos - Variáveis - Meta Poupança): R$ %s\n", money(disposable))

	if len(recent) > 0 {
		b.WriteString("\nÚltimos gastos registrados:\n")
		for i, tx := range recent {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "- %s: %s (Categoria: %s) - R$ %s\n",
				tx.Date.Format("2006-01-02"), tx.Description, tx.Category, money(tx.Amount))
		}
	}

	return b.String()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// limitSentences keeps at most n sentences of a reply. A terminator only
// ends a sentence when followed by whitespace or the end of the text, so
// decimal points in money amounts ("R$ 1300.00") and ellipsis runs never
// consume the budget.
func limitSentences(s string, n int) string {
	count := 0
	runes := []rune(s)
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		count++
		if count == n {
			return strings.TrimSpace(string(runes[:i+1]))
		}
	}
	return s
}
