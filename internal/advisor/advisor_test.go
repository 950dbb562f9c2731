package advisor

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/atenabot/atena/internal/llm"
	"github.com/atenabot/atena/internal/store"
)

type fakeCompleter struct {
	text    string
	err     error
	lastReq llm.Request
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.lastReq = req
	return f.text, f.err
}

func testProfile() *store.Profile {
	return &store.Profile{
		OwnerID:        1,
		Name:           "Maria",
		MonthlyIncome:  decimal.NewFromInt(3000),
		FixedExpenses:  decimal.NewFromInt(1200),
		VariableBudget: decimal.NewFromInt(800),
		SavingsGoal:    decimal.NewFromInt(500),
	}
}

func TestRespond_ContextCarriesDisposableAmount(t *testing.T) {
	completer := &fakeCompleter{text: "Oi, amiga!"}
	a := New(completer, zerolog.New(io.Discard))

	summary := store.MonthlySummary{
		TotalSpent: decimal.NewFromInt(400),
		CategoryTotals: map[string]decimal.Decimal{
			"Alimentação": decimal.NewFromInt(400),
		},
	}

	a.Respond(context.Background(), "posso gastar 200 num jantar?", testProfile(), nil, summary)

	userMsg := completer.lastReq.Messages[1].Content
	// 3000 - 1200 - 400 - 500
	if !strings.Contains(userMsg, "900.00") {
		t.Errorf("context missing disposable amount, got:\n%s", userMsg)
	}
	if !strings.Contains(userMsg, "Maria") || !strings.Contains(userMsg, "Alimentação") {
		t.Errorf("context missing profile or category data, got:\n%s", userMsg)
	}
	if completer.lastReq.Messages[0].Role != llm.RoleSystem {
		t.Error("persona prompt not sent as system message")
	}
}

func TestRespond_ContextLimitsRecentTransactions(t *testing.T) {
	completer := &fakeCompleter{text: "ok"}
	a := New(completer, zerolog.New(io.Discard))

	var recent []store.Transaction
	for _, desc := range []string{"um", "dois", "três", "quatro"} {
		recent = append(recent, store.Transaction{
			Date:        time.Now(),
			Description: desc,
			Amount:      decimal.NewFromInt(10),
			Category:    "Outro",
		})
	}

	a.Respond(context.Background(), "como estou?", testProfile(), recent, store.MonthlySummary{TotalSpent: decimal.Zero})

	userMsg := completer.lastReq.Messages[1].Content
	if !strings.Contains(userMsg, "três") {
		t.Errorf("third recent transaction missing from context:\n%s", userMsg)
	}
	if strings.Contains(userMsg, "quatro") {
		t.Errorf("context carries more than 3 recent transactions:\n%s", userMsg)
	}
}

func TestRespond_NoProfileContext(t *testing.T) {
	completer := &fakeCompleter{text: "ok"}
	a := New(completer, zerolog.New(io.Discard))

	a.Respond(context.Background(), "o que é CDB?", nil, nil, store.MonthlySummary{})

	userMsg := completer.lastReq.Messages[1].Content
	if !strings.Contains(userMsg, "/start") {
		t.Errorf("unregistered-user context missing /start guidance:\n%s", userMsg)
	}
}

func TestRespond_StripsControlTokens(t *testing.T) {
	completer := &fakeCompleter{
		text: "<｜begin▁of▁sentence｜>Oi, amiga!<|end_of_sentence|>",
	}
	a := New(completer, zerolog.New(io.Discard))

	got := a.Respond(context.Background(), "oi", testProfile(), nil, store.MonthlySummary{})
	if got != "Oi, amiga!" {
		t.Errorf("Respond() = %q, want control tokens stripped", got)
	}
}

func TestRespond_ApologyOnGatewayFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("all backends down")}
	a := New(completer, zerolog.New(io.Discard))

	got := a.Respond(context.Background(), "oi", testProfile(), nil, store.MonthlySummary{})
	if got != apology {
		t.Errorf("Respond() = %q, want static apology", got)
	}
}

func TestLimitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{
			name: "short reply untouched",
			in:   "Tudo certo. Pode gastar.",
			n:    4,
			want: "Tudo certo. Pode gastar.",
		},
		{
			name: "long reply truncated",
			in:   "Uma. Duas. Três. Quatro. Cinco. Seis.",
			n:    4,
			want: "Uma. Duas. Três. Quatro.",
		},
		{
			name: "ellipsis counts once",
			in:   "Hmm... deixa eu ver. Ok. Pode. Não pode.",
			n:    4,
			want: "Hmm... deixa eu ver. Ok. Pode.",
		},
		{
			name: "decimal amounts are not sentence ends",
			in:   "Amiga, sua renda é R$ 3000.00, os fixos são R$ 1200.00, a meta é R$ 500.00 e sobram R$ 1300.00 pra você este mês.",
			n:    4,
			want: "Amiga, sua renda é R$ 3000.00, os fixos são R$ 1200.00, a meta é R$ 500.00 e sobram R$ 1300.00 pra você este mês.",
		},
		{
			name: "truncation lands between money sentences",
			in:   "Sua renda é R$ 3000.00. Os fixos somam R$ 1200.00. Sobram R$ 1300.00 pra você. Vai com calma.",
			n:    2,
			want: "Sua renda é R$ 3000.00. Os fixos somam R$ 1200.00.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := limitSentences(tt.in, tt.n); got != tt.want {
				t.Errorf("limitSentences(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
