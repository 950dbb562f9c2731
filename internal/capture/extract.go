package capture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/atenabot/atena/internal/llm"
	"github.com/atenabot/atena/internal/taxonomy"
)

// ErrExtractionParse signals that the model output carried no parseable JSON
// object.
var ErrExtractionParse = errors.New("capture: no parseable JSON object in model output")

// Completer is the slice of the model gateway the extractor consumes.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Extractor turns a raw utterance into a sanitized transaction draft using
// the model gateway.
type Extractor struct {
	gateway Completer
	log     zerolog.Logger
}

// NewExtractor creates an extractor over the given gateway.
func NewExtractor(gateway Completer, log zerolog.Logger) *Extractor {
	return &Extractor{gateway: gateway, log: log}
}

// Extract asks the gateway for a structured draft and sanitizes the result.
// It never fails: any error (gateway exhaustion, malformed JSON) degrades to
// a non-expense draft so the caller's fallback path can take over.
func (e *Extractor) Extract(ctx context.Context, utterance string) Draft {
	text, err := e.gateway.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: buildExtractionPrompt()},
			{Role: llm.RoleUser, Content: fmt.Sprintf("Mensagem do usuário:\n%q", utterance)},
		},
		WantsJSON: true,
	})
	if err != nil {
		e.log.Warn().Err(err).Msg("Extraction completion failed, using safe default draft")
		return nonExpenseDraft()
	}

	draft, err := parseDraft(text, utterance)
	if err != nil {
		e.log.Warn().
			Err(err).
			Str("raw", truncateForLog(text)).
			Msg("Extraction parse failed, using safe default draft")
		return nonExpenseDraft()
	}

	return draft
}

// modelDraft mirrors the JSON schema the prompt requests. Field types are
// deliberately loose: backends without a strict-JSON mode return whatever
// they like, so every field is coerced defensively.
type modelDraft struct {
	Valor          any    `json:"valor"`
	Descricao      string `json:"descricao"`
	Categoria      string `json:"categoria"`
	FormaPagamento string `json:"forma_pagamento"`
	Parcelas       any    `json:"parcelas"`
	EhGasto        any    `json:"eh_gasto"`
}

// parseDraft locates the JSON object in the raw completion (the model may
// wrap it in prose or code fences), decodes it, and sanitizes every field
// against the taxonomy and safe defaults.
func parseDraft(raw, utterance string) (Draft, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return Draft{}, ErrExtractionParse
	}

	var parsed modelDraft
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return Draft{}, fmt.Errorf("%w: %v", ErrExtractionParse, err)
	}

	draft := Draft{
		Amount:        coerceAmount(parsed.Valor),
		Description:   strings.TrimSpace(parsed.Descricao),
		Category:      taxonomy.MatchCategory(parsed.Categoria),
		PaymentMethod: taxonomy.MatchPaymentMethod(parsed.FormaPagamento),
		Installments:  coerceInstallments(parsed.Parcelas),
		IsExpense:     coerceBool(parsed.EhGasto),
	}
	if draft.Description == "" {
		draft.Description = strings.TrimSpace(utterance)
	}

	return draft, nil
}

// coerceAmount accepts a JSON number or a numeric string (comma or dot
// decimal separator). Anything else defaults to zero.
func coerceAmount(v any) decimal.Decimal {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n)
	case string:
		d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(n), ",", "."))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// coerceInstallments accepts a JSON number or numeric string; anything else,
// or anything below one, defaults to a single installment.
func coerceInstallments(v any) int {
	count := 1
	switch n := v.(type) {
	case float64:
		count = int(n)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err == nil {
			count = int(d.IntPart())
		}
	}
	if count < 1 {
		count = 1
	}
	return count
}

func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		return false
	}
}

func truncateForLog(s string) string {
	if len(s) <= 200 {
		return s
	}
	return s[:200] + "..."
}
