package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/atenabot/atena/internal/store"
	"github.com/atenabot/atena/internal/taxonomy"
)

// ErrNotExpense signals that the utterance is not an expense statement: the
// gate rejected it, or neither gate nor extractor produced a positive
// amount.
var ErrNotExpense = errors.New("capture: utterance is not an expense")

// Messenger delivers user-facing progress notifications during long
// captures.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Pipeline runs the capture flow: pattern gate, structured extraction,
// gate fallback reconciliation, installment expansion, persistence.
type Pipeline struct {
	extractor *Extractor
	records   store.Store
	messenger Messenger
	log       zerolog.Logger
	now       func() time.Time
}

// NewPipeline wires the capture pipeline.
func NewPipeline(extractor *Extractor, records store.Store, messenger Messenger, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		records:   records,
		messenger: messenger,
		log:       log,
		now:       time.Now,
	}
}

// Capture processes one candidate expense utterance end to end and returns
// the persisted records. ErrNotExpense means the message should flow on to
// the conversational path. A persistence error is returned together with
// the records written so far: installment writes are independent and a
// partial series is kept, not rolled back.
func (p *Pipeline) Capture(ctx context.Context, ownerID int64, ownerName, utterance string) ([]store.Transaction, error) {
	gateMatch, ok := MatchExpense(utterance)
	if !ok {
		return nil, ErrNotExpense
	}

	draft := p.extractor.Extract(ctx, utterance)
	draft = reconcile(draft, gateMatch, utterance)

	if !draft.IsExpense || !draft.Amount.IsPositive() {
		return nil, ErrNotExpense
	}

	records := ExpandDraft(draft, ownerID, ownerName, p.now())
	seriesID := uuid.NewString()

	if len(records) > 1 {
		p.notify(ctx, ownerID, fmt.Sprintf(
			"Compra parcelada em %dx detectada, registrando as parcelas...", len(records)))
	}

	for i := range records {
		if err := p.records.PutTransaction(ctx, &records[i]); err != nil {
			p.log.Error().
				Err(err).
				Str("series_id", seriesID).
				Int("written", i).
				Int("total", len(records)).
				Msg("Installment series interrupted, keeping partial series")
			return records[:i], fmt.Errorf("capture: persist record %d/%d: %w", i+1, len(records), err)
		}
	}

	p.log.Info().
		Str("series_id", seriesID).
		Int64("owner_id", ownerID).
		Int("records", len(records)).
		Str("category", draft.Category).
		Msg("Expense captured")

	if len(records) > 1 {
		p.notify(ctx, ownerID, fmt.Sprintf(
			"Prontinho! Registrei as %d parcelas de %s.", len(records), draft.Description))
	}

	return records, nil
}

// reconcile applies the gate-versus-extractor tie-break: extractor output
// wins whenever it reports a positive amount; otherwise the gate's parse is
// authoritative and the draft is considered an expense again.
func reconcile(draft Draft, gateMatch GateMatch, utterance string) Draft {
	if !draft.Amount.IsPositive() {
		draft.Amount = gateMatch.Amount
		if gateMatch.Description != "" {
			draft.Description = gateMatch.Description
		}
		if gateMatch.PaymentHint != "" && draft.PaymentMethod == taxonomy.PaymentOther {
			draft.PaymentMethod = taxonomy.MatchPaymentMethod(gateMatch.PaymentHint)
		}
		draft.IsExpense = draft.Amount.IsPositive()
	}
	if draft.Description == "" {
		draft.Description = utterance
	}
	return draft
}

func (p *Pipeline) notify(ctx context.Context, chatID int64, text string) {
	if err := p.messenger.SendMessage(ctx, chatID, text); err != nil {
		p.log.Warn().Err(err).Int64("chat_id", chatID).Msg("Progress notification failed")
	}
}
