package capture

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/atenabot/atena/internal/store"
)

// mockStore records written transactions and can be scripted to fail after
// a number of writes.
type mockStore struct {
	written   []store.Transaction
	failAfter int // fail the (failAfter+1)-th write; -1 never fails
}

func (m *mockStore) GetProfile(ctx context.Context, ownerID int64) (*store.Profile, error) {
	return nil, nil
}

func (m *mockStore) PutProfile(ctx context.Context, profile *store.Profile) error {
	return nil
}

func (m *mockStore) PutTransaction(ctx context.Context, tx *store.Transaction) error {
	if m.failAfter >= 0 && len(m.written) == m.failAfter {
		return errors.New("notion unavailable")
	}
	m.written = append(m.written, *tx)
	return nil
}

func (m *mockStore) QueryTransactions(ctx context.Context, ownerID int64, since time.Time) ([]store.Transaction, error) {
	return m.written, nil
}

type mockMessenger struct {
	sent []string
}

func (m *mockMessenger) SendMessage(ctx context.Context, chatID int64, text string) error {
	m.sent = append(m.sent, text)
	return nil
}

func newTestPipeline(completerText string, completerErr error, records *mockStore, messenger *mockMessenger) *Pipeline {
	log := zerolog.New(io.Discard)
	extractor := NewExtractor(&fakeCompleter{text: completerText, err: completerErr}, log)
	p := NewPipeline(extractor, records, messenger, log)
	p.now = func() time.Time {
		return time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC)
	}
	return p
}

func TestCapture_SingleExpense(t *testing.T) {
	records := &mockStore{failAfter: -1}
	messenger := &mockMessenger{}
	p := newTestPipeline(
		`{"valor": 50, "descricao": "mercado", "categoria": "Alimentação", "forma_pagamento": "Pix", "parcelas": 1, "eh_gasto": true}`,
		nil, records, messenger)

	got, err := p.Capture(context.Background(), 10, "Ana", "gastei 50 no mercado")
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if len(got) != 1 || len(records.written) != 1 {
		t.Fatalf("records returned/written = %d/%d, want 1/1", len(got), len(records.written))
	}
	if records.written[0].Category != "Alimentação" {
		t.Errorf("Category = %q", records.written[0].Category)
	}
	if len(messenger.sent) != 0 {
		t.Errorf("single-record capture sent %d progress messages, want 0", len(messenger.sent))
	}
}

func TestCapture_NonExpenseRejectedByGate(t *testing.T) {
	records := &mockStore{failAfter: -1}
	p := newTestPipeline("", errors.New("must not be called"), records, &mockMessenger{})

	_, err := p.Capture(context.Background(), 10, "Ana", "oi, bom dia")
	if !errors.Is(err, ErrNotExpense) {
		t.Fatalf("Capture() error = %v, want ErrNotExpense", err)
	}
	if len(records.written) != 0 {
		t.Errorf("wrote %d records for non-expense", len(records.written))
	}
}

func TestCapture_GateFallbackWhenExtractionFails(t *testing.T) {
	records := &mockStore{failAfter: -1}
	p := newTestPipeline("", errors.New("all backends down"), records, &mockMessenger{})

	got, err := p.Capture(context.Background(), 10, "Ana", "paguei 45,90 no pix")
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(got))
	}
	if !got[0].Amount.Equal(decimal.NewFromFloat(45.90)) {
		t.Errorf("Amount = %s, want gate fallback 45.9", got[0].Amount)
	}
	if got[0].PaymentMethod != "Pix" {
		t.Errorf("PaymentMethod = %q, want Pix from gate hint", got[0].PaymentMethod)
	}
	if got[0].Category != "Outro" {
		t.Errorf("Category = %q, want safe default Outro", got[0].Category)
	}
}

func TestCapture_ExtractorAmountWinsOverGate(t *testing.T) {
	records := &mockStore{failAfter: -1}
	// The gate would parse 3 (the installment count); the extractor knows
	// the real total.
	p := newTestPipeline(
		`{"valor": 300, "descricao": "celular", "categoria": "Compras", "forma_pagamento": "Crédito", "parcelas": 3, "eh_gasto": true}`,
		nil, records, &mockMessenger{})

	got, err := p.Capture(context.Background(), 10, "Ana", "comprei um celular em 3x de 100 no crédito")
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	sum := decimal.Zero
	for _, rec := range got {
		sum = sum.Add(rec.Amount)
	}
	if !sum.Equal(decimal.NewFromInt(300)) {
		t.Errorf("series total = %s, want extractor amount 300", sum)
	}
}

func TestCapture_InstallmentSeriesNotificationsAndDates(t *testing.T) {
	records := &mockStore{failAfter: -1}
	messenger := &mockMessenger{}
	p := newTestPipeline(
		`{"valor": 300, "descricao": "celular", "categoria": "Compras", "forma_pagamento": "Crédito", "parcelas": 3, "eh_gasto": true}`,
		nil, records, messenger)

	got, err := p.Capture(context.Background(), 10, "Ana", "comprei um celular em 3x de 100")
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(got))
	}
	if len(messenger.sent) != 2 {
		t.Fatalf("sent %d notifications, want progress + completion", len(messenger.sent))
	}
	wantMonths := []time.Month{time.June, time.July, time.August}
	for i, rec := range got {
		if rec.Date.Month() != wantMonths[i] {
			t.Errorf("records[%d].Date month = %v, want %v", i, rec.Date.Month(), wantMonths[i])
		}
	}
}

func TestCapture_PartialSeriesKeptOnPersistFailure(t *testing.T) {
	records := &mockStore{failAfter: 2}
	p := newTestPipeline(
		`{"valor": 300, "descricao": "celular", "categoria": "Compras", "forma_pagamento": "Crédito", "parcelas": 3, "eh_gasto": true}`,
		nil, records, &mockMessenger{})

	got, err := p.Capture(context.Background(), 10, "Ana", "comprei um celular em 3x de 100")
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if len(got) != 2 {
		t.Errorf("returned %d persisted records, want the 2 written before the failure", len(got))
	}
	if len(records.written) != 2 {
		t.Errorf("store holds %d records, want partial series of 2", len(records.written))
	}
}

func TestCapture_ModelSaysNotAnExpense(t *testing.T) {
	records := &mockStore{failAfter: -1}
	p := newTestPipeline(
		`{"valor": 500, "descricao": "salário", "categoria": "Outro", "forma_pagamento": "Outro", "parcelas": 1, "eh_gasto": false}`,
		nil, records, &mockMessenger{})

	_, err := p.Capture(context.Background(), 10, "Ana", "recebi e usei 500 de salário")
	if !errors.Is(err, ErrNotExpense) {
		t.Fatalf("Capture() error = %v, want ErrNotExpense", err)
	}
}
