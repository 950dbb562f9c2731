// Package bot routes inbound Telegram updates to the right handler:
// onboarding dialog, expense capture, listings, the category chart, or the
// conversational advisor. Order matters; the capture gate runs before the
// listing phrases so "gastei 50 no mercado" is never read as a listing
// request.
package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/atenabot/atena/internal/capture"
	"github.com/atenabot/atena/internal/report"
	"github.com/atenabot/atena/internal/store"
	"github.com/atenabot/atena/internal/telegram"
)

const (
	msgStoreDown      = "Tive um problema ao acessar seus dados. Tenta de novo em instantes?"
	msgCaptureFailed  = "Não consegui registrar seu gasto agora. Pode tentar de novo em instantes?"
	msgChartBuilding  = "Gerando seu gráfico de gastos do mês... 📊"
	msgChartNoData    = "Você ainda não tem gastos registrados neste mês para montar o gráfico."
	msgChartFailed    = "Não consegui gerar o gráfico agora. Tenta de novo daqui a pouco?"
	chartCaption      = "Seus gastos do mês por categoria"
	chartCommand      = "/grafico"
	chartCommandAlias = "/gráfico"
)

// Onboarder runs the profile-collection dialog.
type Onboarder interface {
	Handle(ctx context.Context, chatID int64, text string, profile *store.Profile) ([]string, bool)
}

// Capturer runs the expense capture pipeline.
type Capturer interface {
	Capture(ctx context.Context, ownerID int64, ownerName, utterance string) ([]store.Transaction, error)
}

// Responder produces the conversational fallback reply.
type Responder interface {
	Respond(ctx context.Context, utterance string, profile *store.Profile, recent []store.Transaction, summary store.MonthlySummary) string
}

// ChartRenderer turns category totals into a chart image.
type ChartRenderer interface {
	Render(ctx context.Context, categoryTotals map[string]decimal.Decimal) ([]byte, error)
}

// Messenger is the outbound Telegram surface the router needs.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
	SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string) error
}

// Router dispatches one update at a time per chat.
type Router struct {
	records   store.Store
	onboard   Onboarder
	capture   Capturer
	advisor   Responder
	charts    ChartRenderer
	messenger Messenger
	log       zerolog.Logger
	now       func() time.Time
}

// New wires the router.
func New(records store.Store, onboard Onboarder, capturer Capturer, advisor Responder, charts ChartRenderer, messenger Messenger, log zerolog.Logger) *Router {
	return &Router{
		records:   records,
		onboard:   onboard,
		capture:   capturer,
		advisor:   advisor,
		charts:    charts,
		messenger: messenger,
		log:       log,
		now:       time.Now,
	}
}

// HandleUpdate processes one inbound update end to end. It never returns
// an error; every failure ends in a user-facing message or a log line.
func (r *Router) HandleUpdate(ctx context.Context, update telegram.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		return
	}

	profile, err := r.records.GetProfile(ctx, chatID)
	if err != nil {
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("Profile lookup failed")
		r.send(ctx, chatID, msgStoreDown)
		return
	}

	if replies, handled := r.onboard.Handle(ctx, chatID, text, profile); handled {
		for _, reply := range replies {
			r.send(ctx, chatID, reply)
		}
		return
	}

	// Past this point the user has a profile; onboarding holds everyone
	// else.
	records, err := r.capture.Capture(ctx, chatID, profile.Name, text)
	switch {
	case err == nil:
		if len(records) == 1 {
			r.send(ctx, chatID, confirmCapture(records[0]))
		}
		return
	case errors.Is(err, capture.ErrNotExpense):
		// Flow on to the conversational handlers.
	default:
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("Expense capture failed")
		r.send(ctx, chatID, msgCaptureFailed)
		return
	}

	if period, ok := report.MatchListing(text); ok {
		r.sendListing(ctx, chatID, period)
		return
	}

	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, chartCommand) || strings.HasPrefix(lower, chartCommandAlias) {
		r.sendChart(ctx, chatID)
		return
	}

	r.respond(ctx, chatID, text, profile)
}

func (r *Router) sendListing(ctx context.Context, chatID int64, period report.Period) {
	transactions, err := r.records.QueryTransactions(ctx, chatID, time.Time{})
	if err != nil {
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("Listing query failed")
		r.send(ctx, chatID, msgStoreDown)
		return
	}
	r.send(ctx, chatID, report.FormatListing(transactions, period, r.now()))
}

func (r *Router) sendChart(ctx context.Context, chatID int64) {
	r.send(ctx, chatID, msgChartBuilding)

	transactions, err := r.records.QueryTransactions(ctx, chatID, time.Time{})
	if err != nil {
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("Chart query failed")
		r.send(ctx, chatID, msgStoreDown)
		return
	}

	summary := store.Summarize(transactions, r.now())
	if len(summary.CategoryTotals) == 0 {
		r.send(ctx, chatID, msgChartNoData)
		return
	}

	image, err := r.charts.Render(ctx, summary.CategoryTotals)
	if err != nil {
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("Chart render failed")
		r.send(ctx, chatID, msgChartFailed)
		return
	}
	if err := r.messenger.SendPhoto(ctx, chatID, image, chartCaption); err != nil {
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("Chart delivery failed")
		r.send(ctx, chatID, msgChartFailed)
	}
}

func (r *Router) respond(ctx context.Context, chatID int64, text string, profile *store.Profile) {
	if err := r.messenger.SendChatAction(ctx, chatID, telegram.ChatActionTyping); err != nil {
		r.log.Warn().Err(err).Int64("chat_id", chatID).Msg("Typing indicator failed")
	}

	// A history lookup failure degrades the reply, it does not block it.
	transactions, err := r.records.QueryTransactions(ctx, chatID, time.Time{})
	if err != nil {
		r.log.Warn().Err(err).Int64("chat_id", chatID).Msg("History lookup failed, answering without it")
		transactions = nil
	}

	reply := r.advisor.Respond(ctx, text, profile, recentSlice(transactions, 3), store.Summarize(transactions, r.now()))
	r.send(ctx, chatID, reply)
}

func (r *Router) send(ctx context.Context, chatID int64, text string) {
	if err := r.messenger.SendMessage(ctx, chatID, text); err != nil {
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("Message delivery failed")
	}
}

func confirmCapture(tx store.Transaction) string {
	return "Gasto registrado: " + tx.Description +
		" (Categoria: " + tx.Category + ") - R$ " + tx.Amount.StringFixed(2)
}

func recentSlice(transactions []store.Transaction, n int) []store.Transaction {
	if len(transactions) <= n {
		return transactions
	}
	return transactions[:n]
}
