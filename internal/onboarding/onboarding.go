// Package onboarding implements the profile-collection dialog: a fixed
// sequence of questions every new user answers before the capture pipeline
// opens up. Sessions live in process memory only; a restart drops any
// dialog in progress and the user starts over with /start.
package onboarding

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/atenabot/atena/internal/store"
)

// questions is the fixed dialog, in order. Question 0 accepts any non-empty
// text; the rest must parse as decimal numbers.
var questions = []string{
	"Qual seu nome?",
	"Qual sua renda mensal? (Digite apenas números, ex: 3000)",
	"Qual o total de gastos fixos mensais? (ex: 1200)",
	"Qual o total de gastos variáveis mensais? (ex: 800)",
	"Qual sua meta de poupança mensal? (ex: 500)",
}

const (
	msgGreetingNew       = "Olá! Sou seu assistente financeiro. Vamos começar com algumas perguntas."
	msgGreetingReturning = "Olá, %s! Vamos recomeçar seu onboarding."
	msgPleaseStart       = "Olá! Parece que é sua primeira vez aqui. Por favor, digite /start para iniciarmos seu cadastro."
	msgInvalidNumber     = "Opa! Esse valor não parece ser um número.\n\n%s"
	msgCompleted         = "Onboarding finalizado! 🎉\n\nAgora você pode registrar gastos (ex: \"gastei 50 no mercado\") ou tirar dúvidas financeiras."
	msgPersistFailed     = "Ocorreu um erro ao salvar seus dados. Envie qualquer mensagem para eu tentar de novo."
)

// session tracks one user's progress through the questions. The invariant
// step == len(answers) holds between messages; answersComplete marks a
// session whose answers are all collected but whose profile write has not
// been confirmed yet.
type session struct {
	step            int
	answers         []string
	answersComplete bool
}

// Manager owns the per-user session map and runs the dialog. Safe for
// concurrent use, though the surrounding bot processes one message per user
// at a time.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*session

	profiles store.Store
	log      zerolog.Logger
}

// NewManager creates an onboarding manager writing completed profiles to
// the given store.
func NewManager(profiles store.Store, log zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[int64]*session),
		profiles: profiles,
		log:      log,
	}
}

// Active reports whether the user has a dialog in progress.
func (m *Manager) Active(chatID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[chatID]
	return ok
}

// Handle consumes one inbound message. It returns the replies to send and
// whether the message was handled here; handled=false means the user is
// past onboarding and the message should flow to the capture pipeline.
func (m *Manager) Handle(ctx context.Context, chatID int64, text string, profile *store.Profile) ([]string, bool) {
	text = strings.TrimSpace(text)

	// /start resets from any state, discarding in-progress answers.
	if text == "/start" {
		m.mu.Lock()
		m.sessions[chatID] = &session{}
		m.mu.Unlock()

		greeting := msgGreetingNew
		if profile != nil {
			greeting = fmt.Sprintf(msgGreetingReturning, profile.Name)
		}
		return []string{greeting, questions[0]}, true
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[chatID]
	if !ok {
		if profile == nil {
			return []string{msgPleaseStart}, true
		}
		// Known user, no dialog in progress: not ours.
		return nil, false
	}

	if s.answersComplete {
		// Answers are all validated; only the profile write is pending.
		return []string{m.persist(ctx, chatID, s)}, true
	}

	if s.step > 0 {
		if _, err := parseNumber(text); err != nil {
			// Re-issue the same question, no transition.
			return []string{fmt.Sprintf(msgInvalidNumber, questions[s.step])}, true
		}
	} else if text == "" {
		return []string{questions[0]}, true
	}

	s.answers = append(s.answers, text)
	s.step++

	if s.step < len(questions) {
		return []string{questions[s.step]}, true
	}

	s.answersComplete = true
	return []string{m.persist(ctx, chatID, s)}, true
}

// persist writes the collected answers as a profile. The session is cleared
// only after the write is confirmed; on failure it stays intact so the user
// retries the write, not the questions.
func (m *Manager) persist(ctx context.Context, chatID int64, s *session) string {
	profile, err := buildProfile(chatID, s.answers)
	if err != nil {
		// Answers were validated on entry; reaching this means a bug, not
		// user error. Restart the dialog.
		m.log.Error().Err(err).Int64("chat_id", chatID).Msg("Collected answers failed to parse")
		delete(m.sessions, chatID)
		return msgPleaseStart
	}

	if err := m.profiles.PutProfile(ctx, profile); err != nil {
		m.log.Error().Err(err).Int64("chat_id", chatID).Msg("Profile write failed, keeping session")
		return msgPersistFailed
	}

	delete(m.sessions, chatID)
	m.log.Info().Int64("chat_id", chatID).Msg("Onboarding completed")
	return msgCompleted
}

func buildProfile(chatID int64, answers []string) (*store.Profile, error) {
	if len(answers) != len(questions) {
		return nil, fmt.Errorf("onboarding: %d answers for %d questions", len(answers), len(questions))
	}

	nums := make([]decimal.Decimal, 0, len(answers)-1)
	for _, raw := range answers[1:] {
		n, err := parseNumber(raw)
		if err != nil {
			return nil, fmt.Errorf("onboarding: answer %q: %w", raw, err)
		}
		nums = append(nums, n)
	}

	return &store.Profile{
		OwnerID:        chatID,
		Name:           answers[0],
		MonthlyIncome:  nums[0],
		FixedExpenses:  nums[1],
		VariableBudget: nums[2],
		SavingsGoal:    nums[3],
	}, nil
}

// parseNumber accepts decimal input with either comma or dot separator.
func parseNumber(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."))
}
