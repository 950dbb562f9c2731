package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// BackendEntry is one ranked entry of the model gateway's fallback list.
// Provider selects the client implementation, Model the concrete model name.
type BackendEntry struct {
	Provider string
	Model    string
}

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Port          string
	TelegramToken string
	WebhookURL    string

	NotionAPIKey     string
	NotionDatabaseID string

	OpenRouterAPIKey string
	GeminiAPIKey     string

	// Backends is the ranked fallback order for the model gateway.
	Backends []BackendEntry

	// LLMTimeout bounds each individual backend request.
	LLMTimeout time.Duration
}

// defaultBackends mirrors the models the bot has historically used:
// Gemini first, then the free OpenRouter models.
const defaultBackends = "gemini=gemini-2.0-flash,openrouter=deepseek/deepseek-chat-v3.1:free,openrouter=google/gemma-3-27b-it:free"

// Load reads configuration from the environment. A .env file is honored when
// present. Missing required keys produce an error rather than a partial config.
func Load() (*Config, error) {
	// Best effort; in deployment the variables come from the environment.
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "3000"),
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		WebhookURL:       os.Getenv("WEBHOOK_URL"),
		NotionAPIKey:     os.Getenv("NOTION_API_KEY"),
		NotionDatabaseID: os.Getenv("NOTION_DATABASE_ID"),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("config: TELEGRAM_TOKEN is required")
	}
	if cfg.NotionAPIKey == "" || cfg.NotionDatabaseID == "" {
		return nil, fmt.Errorf("config: NOTION_API_KEY and NOTION_DATABASE_ID are required")
	}

	backends, err := parseBackends(getEnv("LLM_BACKENDS", defaultBackends))
	if err != nil {
		return nil, err
	}
	cfg.Backends = backends

	timeoutSec, err := strconv.Atoi(getEnv("LLM_TIMEOUT_SECONDS", "30"))
	if err != nil || timeoutSec <= 0 {
		return nil, fmt.Errorf("config: invalid LLM_TIMEOUT_SECONDS: %q", os.Getenv("LLM_TIMEOUT_SECONDS"))
	}
	cfg.LLMTimeout = time.Duration(timeoutSec) * time.Second

	return cfg, nil
}

// parseBackends parses a ranked backend list of the form
// "provider=model,provider=model". Order is preserved.
func parseBackends(raw string) ([]BackendEntry, error) {
	var entries []BackendEntry
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		provider, model, ok := strings.Cut(part, "=")
		if !ok || provider == "" || model == "" {
			return nil, fmt.Errorf("config: malformed backend entry %q (want provider=model)", part)
		}
		entries = append(entries, BackendEntry{
			Provider: strings.ToLower(strings.TrimSpace(provider)),
			Model:    strings.TrimSpace(model),
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("config: LLM_BACKENDS resolved to an empty list")
	}
	return entries, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
