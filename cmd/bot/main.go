package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atenabot/atena/internal/advisor"
	"github.com/atenabot/atena/internal/bot"
	"github.com/atenabot/atena/internal/capture"
	"github.com/atenabot/atena/internal/config"
	"github.com/atenabot/atena/internal/llm"
	"github.com/atenabot/atena/internal/logger"
	"github.com/atenabot/atena/internal/onboarding"
	"github.com/atenabot/atena/internal/report"
	"github.com/atenabot/atena/internal/store/notion"
	"github.com/atenabot/atena/internal/telegram"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	records := notion.NewStore(
		notion.NewNotionClient(cfg.NotionAPIKey),
		cfg.NotionDatabaseID,
		logger.ForComponent(log, "notion"),
	)

	backends, err := buildBackends(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build model backends")
	}
	gateway := llm.NewGateway(backends, cfg.LLMTimeout, logger.ForComponent(log, "gateway"))

	messenger := telegram.NewClient(cfg.TelegramToken)

	extractor := capture.NewExtractor(gateway, logger.ForComponent(log, "extractor"))
	pipeline := capture.NewPipeline(extractor, records, messenger, logger.ForComponent(log, "capture"))
	onboard := onboarding.NewManager(records, logger.ForComponent(log, "onboarding"))
	responder := advisor.New(gateway, logger.ForComponent(log, "advisor"))
	charts := report.NewChartRenderer()

	router := bot.New(records, onboard, pipeline, responder, charts, messenger, logger.ForComponent(log, "router"))

	if cfg.WebhookURL != "" {
		webhookCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := messenger.SetWebhook(webhookCtx, cfg.WebhookURL+webhookPath(cfg)); err != nil {
			log.Fatal().Err(err).Msg("Failed to register webhook")
		}
		log.Info().Str("url", cfg.WebhookURL).Msg("Webhook registered")
	} else {
		log.Warn().Msg("No WEBHOOK_URL configured - register the webhook manually")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "atena",
		})
	})

	// Telegram delivers updates here; the token in the path keeps strangers
	// out. Replies go out over the Bot API, so the handler only needs to
	// acknowledge receipt.
	engine.POST(webhookPath(cfg), func(c *gin.Context) {
		var update telegram.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			log.Warn().Err(err).Msg("Malformed update payload")
			c.Status(http.StatusBadRequest)
			return
		}
		router.HandleUpdate(c.Request.Context(), update)
		c.Status(http.StatusOK)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting bot server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// buildBackends instantiates the ranked fallback list from configuration.
func buildBackends(ctx context.Context, cfg *config.Config) ([]llm.Backend, error) {
	var backends []llm.Backend
	for _, entry := range cfg.Backends {
		switch entry.Provider {
		case "gemini":
			if cfg.GeminiAPIKey == "" {
				return nil, fmt.Errorf("backend %s: GEMINI_API_KEY not set", entry.Model)
			}
			backend, err := llm.NewGeminiBackend(ctx, cfg.GeminiAPIKey, entry.Model)
			if err != nil {
				return nil, fmt.Errorf("backend %s: %w", entry.Model, err)
			}
			backends = append(backends, backend)
		case "openrouter":
			if cfg.OpenRouterAPIKey == "" {
				return nil, fmt.Errorf("backend %s: OPENROUTER_API_KEY not set", entry.Model)
			}
			backends = append(backends, llm.NewOpenRouterBackend(cfg.OpenRouterAPIKey, entry.Model))
		default:
			return nil, fmt.Errorf("unknown backend provider %q", entry.Provider)
		}
	}
	return backends, nil
}

func webhookPath(cfg *config.Config) string {
	return "/bot" + cfg.TelegramToken
}
