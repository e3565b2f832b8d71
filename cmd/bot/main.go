package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/qscuio/q-cf-bot/internal/config"
	"github.com/qscuio/q-cf-bot/internal/handlers"
	"github.com/qscuio/q-cf-bot/internal/i18n"
	"github.com/qscuio/q-cf-bot/internal/middleware"
	"github.com/qscuio/q-cf-bot/internal/providers"
	"github.com/qscuio/q-cf-bot/internal/services/prefs"
	"github.com/qscuio/q-cf-bot/pkg/logger"
	"github.com/sirupsen/logrus"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	envFile := flag.String("env", ".env", "Path to .env file")
	flag.Parse()

	// Load .env file if exists
	if err := godotenv.Load(*envFile); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting Telegram Bot...")

	bot, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		log.WithError(err).Fatal("Failed to create bot")
	}

	bot.Debug = cfg.Logging.Level == "debug"
	log.WithField("username", bot.Self.UserName).Info("Bot authorized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := providers.NewRegistry()

	store, err := prefs.NewStore(&cfg.Storage, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}
	if store == nil {
		log.Warn("No storage backend configured, preferences will not persist")
	}
	prefsService := prefs.NewService(store, registry, cfg.Providers.Default, log)

	clients := map[string]providers.Client{
		providers.KeyGemini: providers.NewGeminiClient(cfg.Providers.Gemini, log),
		providers.KeyOpenAI: providers.NewOpenAIClient(cfg.Providers.OpenAI, log),
		providers.KeyClaude: providers.NewClaudeClient(cfg.Providers.Claude, log),
	}

	allowList := middleware.NewAllowList(cfg.Access.AllowedUsers, log)

	localizer, err := i18n.NewLocalizer(&cfg.I18n)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize i18n")
	}

	metrics := middleware.NewMetrics()
	if cfg.Monitoring.Metrics.Enabled {
		go func() {
			log.WithFields(logrus.Fields{
				"port": cfg.Monitoring.Metrics.Port,
				"path": cfg.Monitoring.Metrics.Path,
			}).Info("Starting metrics server")

			if err := middleware.StartMetricsServer(cfg.Monitoring.Metrics.Port, cfg.Monitoring.Metrics.Path); err != nil {
				log.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	handler := handlers.NewUpdateHandler(
		bot,
		cfg,
		registry,
		prefsService,
		store,
		clients,
		allowList,
		metrics,
		localizer,
		log,
	)

	if err := registerCommands(bot); err != nil {
		log.WithError(err).Error("Failed to register bot commands")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var server *http.Server
	if cfg.Bot.Webhook.Enabled {
		server, err = startWebhook(ctx, bot, cfg, handler, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to start webhook")
		}
	} else {
		startPolling(ctx, bot, cfg, handler, log)
	}

	<-sigChan
	log.Info("Shutdown signal received")

	if cfg.Bot.Webhook.Enabled {
		if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			log.WithError(err).Error("Failed to delete webhook")
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Webhook server shutdown failed")
		}
	} else {
		bot.StopReceivingUpdates()
	}

	cancel()

	// Give in-flight update goroutines time to finish
	time.Sleep(2 * time.Second)

	log.Info("Bot stopped")
}

// registerCommands publishes the command menu shown in Telegram clients.
func registerCommands(bot *tgbotapi.BotAPI) error {
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Show help"},
		tgbotapi.BotCommand{Command: "help", Description: "Show help"},
		tgbotapi.BotCommand{Command: "ai", Description: "Ask the AI a question"},
		tgbotapi.BotCommand{Command: "providers", Description: "Choose an AI provider"},
		tgbotapi.BotCommand{Command: "models", Description: "Choose a model"},
		tgbotapi.BotCommand{Command: "button2", Description: "Show a demo button grid"},
	)
	_, err := bot.Request(commands)
	return err
}

// startWebhook registers the webhook with Telegram and serves update
// posts. Each update is acknowledged immediately and processed in its
// own goroutine, so slow AI calls never block Telegram's delivery.
func startWebhook(ctx context.Context, bot *tgbotapi.BotAPI, cfg *config.Config, handler *handlers.UpdateHandler, log *logrus.Logger) (*http.Server, error) {
	path := cfg.Bot.Webhook.Path
	if path == "" {
		path = "/webhook"
	}

	params := tgbotapi.Params{}
	params["url"] = cfg.Bot.Webhook.URL + path
	if cfg.Bot.Secret != "" {
		params["secret_token"] = cfg.Bot.Secret
	}
	if _, err := bot.MakeRequest("setWebhook", params); err != nil {
		return nil, fmt.Errorf("failed to set webhook: %w", err)
	}
	log.WithField("url", cfg.Bot.Webhook.URL+path).Info("Webhook set")

	router := mux.NewRouter()
	router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if cfg.Bot.Secret != "" && r.Header.Get(secretTokenHeader) != cfg.Bot.Secret {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			log.WithError(err).Warn("Failed to decode update")
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		// Ack before processing so Telegram never retries the update.
		w.WriteHeader(http.StatusOK)
		go handler.HandleUpdate(ctx, &update)
	}).Methods(http.MethodPost)

	port := cfg.Bot.Webhook.Port
	if port == 0 {
		port = 8443
	}
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("Webhook server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Webhook server failed")
		}
	}()

	return server, nil
}

// startPolling consumes updates over long polling.
func startPolling(ctx context.Context, bot *tgbotapi.BotAPI, cfg *config.Config, handler *handlers.UpdateHandler, log *logrus.Logger) {
	// A stale webhook blocks getUpdates.
	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		log.WithError(err).Warn("Failed to delete webhook")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.Bot.UpdateTimeout
	if u.Timeout == 0 {
		u.Timeout = 60
	}

	updates := bot.GetUpdatesChan(u)
	log.Info("Using long polling")

	go func() {
		for update := range updates {
			update := update
			go handler.HandleUpdate(ctx, &update)
		}
	}()
}
