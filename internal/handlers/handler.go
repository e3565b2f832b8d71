package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/qscuio/q-cf-bot/internal/config"
	"github.com/qscuio/q-cf-bot/internal/i18n"
	"github.com/qscuio/q-cf-bot/internal/middleware"
	"github.com/qscuio/q-cf-bot/internal/providers"
	"github.com/qscuio/q-cf-bot/internal/services/prefs"
	"github.com/sirupsen/logrus"
)

// Sender is the outbound Telegram capability the handlers depend on.
// *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

// UpdateHandler classifies inbound updates and routes them to the
// matching handler.
type UpdateHandler struct {
	bot       Sender
	config    *config.Config
	registry  *providers.Registry
	prefs     *prefs.Service
	store     prefs.Store
	clients   map[string]providers.Client
	allowList *middleware.AllowList
	metrics   *middleware.Metrics
	localizer *i18n.Localizer
	logger    *logrus.Logger
}

// NewUpdateHandler creates the update handler. store may be nil when no
// storage backend is configured; clients is keyed by provider key.
func NewUpdateHandler(
	bot Sender,
	cfg *config.Config,
	registry *providers.Registry,
	prefsService *prefs.Service,
	store prefs.Store,
	clients map[string]providers.Client,
	allowList *middleware.AllowList,
	metrics *middleware.Metrics,
	localizer *i18n.Localizer,
	logger *logrus.Logger,
) *UpdateHandler {
	return &UpdateHandler{
		bot:       bot,
		config:    cfg,
		registry:  registry,
		prefs:     prefsService,
		store:     store,
		clients:   clients,
		allowList: allowList,
		metrics:   metrics,
		localizer: localizer,
		logger:    logger,
	}
}

// HandleUpdate processes exactly one inbound update. Errors are logged,
// never propagated: the transport layer has already acknowledged the
// update and Telegram must not retry it.
func (h *UpdateHandler) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	switch {
	case update.Message != nil:
		h.metrics.RecordUpdateReceived("message")
		if err := h.handleMessage(ctx, update.Message); err != nil {
			h.logger.WithError(err).Error("Failed to handle message")
		}
	case update.CallbackQuery != nil:
		h.metrics.RecordUpdateReceived("callback_query")
		if err := h.handleCallbackQuery(ctx, update.CallbackQuery); err != nil {
			h.logger.WithError(err).Error("Failed to handle callback query")
		}
	case update.InlineQuery != nil:
		h.metrics.RecordUpdateReceived("inline_query")
		if err := h.handleInlineQuery(ctx, update.InlineQuery); err != nil {
			h.logger.WithError(err).Error("Failed to handle inline query")
		}
	}
}
