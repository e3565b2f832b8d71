package handlers

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/qscuio/q-cf-bot/internal/i18n"
	"github.com/qscuio/q-cf-bot/internal/services/prefs"
)

// funFactPrompt is sent when the "Ask AI" shortcut button is pressed.
const funFactPrompt = "Tell me a random fun fact."

// handleCallbackQuery processes an inline button press.
func (h *UpdateHandler) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback.Message == nil {
		return nil
	}
	chatID := callback.Message.Chat.ID
	userID := callback.From.ID

	if !h.allowList.Allowed(userID) {
		h.metrics.RecordAccessDenied()
		return h.answerCallback(callback.ID, h.text(i18n.MsgAccessDenied, nil))
	}

	data := callback.Data
	switch {
	case data == callbackAskAI:
		if err := h.answerCallback(callback.ID, h.text(i18n.MsgAskingAIToast, nil)); err != nil {
			h.logger.WithError(err).Warn("Failed to answer callback")
		}
		return h.handleAIRequest(ctx, chatID, funFactPrompt)

	case strings.HasPrefix(data, callbackSetProviderPfx):
		return h.handleSetProvider(ctx, callback, chatID, strings.TrimPrefix(data, callbackSetProviderPfx))

	case strings.HasPrefix(data, callbackSetModelPfx):
		return h.handleSetModel(ctx, callback, chatID, strings.TrimPrefix(data, callbackSetModelPfx))

	default:
		if err := h.sendPlainText(chatID, h.text(i18n.MsgButtonPressed, map[string]interface{}{"Data": data})); err != nil {
			return err
		}
		return h.answerCallback(callback.ID, h.text(i18n.MsgButtonAckToast, nil))
	}
}

// handleSetProvider persists a provider selection. The model is reset to
// the new provider's default as part of the same operation.
func (h *UpdateHandler) handleSetProvider(ctx context.Context, callback *tgbotapi.CallbackQuery, chatID int64, key string) error {
	descriptor, ok := h.registry.Provider(key)
	if !ok {
		return h.answerCallback(callback.ID, h.text(i18n.MsgUnknownProvider, nil))
	}

	if err := h.prefs.SetProvider(ctx, chatID, key); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to save provider preference")
		if errors.Is(err, prefs.ErrNotConfigured) {
			return h.answerCallback(callback.ID, h.text(i18n.MsgStoreNotReady, nil))
		}
		return h.answerCallback(callback.ID, h.text(i18n.MsgError, map[string]interface{}{"Message": err.Error()}))
	}

	if err := h.answerCallback(callback.ID, h.text(i18n.MsgProviderSetToast, map[string]interface{}{"Provider": descriptor.DisplayName})); err != nil {
		h.logger.WithError(err).Warn("Failed to answer callback")
	}
	return h.sendHTMLText(chatID, h.text(i18n.MsgProviderSet, map[string]interface{}{
		"Provider": descriptor.DisplayName,
		"Model":    descriptor.DefaultModel,
	}))
}

// handleSetModel resolves a model alias against the chat's current
// provider and persists the full identifier. Unknown aliases leave the
// stored state unchanged.
func (h *UpdateHandler) handleSetModel(ctx context.Context, callback *tgbotapi.CallbackQuery, chatID int64, alias string) error {
	providerKey := h.prefs.GetProvider(ctx, chatID)
	descriptor, ok := h.registry.Provider(providerKey)
	if !ok {
		return h.answerCallback(callback.ID, h.text(i18n.MsgUnknownModel, nil))
	}

	modelID, ok := descriptor.ModelByAlias(alias)
	if !ok {
		return h.answerCallback(callback.ID, h.text(i18n.MsgUnknownModel, nil))
	}

	if err := h.prefs.SetModel(ctx, chatID, modelID); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to save model preference")
		if errors.Is(err, prefs.ErrNotConfigured) {
			return h.answerCallback(callback.ID, h.text(i18n.MsgStoreNotReady, nil))
		}
		return h.answerCallback(callback.ID, h.text(i18n.MsgError, map[string]interface{}{"Message": err.Error()}))
	}

	if err := h.answerCallback(callback.ID, h.text(i18n.MsgModelSetToast, map[string]interface{}{"Alias": alias})); err != nil {
		h.logger.WithError(err).Warn("Failed to answer callback")
	}
	return h.sendHTMLText(chatID, h.text(i18n.MsgModelSet, map[string]interface{}{"Model": modelID}))
}
