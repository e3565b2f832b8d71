package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/qscuio/q-cf-bot/internal/i18n"
)

// Callback payload tokens.
const (
	callbackAskAI          = "ask_ai"
	callbackSetProviderPfx = "set_provider_"
	callbackSetModelPfx    = "set_model_"
)

// handleMessage classifies a text message by command prefix, first match
// wins. Anything that is not a known command gets a random reaction.
func (h *UpdateHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	var userID int64
	if message.From != nil {
		userID = message.From.ID
	}

	if !h.allowList.Allowed(userID) {
		h.metrics.RecordAccessDenied()
		return h.sendPlainText(chatID, h.text(i18n.MsgAccessDenied, nil))
	}

	text := message.Text
	switch {
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/help"):
		h.metrics.RecordCommandExecuted("help")
		return h.handleHelp(chatID)
	case strings.HasPrefix(text, "/providers"):
		h.metrics.RecordCommandExecuted("providers")
		return h.handleProviders(ctx, chatID)
	case strings.HasPrefix(text, "/models"):
		h.metrics.RecordCommandExecuted("models")
		return h.handleModels(ctx, chatID)
	case strings.HasPrefix(text, "/button2"):
		h.metrics.RecordCommandExecuted("button2")
		return h.handleTwoButtons(chatID)
	case strings.HasPrefix(text, "/button4"):
		h.metrics.RecordCommandExecuted("button4")
		return h.handleFourButtons(chatID)
	case strings.HasPrefix(text, "/ai"):
		h.metrics.RecordCommandExecuted("ai")
		prompt := strings.TrimSpace(strings.TrimPrefix(text, "/ai"))
		if prompt == "" {
			return h.sendPlainText(chatID, h.text(i18n.MsgUsageAI, nil))
		}
		return h.handleAIRequest(ctx, chatID, prompt)
	default:
		return h.sendRandomReaction(message)
	}
}

// handleHelp sends the command overview with an "Ask AI" shortcut button.
func (h *UpdateHandler) handleHelp(chatID int64) error {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(h.text(i18n.MsgAskAIButton, nil), callbackAskAI),
		),
	)

	msg := tgbotapi.NewMessage(chatID, h.text(i18n.MsgHelp, nil))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard

	_, err := h.bot.Send(msg)
	return err
}

// handleProviders sends one button row per registered provider, the
// current selection marked with a check-mark glyph.
func (h *UpdateHandler) handleProviders(ctx context.Context, chatID int64) error {
	current := h.prefs.GetProvider(ctx, chatID)

	currentName := current
	if descriptor, ok := h.registry.Provider(current); ok {
		currentName = descriptor.DisplayName
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0)
	for _, descriptor := range h.registry.All() {
		label := descriptor.DisplayName
		if descriptor.Key == current {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackSetProviderPfx+descriptor.Key),
		))
	}

	text := h.text(i18n.MsgSelectProvider, map[string]interface{}{"Provider": currentName})
	return h.sendButtonGrid(chatID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// handleModels sends one button row per model of the chat's current
// provider.
func (h *UpdateHandler) handleModels(ctx context.Context, chatID int64) error {
	pref := h.prefs.Resolve(ctx, chatID)

	descriptor, ok := h.registry.Provider(pref.ProviderKey)
	if !ok {
		return h.sendPlainText(chatID, h.text(i18n.MsgInvalidProvider, nil))
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(descriptor.Models))
	for _, alias := range descriptor.Models {
		label := alias.Alias
		if alias.ID == pref.ModelID {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackSetModelPfx+alias.Alias),
		))
	}

	text := h.text(i18n.MsgProviderModels, map[string]interface{}{
		"Provider": descriptor.DisplayName,
		"Model":    pref.ModelID,
	})
	return h.sendButtonGrid(chatID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// Demo keyboards, kept for parity with the registered /button2 and
// /button4 commands.

func (h *UpdateHandler) handleTwoButtons(chatID int64) error {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Button One", "data_1"),
			tgbotapi.NewInlineKeyboardButtonData("Button Two", "data_2"),
		),
	)
	return h.sendButtonGrid(chatID, h.text(i18n.MsgPressTwoButtons, nil), keyboard)
}

func (h *UpdateHandler) handleFourButtons(chatID int64) error {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Button top left", "Utah"),
			tgbotapi.NewInlineKeyboardButtonData("Button top right", "Colorado"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Button bottom left", "Arizona"),
			tgbotapi.NewInlineKeyboardButtonData("Button bottom right", "New Mexico"),
		),
	)
	return h.sendButtonGrid(chatID, h.text(i18n.MsgPressFourButtons, nil), keyboard)
}
