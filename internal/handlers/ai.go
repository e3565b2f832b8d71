package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/qscuio/q-cf-bot/internal/i18n"
	"github.com/qscuio/q-cf-bot/internal/providers"
	"github.com/qscuio/q-cf-bot/pkg/markdown"
	"github.com/sirupsen/logrus"
)

// thinkingPreviewLimit caps the rendered internal-reasoning preview.
const thinkingPreviewLimit = 1000

// handleAIRequest resolves the chat's provider and model, invokes the
// matching client and renders the normalized result. Every failure is
// converted to a chat message here; nothing propagates past this layer.
func (h *UpdateHandler) handleAIRequest(ctx context.Context, chatID int64, prompt string) error {
	pref := h.prefs.Resolve(ctx, chatID)

	descriptor, ok := h.registry.Provider(pref.ProviderKey)
	if !ok {
		return h.sendPlainText(chatID, h.text(i18n.MsgInvalidProvider, nil))
	}

	// Best-effort status message; losing it must not abort the request.
	statusText := h.text(i18n.MsgThinkingStatus, map[string]interface{}{
		"Provider": descriptor.DisplayName,
		"Model":    pref.ModelID,
	})
	if err := h.sendPlainText(chatID, statusText); err != nil {
		h.logger.WithError(err).Warn("Failed to send status message")
	}

	client, exists := h.clients[pref.ProviderKey]
	if !exists || !client.Configured() {
		credential := "API key"
		if exists {
			credential = client.CredentialName()
		}
		return h.sendPlainText(chatID, h.text(i18n.MsgMissingCredential, map[string]interface{}{
			"Credential": credential,
		}))
	}

	start := time.Now()
	result, err := client.Complete(ctx, prompt, pref.ModelID)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	h.metrics.RecordAIRequest(pref.ProviderKey, pref.ModelID, outcome, time.Since(start))

	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"chat_id":  chatID,
			"provider": pref.ProviderKey,
			"model":    pref.ModelID,
		}).Error("AI request failed")

		if errors.Is(err, providers.ErrTimeout) {
			return h.sendPlainText(chatID, h.text(i18n.MsgTimeoutError, nil))
		}
		return h.sendPlainText(chatID, h.text(i18n.MsgError, map[string]interface{}{"Message": err.Error()}))
	}

	if result.Thinking != "" {
		preview := truncate(result.Thinking, thinkingPreviewLimit)
		thinkingHTML := "<b>💭 Thinking:</b>\n<i>" + markdown.EscapeHTML(preview) + "</i>"
		if err := h.sendLongHTMLText(chatID, thinkingHTML); err != nil {
			return err
		}
	}

	if result.Content == "" {
		return h.sendPlainText(chatID, h.text(i18n.MsgNoResponse, nil))
	}

	responseHTML := "<b>💬 " + descriptor.DisplayName + ":</b>\n" + markdown.ToHTML(result.Content)
	return h.sendLongHTMLText(chatID, responseHTML)
}

// truncate cuts s to limit runes, appending an ellipsis marker when
// anything was dropped.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
