package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLength is Telegram's payload limit for one message.
const maxMessageLength = 4096

// text localizes a message ID in the configured default language.
func (h *UpdateHandler) text(messageID string, data map[string]interface{}) string {
	return h.localizer.Get(h.config.I18n.DefaultLanguage, messageID, data)
}

func (h *UpdateHandler) sendPlainText(chatID int64, text string) error {
	_, err := h.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (h *UpdateHandler) sendHTMLText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := h.bot.Send(msg)
	return err
}

// sendLongHTMLText splits text into chunks within the payload limit and
// sends them sequentially, each awaited before the next so transcript
// order is preserved. A failure aborts the remaining chunks.
func (h *UpdateHandler) sendLongHTMLText(chatID int64, text string) error {
	for _, chunk := range chunkText(text, maxMessageLength) {
		if err := h.sendHTMLText(chatID, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (h *UpdateHandler) sendButtonGrid(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := h.bot.Send(msg)
	return err
}

func (h *UpdateHandler) answerCallback(callbackID, text string) error {
	_, err := h.bot.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

// chunkText splits s into pieces of at most limit characters.
func chunkText(s string, limit int) []string {
	runes := []rune(s)
	chunks := make([]string, 0, (len(runes)+limit-1)/limit)
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
