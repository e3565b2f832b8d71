package handlers

import (
	"context"
	"encoding/json"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// inputFilesKey is the store key holding the voice catalog served to
// inline queries.
const inputFilesKey = "input_files"

type inlineVoiceEntry struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Duration int    `json:"duration"`
	Caption  string `json:"caption"`
}

// handleInlineQuery answers a search-as-you-type query with the voice
// entries whose title or caption contains the query text.
func (h *UpdateHandler) handleInlineQuery(ctx context.Context, query *tgbotapi.InlineQuery) error {
	if h.store == nil {
		h.logger.Debug("No store configured, skipping inline query")
		return nil
	}

	raw, err := h.store.Get(ctx, inputFilesKey)
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}

	var entries []inlineVoiceEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return err
	}

	search := strings.ToLower(query.Query)
	results := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		if !strings.Contains(strings.ToLower(entry.Caption), search) &&
			!strings.Contains(strings.ToLower(entry.Title), search) {
			continue
		}
		voice := tgbotapi.NewInlineQueryResultVoice(uuid.NewString(), entry.URL, entry.Title)
		voice.Caption = entry.Caption
		voice.Duration = entry.Duration
		voice.ParseMode = tgbotapi.ModeHTML
		results = append(results, voice)
	}

	_, err = h.bot.Request(tgbotapi.InlineConfig{
		InlineQueryID: query.ID,
		Results:       results,
	})
	return err
}
