package handlers

import (
	"encoding/json"
	"math/rand"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// reactionEmojis is the fixed catalog Telegram accepts for message
// reactions.
var reactionEmojis = []string{
	"👍", "👎", "❤", "🔥", "🥰", "👏", "😁", "🤔", "🤯", "😱", "🤬", "😢",
	"🎉", "🤩", "🤮", "💩", "🙏", "👌", "🕊", "🤡", "🥱", "🥴", "😍", "🐳",
	"❤‍🔥", "🌚", "🌭", "💯", "🤣", "⚡", "🍌", "🏆", "💔", "🤨", "😐", "🍓",
	"🍾", "💋", "🖕", "😈", "😴", "😭", "🤓", "👻", "👨‍💻", "👀", "🎃", "🙈",
	"😇", "😨", "🤝", "✍", "🤗", "🫡", "🎅", "🎄", "☃", "💅", "🤪", "🗿",
	"🆒", "💘", "🙉", "🦄", "😘", "💊", "🙊", "😎", "👾", "🤷‍♂", "🤷", "🤷‍♀",
	"😡",
}

// celebrationEmoji is rendered with the big animation.
const celebrationEmoji = "🎉"

type emojiReaction struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

// sendRandomReaction reacts to a message with one emoji picked uniformly
// at random from the catalog.
func (h *UpdateHandler) sendRandomReaction(message *tgbotapi.Message) error {
	emoji := reactionEmojis[rand.Intn(len(reactionEmojis))]
	return h.sendReaction(message, emoji, emoji == celebrationEmoji)
}

func (h *UpdateHandler) sendReaction(message *tgbotapi.Message, emoji string, big bool) error {
	reaction, err := json.Marshal([]emojiReaction{{Type: "emoji", Emoji: emoji}})
	if err != nil {
		return err
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", message.Chat.ID)
	params.AddNonZero("message_id", message.MessageID)
	params["reaction"] = string(reaction)
	params.AddBool("is_big", big)

	if _, err := h.bot.MakeRequest("setMessageReaction", params); err != nil {
		return err
	}
	h.metrics.RecordReactionSent()
	return nil
}
