package i18n

import (
	"encoding/json"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/qscuio/q-cf-bot/internal/config"
	"golang.org/x/text/language"
)

// Localizer manages internationalization
type Localizer struct {
	bundle          *i18n.Bundle
	defaultLanguage string
	localizers      map[string]*i18n.Localizer
}

// NewLocalizer creates a new localizer
func NewLocalizer(cfg *config.I18nConfig) (*Localizer, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	// Load language files
	for _, lang := range cfg.Languages {
		if _, err := bundle.LoadMessageFile(fmt.Sprintf("configs/i18n/%s.json", lang)); err != nil {
			return nil, fmt.Errorf("failed to load language file %s: %w", lang, err)
		}
	}

	localizers := make(map[string]*i18n.Localizer)
	for _, lang := range cfg.Languages {
		localizers[lang] = i18n.NewLocalizer(bundle, lang)
	}

	return &Localizer{
		bundle:          bundle,
		defaultLanguage: cfg.DefaultLanguage,
		localizers:      localizers,
	}, nil
}

// Get returns localized message
func (l *Localizer) Get(lang, messageID string, data map[string]interface{}) string {
	localizer, exists := l.localizers[lang]
	if !exists {
		localizer = l.localizers[l.defaultLanguage]
	}
	if localizer == nil {
		return messageID
	}

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID // Fallback to message ID
	}

	return msg
}

// Message IDs
const (
	MsgHelp              = "help"
	MsgAskAIButton       = "ask_ai_button"
	MsgAccessDenied      = "access_denied"
	MsgSelectProvider    = "select_provider"
	MsgProviderModels    = "provider_models"
	MsgInvalidProvider   = "invalid_provider"
	MsgUsageAI           = "usage_ai"
	MsgThinkingStatus    = "thinking_status"
	MsgMissingCredential = "missing_credential"
	MsgProviderSetToast  = "provider_set_toast"
	MsgProviderSet       = "provider_set"
	MsgUnknownProvider   = "unknown_provider"
	MsgModelSetToast     = "model_set_toast"
	MsgModelSet          = "model_set"
	MsgUnknownModel      = "unknown_model"
	MsgAskingAIToast     = "asking_ai_toast"
	MsgButtonPressed     = "button_pressed"
	MsgButtonAckToast    = "button_ack_toast"
	MsgNoResponse        = "no_response"
	MsgTimeoutError      = "timeout_error"
	MsgError             = "error"
	MsgStoreNotReady     = "store_not_configured"
	MsgPressTwoButtons   = "press_two_buttons"
	MsgPressFourButtons  = "press_four_buttons"
)
