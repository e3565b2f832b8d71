package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/qscuio/q-cf-bot/internal/models"
	"github.com/qscuio/q-cf-bot/internal/providers"
	"github.com/sirupsen/logrus"
)

// Preference keys are the role prefix concatenated with the chat id.
const (
	providerKeyPrefix = "provider_"
	modelKeyPrefix    = "model_"
)

var (
	// ErrNotConfigured is returned by writes when no store backend exists.
	ErrNotConfigured = errors.New("preference store is not configured")
	// ErrUnknownProvider is returned when a provider key is not in the registry.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Service resolves and persists per-chat provider/model preferences.
// Reads silently degrade to system defaults when the store is absent or
// unavailable; writes surface the failure.
type Service struct {
	store           Store
	registry        *providers.Registry
	defaultProvider string
	logger          *logrus.Logger
}

// NewService creates a preference service over the given store. The store
// may be nil.
func NewService(store Store, registry *providers.Registry, defaultProvider string, logger *logrus.Logger) *Service {
	if defaultProvider == "" {
		defaultProvider = providers.DefaultProvider
	}
	return &Service{
		store:           store,
		registry:        registry,
		defaultProvider: defaultProvider,
		logger:          logger,
	}
}

func providerKey(chatID int64) string { return fmt.Sprintf("%s%d", providerKeyPrefix, chatID) }
func modelKey(chatID int64) string    { return fmt.Sprintf("%s%d", modelKeyPrefix, chatID) }

// GetProvider returns the chat's provider key, or the system default when
// unset or the store is unavailable.
func (s *Service) GetProvider(ctx context.Context, chatID int64) string {
	if s.store == nil {
		return s.defaultProvider
	}
	value, err := s.store.Get(ctx, providerKey(chatID))
	if err != nil {
		s.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to read provider preference")
		return s.defaultProvider
	}
	if value == "" {
		return s.defaultProvider
	}
	return value
}

// SetProvider persists the provider choice and resets the chat's model to
// the new provider's default so no stale cross-provider model id survives.
// Both writes must succeed or the operation fails as a whole.
func (s *Service) SetProvider(ctx context.Context, chatID int64, key string) error {
	if s.store == nil {
		return ErrNotConfigured
	}
	descriptor, ok := s.registry.Provider(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, key)
	}
	if err := s.store.Put(ctx, providerKey(chatID), key); err != nil {
		return fmt.Errorf("failed to save provider: %w", err)
	}
	if err := s.store.Put(ctx, modelKey(chatID), descriptor.DefaultModel); err != nil {
		return fmt.Errorf("failed to reset model: %w", err)
	}
	return nil
}

// GetModel returns the chat's model id, resolving through the current
// provider's default when unset.
func (s *Service) GetModel(ctx context.Context, chatID int64) string {
	if s.store != nil {
		value, err := s.store.Get(ctx, modelKey(chatID))
		if err != nil {
			s.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to read model preference")
		} else if value != "" {
			return value
		}
	}
	if model, ok := s.registry.DefaultModel(s.GetProvider(ctx, chatID)); ok {
		return model
	}
	model, _ := s.registry.DefaultModel(s.defaultProvider)
	return model
}

// Resolve returns the chat's effective preference with all defaults
// applied.
func (s *Service) Resolve(ctx context.Context, chatID int64) models.UserPreference {
	return models.UserPreference{
		ChatID:      chatID,
		ProviderKey: s.GetProvider(ctx, chatID),
		ModelID:     s.GetModel(ctx, chatID),
	}
}

// SetModel persists the model choice for the chat.
func (s *Service) SetModel(ctx context.Context, chatID int64, modelID string) error {
	if s.store == nil {
		return ErrNotConfigured
	}
	if err := s.store.Put(ctx, modelKey(chatID), modelID); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	return nil
}
