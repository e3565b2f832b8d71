package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
bot:
  token: "123:abc"
  secret: "hook-secret"
  update_timeout: 30
providers:
  default: "claude"
  claude:
    api_key: "sk-ant"
storage:
  type: "memory"
access:
  allowed_users: [1, 2]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, "hook-secret", cfg.Bot.Secret)
	assert.Equal(t, 30, cfg.Bot.UpdateTimeout)
	assert.Equal(t, "claude", cfg.Providers.Default)
	assert.Equal(t, "sk-ant", cfg.Providers.Claude.APIKey)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, []int64{1, 2}, cfg.Access.AllowedUsers)
}

func TestLoadConfigDefaultsProvider(t *testing.T) {
	path := writeConfig(t, `
bot:
  token: "123:abc"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Providers.Default)
}

func TestLoadConfigRejectsMissingToken(t *testing.T) {
	path := writeConfig(t, `
providers:
  default: "gemini"
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, `
bot:
  token: "123:abc"
providers:
  default: "mistral"
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRejectsWebhookWithoutURL(t *testing.T) {
	path := writeConfig(t, `
bot:
  token: "123:abc"
  webhook:
    enabled: true
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestParseAllowedUsers(t *testing.T) {
	users, err := parseAllowedUsers("1, 2,3 ,")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, users)

	_, err = parseAllowedUsers("1,abc")
	assert.Error(t, err)
}
