package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDisplayOrder(t *testing.T) {
	registry := NewRegistry()

	all := registry.All()
	require.Len(t, all, 3)
	assert.Equal(t, KeyGemini, all[0].Key)
	assert.Equal(t, KeyOpenAI, all[1].Key)
	assert.Equal(t, KeyClaude, all[2].Key)
}

func TestRegistryDefaults(t *testing.T) {
	registry := NewRegistry()

	model, ok := registry.DefaultModel(KeyGemini)
	require.True(t, ok)
	assert.Equal(t, "gemini-2.5-flash", model)

	model, ok = registry.DefaultModel(KeyOpenAI)
	require.True(t, ok)
	assert.Equal(t, "gpt-4o-mini", model)

	model, ok = registry.DefaultModel(KeyClaude)
	require.True(t, ok)
	assert.Equal(t, "claude-sonnet-4-20250514", model)

	_, ok = registry.DefaultModel("mistral")
	assert.False(t, ok)
}

func TestModelByAlias(t *testing.T) {
	registry := NewRegistry()

	gemini, ok := registry.Provider(KeyGemini)
	require.True(t, ok)

	id, ok := gemini.ModelByAlias("flash-lite")
	require.True(t, ok)
	assert.Equal(t, "gemini-2.5-flash-lite", id)

	_, ok = gemini.ModelByAlias("sonnet")
	assert.False(t, ok)
}
