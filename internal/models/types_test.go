package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionResultEmpty(t *testing.T) {
	assert.True(t, (&CompletionResult{}).Empty())
	assert.False(t, (&CompletionResult{Thinking: "hm"}).Empty())
	assert.False(t, (&CompletionResult{Content: "answer"}).Empty())
}
