package chat

import (
	"testing"

	"github.com/brayanMuniz/daijoubu/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeMessagesOrder(t *testing.T) {
	msgs := composeMessages(map[string]string{"level": "beginner"}, "I feel anxious")

	require.Len(t, msgs, 3)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, systemPrompt, msgs[0].Content)
	assert.Equal(t, llm.RoleAssistant, msgs[1].Role)
	assert.Equal(t, `User memory: {"level":"beginner"}`, msgs[1].Content)
	assert.Equal(t, llm.RoleUser, msgs[2].Role)
	assert.Equal(t, "I feel anxious", msgs[2].Content)
}

func TestComposeMessagesEmptyMemory(t *testing.T) {
	msgs := composeMessages(map[string]string{}, "hello")

	require.Len(t, msgs, 3)
	assert.Equal(t, "User memory: {}", msgs[1].Content)
}

func TestWithStrictInstruction(t *testing.T) {
	base := composeMessages(map[string]string{}, "hello")
	strict := withStrictInstruction(base)

	require.Len(t, strict, 4)
	assert.Equal(t, llm.RoleSystem, strict[0].Role)
	assert.Contains(t, strict[0].Content, strictJSONRule)
	// the original sequence is intact behind the strict instruction
	assert.Equal(t, base, strict[1:])
}
