package businessflow

import (
	"context"
	"testing"

	"github.com/leadkit/leadkit/app/dto"
	"github.com/leadkit/leadkit/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_ForwardsHistoryVerbatim(t *testing.T) {
	llm := services.NewMockLLMService("Try segmenting by loyalty score.")
	flow := NewChatFlow(llm)

	request := &dto.ChatRequest{
		Messages: []dto.ChatMessage{
			{Role: "system", Content: "You are a CRM assistant."},
			{Role: "user", Content: "How do I re-engage lapsed customers?"},
			{Role: "assistant", Content: "Start with a win-back email."},
			{Role: "user", Content: "Which customers should get it?"},
		},
	}

	result, err := flow.Chat(context.Background(), request, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, "Try segmenting by loyalty score.", result.Reply)

	require.Len(t, llm.Requests, 1)
	forwarded := llm.Requests[0]
	require.Len(t, forwarded, 4)
	for i, m := range request.Messages {
		assert.Equal(t, m.Role, forwarded[i].Role)
		assert.Equal(t, m.Content, forwarded[i].Content)
	}
}

func TestChat_ProviderFailure(t *testing.T) {
	llm := services.NewMockLLMService("")
	llm.Err = assert.AnError
	flow := NewChatFlow(llm)

	result, err := flow.Chat(context.Background(), &dto.ChatRequest{
		Messages: []dto.ChatMessage{{Role: "user", Content: "hello"}},
	}, testMetadata())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsLLMProviderFailed(err))
}

func TestChat_BlankReplyIsAnError(t *testing.T) {
	flow := NewChatFlow(services.NewMockLLMService("  \n\t"))

	result, err := flow.Chat(context.Background(), &dto.ChatRequest{
		Messages: []dto.ChatMessage{{Role: "user", Content: "hello"}},
	}, testMetadata())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsLLMProviderFailed(err))
}
