// Package businessflow contains the core business logic and use cases for lead and customer workflows
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/leadkit/leadkit/app/dto"
	"github.com/leadkit/leadkit/app/services"
)

// ChatFlow handles assistant conversations for the dashboard
type ChatFlow interface {
	Chat(ctx context.Context, request *dto.ChatRequest, metadata *ClientMetadata) (*dto.ChatResponse, error)
}

// ChatFlowImpl implements the chat business flow
type ChatFlowImpl struct {
	llmService services.LLMService
}

// NewChatFlow creates a new chat flow instance
func NewChatFlow(llmService services.LLMService) ChatFlow {
	return &ChatFlowImpl{
		llmService: llmService,
	}
}

// Chat forwards the full conversation history to the language model and
// returns the reply. The history is passed through verbatim; the caller owns
// any system prompt.
func (f *ChatFlowImpl) Chat(ctx context.Context, request *dto.ChatRequest, metadata *ClientMetadata) (*dto.ChatResponse, error) {
	messages := make([]services.ChatMessage, 0, len(request.Messages))
	for _, m := range request.Messages {
		messages = append(messages, services.ChatMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	reply, err := f.llmService.ChatCompletion(ctx, messages)
	if err != nil {
		return nil, NewBusinessError("CHAT_COMPLETION_FAILED", "Chat completion failed", fmt.Errorf("%w: %v", ErrLLMProviderFailed, err))
	}
	if strings.TrimSpace(reply) == "" {
		return nil, NewBusinessError("CHAT_COMPLETION_EMPTY", "Chat completion returned nothing", ErrEmptyLLMReply)
	}

	return &dto.ChatResponse{Reply: reply}, nil
}
