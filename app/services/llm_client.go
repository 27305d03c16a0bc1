// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/leadkit/leadkit/config"
)

// ChatMessage is one turn of a chat-completion conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMService produces chat completions from a hosted inference API
type LLMService interface {
	ChatCompletion(ctx context.Context, messages []ChatMessage) (string, error)
}

// LLMClient implements LLMService against an OpenAI-compatible
// chat-completions endpoint (Groq hosted inference).
type LLMClient struct {
	config *config.LLMConfig
	client *http.Client
}

// NewLLMClient creates a new LLM client
func NewLLMClient(cfg *config.LLMConfig) LLMService {
	return &LLMClient{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// chatCompletionRequest is the wire format of the chat-completions call
type chatCompletionRequest struct {
	Messages []ChatMessage `json:"messages"`
	Model    string        `json:"model"`
}

// chatCompletionResponse is the wire format of the chat-completions reply
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatCompletion sends the conversation to the configured model and returns
// the first choice's content. Transport errors, non-200 statuses and empty
// choice lists all surface as opaque provider failures; no retry.
func (c *LLMClient) ChatCompletion(ctx context.Context, messages []ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("at least one message is required")
	}

	requestBody, err := json.Marshal(chatCompletionRequest{
		Messages: messages,
		Model:    c.config.ChatModel,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat completion request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.config.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute chat completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM provider returned status %d", resp.StatusCode)
	}

	var result chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode chat completion response: %w", err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("LLM provider returned no completion")
	}

	return result.Choices[0].Message.Content, nil
}

// MockLLMService implements LLMService for testing
type MockLLMService struct {
	mu       sync.Mutex
	Requests [][]ChatMessage
	Reply    string
	Err      error
}

// NewMockLLMService creates a mock LLM service returning a fixed reply
func NewMockLLMService(reply string) *MockLLMService {
	return &MockLLMService{Reply: reply}
}

func (m *MockLLMService) ChatCompletion(ctx context.Context, messages []ChatMessage) (string, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, messages)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// Calls returns the number of completions requested so far
func (m *MockLLMService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
