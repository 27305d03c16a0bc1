// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/leadkit/leadkit/config"
	"github.com/leadkit/leadkit/utils"
)

// EmailService delivers transactional email through a hosted delivery API
type EmailService interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// EmailServiceImpl implements EmailService against a Resend-style REST API
type EmailServiceImpl struct {
	config *config.EmailConfig
	client *http.Client
}

// emailSendRequest is the wire format of the delivery call
type emailSendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// emailSendResponse is the delivery receipt
type emailSendResponse struct {
	ID string `json:"id"`
}

// NewEmailService creates a new email delivery service
func NewEmailService(cfg *config.EmailConfig) EmailService {
	return &EmailServiceImpl{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Send delivers one email to all recipients in a single API call
func (s *EmailServiceImpl) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}

	requestBody, err := json.Marshal(emailSendRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      to,
		Subject: subject,
		HTML:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/emails", s.config.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute email request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}

	var receipt emailSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return fmt.Errorf("failed to decode email response: %w", err)
	}
	if receipt.ID == "" {
		return fmt.Errorf("email provider returned no delivery ID")
	}

	return nil
}

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	mu        sync.Mutex
	SentMails []MockEmail
	Err       error
}

// MockEmail represents a recorded mock delivery
type MockEmail struct {
	To      []string
	Subject string
	Body    string
	SentAt  time.Time
}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{
		SentMails: make([]MockEmail, 0),
	}
}

func (m *MockEmailService) Send(ctx context.Context, to []string, subject, body string) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentMails = append(m.SentMails, MockEmail{
		To:      to,
		Subject: subject,
		Body:    body,
		SentAt:  utils.UTCNow(),
	})
	return nil
}

// GetSentMails returns all recorded mock deliveries
func (m *MockEmailService) GetSentMails() []MockEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SentMails
}
