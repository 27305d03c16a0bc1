package dto

import (
	"time"
)

// CraftEmailRequest asks for an AI-drafted campaign for a product and region
type CraftEmailRequest struct {
	Product string `json:"product" validate:"required,min=1,max=200"`
	Region  string `json:"region" validate:"required,min=1,max=100"`
}

// CraftEmailResponse describes the campaign that was drafted and sent
type CraftEmailResponse struct {
	Message        string    `json:"message"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	RecipientCount int       `json:"recipient_count"`
	SentAt         time.Time `json:"sent_at"`
}

// EmailCampaignItem is one past campaign for listing endpoints
type EmailCampaignItem struct {
	UUID           string    `json:"uuid"`
	Product        string    `json:"product"`
	Region         string    `json:"region"`
	Subject        string    `json:"subject"`
	RecipientCount int       `json:"recipient_count"`
	SentAt         time.Time `json:"sent_at"`
}

// ListEmailCampaignsResponse represents recent campaigns, newest first
type ListEmailCampaignsResponse struct {
	Message   string              `json:"message"`
	Campaigns []EmailCampaignItem `json:"campaigns"`
	Count     int                 `json:"count"`
}
