// Package businessflow contains the core business logic and use cases for lead and customer workflows
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/leadkit/leadkit/app/dto"
	"github.com/leadkit/leadkit/app/services"
	"github.com/leadkit/leadkit/models"
	"github.com/leadkit/leadkit/repository"
	"github.com/leadkit/leadkit/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// EmailCampaignFlow handles AI-drafted marketing campaigns
type EmailCampaignFlow interface {
	CraftAndSend(ctx context.Context, request *dto.CraftEmailRequest, metadata *ClientMetadata) (*dto.CraftEmailResponse, error)
	ListCampaigns(ctx context.Context, limit, offset int) (*dto.ListEmailCampaignsResponse, error)
}

// EmailCampaignFlowImpl implements the email campaign business flow
type EmailCampaignFlowImpl struct {
	customerRepo repository.CustomerRepository
	campaignRepo repository.EmailCampaignRepository
	llmService   services.LLMService
	emailService services.EmailService
	db           *gorm.DB
}

// NewEmailCampaignFlow creates a new email campaign flow instance
func NewEmailCampaignFlow(
	customerRepo repository.CustomerRepository,
	campaignRepo repository.EmailCampaignRepository,
	llmService services.LLMService,
	emailService services.EmailService,
	db *gorm.DB,
) EmailCampaignFlow {
	return &EmailCampaignFlowImpl{
		customerRepo: customerRepo,
		campaignRepo: campaignRepo,
		llmService:   llmService,
		emailService: emailService,
		db:           db,
	}
}

// CraftAndSend drafts a marketing email for the product with the LLM, sends
// it to every customer in the target region, and records the campaign. A
// region with no customers is a business error, not an empty send.
func (f *EmailCampaignFlowImpl) CraftAndSend(ctx context.Context, request *dto.CraftEmailRequest, metadata *ClientMetadata) (*dto.CraftEmailResponse, error) {
	customers, err := f.customerRepo.ListByState(ctx, request.Region)
	if err != nil {
		return nil, NewBusinessError("EMAIL_CAMPAIGN_LOOKUP_FAILED", "Failed to look up regional customers", err)
	}
	if len(customers) == 0 {
		return nil, NewBusinessError("EMAIL_CAMPAIGN_NO_RECIPIENTS", "No customers found in region", ErrNoCustomersInRegion)
	}

	recipients := make([]string, 0, len(customers))
	for _, customer := range customers {
		if customer.Email != "" {
			recipients = append(recipients, customer.Email)
		}
	}
	if len(recipients) == 0 {
		return nil, NewBusinessError("EMAIL_CAMPAIGN_NO_RECIPIENTS", "No customers found in region", ErrNoCustomersInRegion)
	}

	body, err := f.draftBody(ctx, request.Product, request.Region)
	if err != nil {
		return nil, NewBusinessError("EMAIL_CAMPAIGN_DRAFT_FAILED", "Failed to draft campaign email", err)
	}

	subject := fmt.Sprintf("Special Offer on %s for %s Customers", request.Product, request.Region)

	if err := f.emailService.Send(ctx, recipients, subject, body); err != nil {
		return nil, NewBusinessError("EMAIL_CAMPAIGN_SEND_FAILED", "Failed to send campaign email", fmt.Errorf("%w: %v", ErrEmailProviderFailed, err))
	}

	sentAt := utils.UTCNow()
	campaign := &models.EmailCampaign{
		UUID:       uuid.New(),
		Product:    request.Product,
		Region:     request.Region,
		Subject:    subject,
		Body:       body,
		Recipients: pq.StringArray(recipients),
		SentAt:     sentAt,
		CreatedAt:  sentAt,
	}
	if err := f.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, NewBusinessError("EMAIL_CAMPAIGN_PERSIST_FAILED", "Failed to record campaign", err)
	}

	return &dto.CraftEmailResponse{
		Message:        fmt.Sprintf("Campaign sent to %d customers", len(recipients)),
		Subject:        subject,
		Body:           body,
		RecipientCount: len(recipients),
		SentAt:         sentAt,
	}, nil
}

func (f *EmailCampaignFlowImpl) draftBody(ctx context.Context, product, region string) (string, error) {
	messages := []services.ChatMessage{
		{Role: "system", Content: "You are an expert email marketing copywriter. Write concise, persuasive marketing emails in HTML. Respond with the email body only, no subject line and no commentary."},
		{Role: "user", Content: fmt.Sprintf("Write a marketing email promoting %s to customers in %s. Keep it under 150 words and include a clear call to action.", product, region)},
	}

	body, err := f.llmService.ChatCompletion(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLLMProviderFailed, err)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrEmptyLLMReply
	}
	return body, nil
}

// ListCampaigns returns recent campaigns, newest first
func (f *EmailCampaignFlowImpl) ListCampaigns(ctx context.Context, limit, offset int) (*dto.ListEmailCampaignsResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	campaigns, err := f.campaignRepo.ListRecent(ctx, limit, offset)
	if err != nil {
		return nil, NewBusinessError("EMAIL_CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}

	items := make([]dto.EmailCampaignItem, 0, len(campaigns))
	for _, campaign := range campaigns {
		items = append(items, dto.EmailCampaignItem{
			UUID:           campaign.UUID.String(),
			Product:        campaign.Product,
			Region:         campaign.Region,
			Subject:        campaign.Subject,
			RecipientCount: len(campaign.Recipients),
			SentAt:         campaign.SentAt,
		})
	}

	return &dto.ListEmailCampaignsResponse{
		Message:   "Campaigns retrieved successfully",
		Campaigns: items,
		Count:     len(items),
	}, nil
}
