package businessflow

import (
	"context"
	"strings"
	"testing"

	"github.com/leadkit/leadkit/app/dto"
	"github.com/leadkit/leadkit/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRegionalCustomers(t *testing.T, repo *stubCustomerRepo) {
	t.Helper()
	flow := NewCustomerFlow(repo, nil, nil)
	csvData := strings.Join([]string{
		"name,email,state",
		"Jane Doe,jane@example.com,Texas",
		"John Roe,john@example.com,Texas",
		"Ada King,ada@example.com,Colorado",
	}, "\n")
	_, err := flow.ImportCustomers(context.Background(), strings.NewReader(csvData), testMetadata())
	require.NoError(t, err)
}

func TestCraftAndSend_SendsToRegionAndRecordsCampaign(t *testing.T) {
	customerRepo := newStubCustomerRepo()
	seedRegionalCustomers(t, customerRepo)
	campaignRepo := &stubCampaignRepo{}
	llm := services.NewMockLLMService("<p>Big savings on SmartWidget this week only.</p>")
	mailer := services.NewMockEmailService()
	flow := NewEmailCampaignFlow(customerRepo, campaignRepo, llm, mailer, nil)

	result, err := flow.CraftAndSend(context.Background(), &dto.CraftEmailRequest{
		Product: "SmartWidget",
		Region:  "Texas",
	}, testMetadata())
	require.NoError(t, err)

	assert.Equal(t, "Special Offer on SmartWidget for Texas Customers", result.Subject)
	assert.Equal(t, "<p>Big savings on SmartWidget this week only.</p>", result.Body)
	assert.Equal(t, 2, result.RecipientCount)

	sent := mailer.GetSentMails()
	require.Len(t, sent, 1)
	assert.ElementsMatch(t, []string{"jane@example.com", "john@example.com"}, sent[0].To)
	assert.Equal(t, result.Subject, sent[0].Subject)

	require.Len(t, campaignRepo.campaigns, 1)
	campaign := campaignRepo.campaigns[0]
	assert.Equal(t, "SmartWidget", campaign.Product)
	assert.Equal(t, "Texas", campaign.Region)
	assert.Len(t, campaign.Recipients, 2)
}

func TestCraftAndSend_EmptyRegionFails(t *testing.T) {
	customerRepo := newStubCustomerRepo()
	seedRegionalCustomers(t, customerRepo)
	llm := services.NewMockLLMService("unused")
	mailer := services.NewMockEmailService()
	flow := NewEmailCampaignFlow(customerRepo, &stubCampaignRepo{}, llm, mailer, nil)

	result, err := flow.CraftAndSend(context.Background(), &dto.CraftEmailRequest{
		Product: "SmartWidget",
		Region:  "Alaska",
	}, testMetadata())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsNoCustomersInRegion(err))
	assert.Equal(t, 0, llm.Calls())
	assert.Empty(t, mailer.GetSentMails())
}

func TestCraftAndSend_LLMFailureStopsBeforeSending(t *testing.T) {
	customerRepo := newStubCustomerRepo()
	seedRegionalCustomers(t, customerRepo)
	llm := services.NewMockLLMService("")
	llm.Err = assert.AnError
	mailer := services.NewMockEmailService()
	flow := NewEmailCampaignFlow(customerRepo, &stubCampaignRepo{}, llm, mailer, nil)

	result, err := flow.CraftAndSend(context.Background(), &dto.CraftEmailRequest{
		Product: "SmartWidget",
		Region:  "Texas",
	}, testMetadata())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsLLMProviderFailed(err))
	assert.Empty(t, mailer.GetSentMails())
}

func TestCraftAndSend_BlankLLMReplyIsAnError(t *testing.T) {
	customerRepo := newStubCustomerRepo()
	seedRegionalCustomers(t, customerRepo)
	flow := NewEmailCampaignFlow(customerRepo, &stubCampaignRepo{}, services.NewMockLLMService("   \n"), services.NewMockEmailService(), nil)

	result, err := flow.CraftAndSend(context.Background(), &dto.CraftEmailRequest{
		Product: "SmartWidget",
		Region:  "Texas",
	}, testMetadata())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsLLMProviderFailed(err))
}

func TestCraftAndSend_EmailProviderFailure(t *testing.T) {
	customerRepo := newStubCustomerRepo()
	seedRegionalCustomers(t, customerRepo)
	campaignRepo := &stubCampaignRepo{}
	mailer := services.NewMockEmailService()
	mailer.Err = assert.AnError
	flow := NewEmailCampaignFlow(customerRepo, campaignRepo, services.NewMockLLMService("body"), mailer, nil)

	result, err := flow.CraftAndSend(context.Background(), &dto.CraftEmailRequest{
		Product: "SmartWidget",
		Region:  "Texas",
	}, testMetadata())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsEmailProviderFailed(err))
	assert.Empty(t, campaignRepo.campaigns)
}

func TestListCampaigns_ReturnsRecentCampaigns(t *testing.T) {
	customerRepo := newStubCustomerRepo()
	seedRegionalCustomers(t, customerRepo)
	campaignRepo := &stubCampaignRepo{}
	flow := NewEmailCampaignFlow(customerRepo, campaignRepo, services.NewMockLLMService("body"), services.NewMockEmailService(), nil)

	_, err := flow.CraftAndSend(context.Background(), &dto.CraftEmailRequest{Product: "SmartWidget", Region: "Texas"}, testMetadata())
	require.NoError(t, err)

	result, err := flow.ListCampaigns(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, result.Campaigns, 1)
	assert.Equal(t, "SmartWidget", result.Campaigns[0].Product)
	assert.Equal(t, 2, result.Campaigns[0].RecipientCount)
}
