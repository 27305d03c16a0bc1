// Package tests contains integration tests for email campaigns
package tests

import (
	"testing"

	"github.com/leadkit/leadkit/app/dto"
	"github.com/leadkit/leadkit/app/services"
	businessflow "github.com/leadkit/leadkit/business_flow"
	"github.com/leadkit/leadkit/repository"
	testingutil "github.com/leadkit/leadkit/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailCampaignFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		customerRepo := repository.NewCustomerRepository(testDB.DB)
		campaignRepo := repository.NewEmailCampaignRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("CraftAndSendToRegion", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			first, err := fixtures.CreateTestCustomer("Texas")
			require.NoError(t, err)
			second, err := fixtures.CreateTestCustomer("Texas")
			require.NoError(t, err)
			_, err = fixtures.CreateTestCustomer("Colorado")
			require.NoError(t, err)

			llm := services.NewMockLLMService("<p>SmartWidget is on sale this week.</p>")
			mailer := services.NewMockEmailService()
			flow := businessflow.NewEmailCampaignFlow(customerRepo, campaignRepo, llm, mailer, testDB.DB)

			result, err := flow.CraftAndSend(ctx, &dto.CraftEmailRequest{
				Product: "SmartWidget",
				Region:  "Texas",
			}, metadata)
			require.NoError(t, err)

			assert.Equal(t, "Special Offer on SmartWidget for Texas Customers", result.Subject)
			assert.Equal(t, 2, result.RecipientCount)

			sent := mailer.GetSentMails()
			require.Len(t, sent, 1)
			assert.ElementsMatch(t, []string{first.Email, second.Email}, sent[0].To)

			campaigns, err := campaignRepo.ListRecent(ctx, 10, 0)
			require.NoError(t, err)
			require.Len(t, campaigns, 1)
			assert.Equal(t, "SmartWidget", campaigns[0].Product)
			assert.Equal(t, "Texas", campaigns[0].Region)
			assert.Len(t, campaigns[0].Recipients, 2)
		})

		t.Run("EmptyRegionFails", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			llm := services.NewMockLLMService("unused")
			mailer := services.NewMockEmailService()
			flow := businessflow.NewEmailCampaignFlow(customerRepo, campaignRepo, llm, mailer, testDB.DB)

			result, err := flow.CraftAndSend(ctx, &dto.CraftEmailRequest{
				Product: "SmartWidget",
				Region:  "Alaska",
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsNoCustomersInRegion(err))
			assert.Equal(t, 0, llm.Calls())
			assert.Empty(t, mailer.GetSentMails())
		})

		t.Run("ListCampaigns", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			_, err := fixtures.CreateTestCustomer("Texas")
			require.NoError(t, err)

			flow := businessflow.NewEmailCampaignFlow(customerRepo, campaignRepo, services.NewMockLLMService("body"), services.NewMockEmailService(), testDB.DB)
			_, err = flow.CraftAndSend(ctx, &dto.CraftEmailRequest{Product: "SmartWidget", Region: "Texas"}, metadata)
			require.NoError(t, err)

			result, err := flow.ListCampaigns(ctx, 10, 0)
			require.NoError(t, err)
			require.Len(t, result.Campaigns, 1)
			assert.Equal(t, "SmartWidget", result.Campaigns[0].Product)
			assert.Equal(t, 1, result.Campaigns[0].RecipientCount)
		})

		return nil
	})
	require.NoError(t, err)
}
