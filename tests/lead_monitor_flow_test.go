// Package tests contains integration tests for lead monitoring
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

func TestLeadMonitorFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		leadRepo := repository.NewLeadRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		batch := &services.SearchBatch{
			Posts: []services.RawPost{
				{ID: "post-1", AuthorID: "author-1", Text: "looking for a crm", RetweetCount: 5, LikeCount: 20},
				{ID: "post-2", AuthorID: "author-2", Text: "our crm is too slow", RetweetCount: 1, LikeCount: 2},
			},
			Authors: []services.AuthorProfile{
				{ID: "author-1", Username: "bigfish", Name: "Big Fish", Bio: "founder", FollowerCount: 2000},
				{ID: "author-2", Username: "smallfry", Name: "Small Fry", Bio: "hobbyist", FollowerCount: 500},
			},
		}

		t.Run("EmptyTopicsNeverHitsProvider", func(t *testing.T) {
			provider := services.NewMockSearchProvider(batch)
			flow := businessflow.NewLeadMonitorFlow(leadRepo, provider, nil, testDB.DB)

			result, err := flow.MonitorLeads(ctx, &dto.MonitorLeadsRequest{Topics: []string{"", "  "}}, metadata)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsTopicsRequired(err))
			assert.Equal(t, 0, provider.Calls())
		})

		t.Run("CapturesFilteredLeads", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			provider := services.NewMockSearchProvider(batch)
			flow := businessflow.NewLeadMonitorFlow(leadRepo, provider, nil, testDB.DB)

			result, err := flow.MonitorLeads(ctx, &dto.MonitorLeadsRequest{
				Topics:  []string{"crm"},
				Filters: []dto.FilterCriterion{{Type: dto.CriterionFollowerCount, MinFollowers: 1000}},
			}, metadata)
			require.NoError(t, err)

			require.Equal(t, 1, result.Count)
			assert.Equal(t, "post-1", result.Leads[0].ID)
			assert.Equal(t, "bigfish", result.Leads[0].Username)
			assert.Equal(t, []string{"crm"}, result.Leads[0].Topics)

			stored, err := leadRepo.ByPostID(ctx, "post-1")
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, 2000, stored.FollowerCount)

			filtered, err := leadRepo.ByPostID(ctx, "post-2")
			require.NoError(t, err)
			assert.Nil(t, filtered)
		})

		t.Run("SecondCycleSkipsCapturedPosts", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			provider := services.NewMockSearchProvider(batch)
			flow := businessflow.NewLeadMonitorFlow(leadRepo, provider, nil, testDB.DB)
			request := &dto.MonitorLeadsRequest{Topics: []string{"crm"}}

			first, err := flow.MonitorLeads(ctx, request, metadata)
			require.NoError(t, err)
			assert.Equal(t, 2, first.Count)

			second, err := flow.MonitorLeads(ctx, request, metadata)
			require.NoError(t, err)
			assert.Equal(t, 0, second.Count)
			assert.Equal(t, "No new leads found for the given topics", second.Message)
		})

		t.Run("ListLeadsNewestFirst", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			fixtures := testingutil.NewTestFixtures(testDB)
			_, err := fixtures.CreateTestLead("post-old", []string{"crm"})
			require.NoError(t, err)
			_, err = fixtures.CreateTestLead("post-new", []string{"crm"})
			require.NoError(t, err)

			flow := businessflow.NewLeadMonitorFlow(leadRepo, services.NewMockSearchProvider(nil), nil, testDB.DB)
			result, err := flow.ListLeads(ctx, &dto.ListLeadsRequest{Page: 1, PageSize: 10})
			require.NoError(t, err)

			assert.Equal(t, int64(2), result.Total)
			require.Len(t, result.Leads, 2)
		})

		return nil
	})
	require.NoError(t, err)
}
