package businessflow

import (
	"context"
	"errors"
	"testing"

	"github.com/leadkit/leadkit/app/dto"
	"github.com/leadkit/leadkit/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata() *ClientMetadata {
	return NewClientMetadata("127.0.0.1", "test-agent")
}

func TestMonitorLeads_EmptyTopicsFailsWithoutSearching(t *testing.T) {
	provider := services.NewMockSearchProvider(nil)
	flow := NewLeadMonitorFlow(newStubLeadRepo(), provider, nil, nil)

	cases := [][]string{
		nil,
		{},
		{""},
		{"  ", "\t"},
	}
	for _, topics := range cases {
		result, err := flow.MonitorLeads(context.Background(), &dto.MonitorLeadsRequest{Topics: topics}, testMetadata())
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, IsTopicsRequired(err))
	}

	assert.Equal(t, 0, provider.Calls())
}

func TestMonitorLeads_SearchProviderFailure(t *testing.T) {
	provider := services.NewMockSearchProvider(nil)
	provider.Err = errors.New("rate limited")
	flow := NewLeadMonitorFlow(newStubLeadRepo(), provider, nil, nil)

	result, err := flow.MonitorLeads(context.Background(), &dto.MonitorLeadsRequest{Topics: []string{"crm"}}, testMetadata())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsSearchProviderFailed(err))
	assert.Equal(t, 1, provider.Calls())
}

func TestMonitorLeads_NoMatchesIsStillSuccess(t *testing.T) {
	provider := services.NewMockSearchProvider(&services.SearchBatch{})
	flow := NewLeadMonitorFlow(newStubLeadRepo(), provider, nil, nil)

	result, err := flow.MonitorLeads(context.Background(), &dto.MonitorLeadsRequest{Topics: []string{"crm software"}}, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Leads)
	assert.Equal(t, "No new leads found for the given topics", result.Message)
}

func TestMonitorLeads_FollowerFilterKeepsOnlyQualifyingPosts(t *testing.T) {
	batch := &services.SearchBatch{
		Posts: []services.RawPost{
			{ID: "p1", AuthorID: "a1", Text: "need a better crm"},
			{ID: "p2", AuthorID: "a2", Text: "also need a crm"},
		},
		Authors: []services.AuthorProfile{
			{ID: "a1", Username: "bigfish", Name: "Big Fish", FollowerCount: 2000},
			{ID: "a2", Username: "smallfry", Name: "Small Fry", FollowerCount: 500},
		},
	}
	repo := newStubLeadRepo()
	flow := NewLeadMonitorFlow(repo, services.NewMockSearchProvider(batch), nil, nil)

	request := &dto.MonitorLeadsRequest{
		Topics:  []string{"crm"},
		Filters: []dto.FilterCriterion{{Type: dto.CriterionFollowerCount, MinFollowers: 1000}},
	}
	result, err := flow.MonitorLeads(context.Background(), request, testMetadata())
	require.NoError(t, err)

	require.Equal(t, 1, result.Count)
	assert.Equal(t, "p1", result.Leads[0].ID)
	assert.Equal(t, "bigfish", result.Leads[0].Username)
	assert.Equal(t, 2000, result.Leads[0].FollowerCount)
	assert.Equal(t, []string{"p1"}, repo.saved)
}

func TestMonitorLeads_DuplicatePostIsSkipped(t *testing.T) {
	batch := &services.SearchBatch{
		Posts: []services.RawPost{
			{ID: "p1", AuthorID: "a1", Text: "first sighting"},
		},
		Authors: []services.AuthorProfile{
			{ID: "a1", Username: "repeat", Name: "Repeat Author", FollowerCount: 100},
		},
	}
	repo := newStubLeadRepo()
	flow := NewLeadMonitorFlow(repo, services.NewMockSearchProvider(batch), nil, nil)

	first, err := flow.MonitorLeads(context.Background(), &dto.MonitorLeadsRequest{Topics: []string{"crm"}}, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Count)

	second, err := flow.MonitorLeads(context.Background(), &dto.MonitorLeadsRequest{Topics: []string{"crm"}}, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Count)
	assert.Equal(t, []string{"p1"}, repo.saved)
}

func TestMonitorLeads_SaveFailureSkipsRowAndContinues(t *testing.T) {
	batch := &services.SearchBatch{
		Posts: []services.RawPost{
			{ID: "p1", AuthorID: "a1", Text: "will fail to save"},
			{ID: "p2", AuthorID: "a1", Text: "will save fine"},
		},
		Authors: []services.AuthorProfile{
			{ID: "a1", Username: "author", Name: "Author", FollowerCount: 100},
		},
	}
	repo := newStubLeadRepo()
	repo.failByID["p1"] = errors.New("connection reset")
	flow := NewLeadMonitorFlow(repo, services.NewMockSearchProvider(batch), nil, nil)

	result, err := flow.MonitorLeads(context.Background(), &dto.MonitorLeadsRequest{Topics: []string{"crm"}}, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "p2", result.Leads[0].ID)
}

func TestMonitorLeads_IncompletePostsAreSkipped(t *testing.T) {
	batch := &services.SearchBatch{
		Posts: []services.RawPost{
			{ID: "", AuthorID: "a1", Text: "no post id"},
			{ID: "p2", AuthorID: "", Text: "no author"},
			{ID: "p3", AuthorID: "a1", Text: ""},
			{ID: "p4", AuthorID: "ghost", Text: "author not in batch"},
			{ID: "p5", AuthorID: "a1", Text: "complete"},
		},
		Authors: []services.AuthorProfile{
			{ID: "a1", Username: "author", Name: "Author", FollowerCount: 100},
		},
	}
	repo := newStubLeadRepo()
	flow := NewLeadMonitorFlow(repo, services.NewMockSearchProvider(batch), nil, nil)

	result, err := flow.MonitorLeads(context.Background(), &dto.MonitorLeadsRequest{Topics: []string{"crm"}}, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, []string{"p5"}, repo.saved)
}

func TestMonitorLeads_DuplicateTopicsAreCollapsed(t *testing.T) {
	batch := &services.SearchBatch{
		Posts: []services.RawPost{
			{ID: "p1", AuthorID: "a1", Text: "about ai"},
		},
		Authors: []services.AuthorProfile{
			{ID: "a1", Username: "author", Name: "Author", FollowerCount: 100},
		},
	}
	provider := services.NewMockSearchProvider(batch)
	repo := newStubLeadRepo()
	flow := NewLeadMonitorFlow(repo, provider, nil, nil)

	result, err := flow.MonitorLeads(context.Background(), &dto.MonitorLeadsRequest{Topics: []string{"ai", "ai", " ai "}}, testMetadata())
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, []string{"ai"}, []string(repo.leads["p1"].Topics))
}

func TestListLeads_ClampsPagination(t *testing.T) {
	batch := &services.SearchBatch{
		Posts: []services.RawPost{
			{ID: "p1", AuthorID: "a1", Text: "captured"},
		},
		Authors: []services.AuthorProfile{
			{ID: "a1", Username: "author", Name: "Author", FollowerCount: 100},
		},
	}
	repo := newStubLeadRepo()
	flow := NewLeadMonitorFlow(repo, services.NewMockSearchProvider(batch), nil, nil)

	_, err := flow.MonitorLeads(context.Background(), &dto.MonitorLeadsRequest{Topics: []string{"crm"}}, testMetadata())
	require.NoError(t, err)

	result, err := flow.ListLeads(context.Background(), &dto.ListLeadsRequest{Page: 0, PageSize: -5})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	assert.Len(t, result.Leads, 1)
}
