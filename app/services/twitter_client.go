// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/leadkit/leadkit/config"
)

// RawPost is one search result from the social search provider. Engagement
// counters default to zero when the provider omits them.
type RawPost struct {
	ID           string `json:"id"`
	AuthorID     string `json:"author_id"`
	Text         string `json:"text"`
	RetweetCount int    `json:"retweet_count"`
	LikeCount    int    `json:"like_count"`
}

// AuthorProfile is the expanded author record attached to a search batch.
// FollowerCount defaults to zero when the provider omits public metrics.
type AuthorProfile struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	Bio           string `json:"bio"`
	FollowerCount int    `json:"follower_count"`
}

// SearchBatch is one page of search results plus the author expansion.
type SearchBatch struct {
	Posts   []RawPost       `json:"posts"`
	Authors []AuthorProfile `json:"authors"`
}

// AuthorByID resolves an author profile from the batch; nil when absent.
func (b *SearchBatch) AuthorByID(authorID string) *AuthorProfile {
	for i := range b.Authors {
		if b.Authors[i].ID == authorID {
			return &b.Authors[i]
		}
	}
	return nil
}

// SearchProvider issues keyword searches against the social search API
type SearchProvider interface {
	SearchRecent(ctx context.Context, topics []string) (*SearchBatch, error)
}

// TwitterClient implements SearchProvider against the X API v2 recent search
// endpoint using a bearer token.
type TwitterClient struct {
	config *config.TwitterConfig
	client *http.Client
}

// NewTwitterClient creates a new search provider client
func NewTwitterClient(cfg *config.TwitterConfig) SearchProvider {
	return &TwitterClient{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// BuildSearchQuery joins quoted topics into a single disjunctive query:
// `"topic1" OR "topic2" OR ...`
func BuildSearchQuery(topics []string) string {
	quoted := make([]string, 0, len(topics))
	for _, t := range topics {
		quoted = append(quoted, fmt.Sprintf("%q", t))
	}
	return strings.Join(quoted, " OR ")
}

// SearchRecent fetches up to one page of recent posts matching any topic,
// with the author expansion inlined. Zero matches yields an empty batch, not
// an error; any transport, auth or decode failure is surfaced opaquely to the
// caller with no retry.
func (c *TwitterClient) SearchRecent(ctx context.Context, topics []string) (*SearchBatch, error) {
	pageSize := c.config.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}

	params := url.Values{}
	params.Set("query", BuildSearchQuery(topics))
	params.Set("max_results", fmt.Sprintf("%d", pageSize))
	params.Set("tweet.fields", "created_at,author_id,public_metrics")
	params.Set("user.fields", "name,username,description,public_metrics")
	params.Set("expansions", "author_id")

	endpoint := fmt.Sprintf("%s/tweets/search/recent?%s", c.config.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.BearerToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider returned status %d", resp.StatusCode)
	}

	var raw struct {
		Data []struct {
			ID            string `json:"id"`
			AuthorID      string `json:"author_id"`
			Text          string `json:"text"`
			PublicMetrics struct {
				RetweetCount int `json:"retweet_count"`
				ReplyCount   int `json:"reply_count"`
				LikeCount    int `json:"like_count"`
				QuoteCount   int `json:"quote_count"`
			} `json:"public_metrics"`
		} `json:"data"`
		Includes struct {
			Users []struct {
				ID            string `json:"id"`
				Username      string `json:"username"`
				Name          string `json:"name"`
				Description   string `json:"description"`
				PublicMetrics struct {
					FollowersCount int `json:"followers_count"`
					FollowingCount int `json:"following_count"`
					TweetCount     int `json:"tweet_count"`
					ListedCount    int `json:"listed_count"`
				} `json:"public_metrics"`
			} `json:"users"`
		} `json:"includes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	batch := &SearchBatch{
		Posts:   make([]RawPost, 0, len(raw.Data)),
		Authors: make([]AuthorProfile, 0, len(raw.Includes.Users)),
	}
	for _, d := range raw.Data {
		batch.Posts = append(batch.Posts, RawPost{
			ID:           d.ID,
			AuthorID:     d.AuthorID,
			Text:         d.Text,
			RetweetCount: d.PublicMetrics.RetweetCount,
			LikeCount:    d.PublicMetrics.LikeCount,
		})
	}
	for _, u := range raw.Includes.Users {
		batch.Authors = append(batch.Authors, AuthorProfile{
			ID:            u.ID,
			Username:      u.Username,
			Name:          u.Name,
			Bio:           u.Description,
			FollowerCount: u.PublicMetrics.FollowersCount,
		})
	}

	return batch, nil
}

// MockSearchProvider implements SearchProvider for testing
type MockSearchProvider struct {
	mu        sync.Mutex
	CallCount int
	Batch     *SearchBatch
	Err       error
}

// NewMockSearchProvider creates a mock search provider returning the given batch
func NewMockSearchProvider(batch *SearchBatch) *MockSearchProvider {
	return &MockSearchProvider{Batch: batch}
}

func (m *MockSearchProvider) SearchRecent(ctx context.Context, topics []string) (*SearchBatch, error) {
	m.mu.Lock()
	m.CallCount++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Batch == nil {
		return &SearchBatch{}, nil
	}
	return m.Batch, nil
}

// Calls returns the number of searches issued so far
func (m *MockSearchProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}
