// Package businessflow contains the core business logic and use cases for lead and customer workflows
package businessflow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/leadkit/leadkit/app/dto"
	"github.com/leadkit/leadkit/app/services"
	"github.com/leadkit/leadkit/models"
	"github.com/leadkit/leadkit/repository"
	"github.com/leadkit/leadkit/utils"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// LeadMonitorFlow handles lead ingestion cycles and lead listing
type LeadMonitorFlow interface {
	MonitorLeads(ctx context.Context, request *dto.MonitorLeadsRequest, metadata *ClientMetadata) (*dto.MonitorLeadsResponse, error)
	ListLeads(ctx context.Context, request *dto.ListLeadsRequest) (*dto.ListLeadsResponse, error)
}

// LeadMonitorFlowImpl implements the lead ingestion business flow
type LeadMonitorFlowImpl struct {
	leadRepo       repository.LeadRepository
	searchProvider services.SearchProvider
	rc             *redis.Client
	db             *gorm.DB
}

// NewLeadMonitorFlow creates a new lead monitor flow instance. The redis
// client is optional; without it every candidate goes straight to the
// database insert.
func NewLeadMonitorFlow(
	leadRepo repository.LeadRepository,
	searchProvider services.SearchProvider,
	rc *redis.Client,
	db *gorm.DB,
) LeadMonitorFlow {
	return &LeadMonitorFlowImpl{
		leadRepo:       leadRepo,
		searchProvider: searchProvider,
		rc:             rc,
		db:             db,
	}
}

// MonitorLeads runs one ingestion cycle: search recent posts for the topics,
// filter the candidates, and persist the survivors. Posts whose author cannot
// be resolved from the batch are skipped, as are posts whose ID is already
// captured and rows whose insert fails; a cycle that captures nothing new is
// still a success.
func (f *LeadMonitorFlowImpl) MonitorLeads(ctx context.Context, request *dto.MonitorLeadsRequest, metadata *ClientMetadata) (*dto.MonitorLeadsResponse, error) {
	topics := normalizeTopics(request.Topics)
	if len(topics) == 0 {
		return nil, NewBusinessError("LEAD_MONITOR_VALIDATION_FAILED", "Lead monitoring validation failed", ErrTopicsRequired)
	}

	batch, err := f.searchProvider.SearchRecent(ctx, topics)
	if err != nil {
		return nil, NewBusinessError("LEAD_SEARCH_FAILED", "Post search failed", fmt.Errorf("%w: %v", ErrSearchProviderFailed, err))
	}

	authors := make(map[string]services.AuthorProfile, len(batch.Authors))
	for _, author := range batch.Authors {
		authors[author.ID] = author
	}

	matched := FilterPosts(batch.Posts, authors, request.Filters)

	inserted := make([]models.Lead, 0, len(matched))
	for _, post := range matched {
		if post.ID == "" || post.AuthorID == "" || post.Text == "" {
			continue
		}

		author, ok := authors[post.AuthorID]
		if !ok {
			log.Printf("lead monitor: skipping post %s: author %s not in batch", post.ID, post.AuthorID)
			continue
		}

		if f.isAlreadySeen(ctx, post.ID) {
			continue
		}

		lead := models.Lead{
			ID:            post.ID,
			AuthorID:      post.AuthorID,
			Username:      author.Username,
			Name:          author.Name,
			Bio:           author.Bio,
			PostText:      post.Text,
			Topics:        pq.StringArray(topics),
			CapturedAt:    utils.UTCNow(),
			FollowerCount: author.FollowerCount,
		}

		wasInserted, err := f.leadRepo.SaveIgnoreDuplicate(ctx, &lead)
		if err != nil {
			log.Printf("lead monitor: failed to save lead %s: %v", lead.ID, err)
			continue
		}

		f.markSeen(ctx, post.ID)

		if wasInserted {
			inserted = append(inserted, lead)
		}
	}

	message := fmt.Sprintf("Captured %d new leads", len(inserted))
	if len(inserted) == 0 {
		message = "No new leads found for the given topics"
	}

	return &dto.MonitorLeadsResponse{
		Leads:   ToLeadItems(inserted),
		Count:   len(inserted),
		Message: message,
	}, nil
}

// ListLeads returns a page of captured leads, newest first
func (f *LeadMonitorFlowImpl) ListLeads(ctx context.Context, request *dto.ListLeadsRequest) (*dto.ListLeadsResponse, error) {
	page := request.Page
	if page < 1 {
		page = 1
	}
	pageSize := request.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	leads, err := f.leadRepo.ListRecent(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("LEAD_LIST_FAILED", "Failed to list leads", err)
	}

	total, err := f.leadRepo.Count(ctx, models.LeadFilter{})
	if err != nil {
		return nil, NewBusinessError("LEAD_COUNT_FAILED", "Failed to count leads", err)
	}

	items := make([]dto.LeadItem, 0, len(leads))
	for _, lead := range leads {
		items = append(items, ToLeadItem(*lead))
	}

	return &dto.ListLeadsResponse{
		Message: "Leads retrieved successfully",
		Leads:   items,
		Total:   total,
	}, nil
}

// isAlreadySeen checks the redis seen-set; cache misses and cache errors both
// fall through to the database insert, which is the source of truth.
func (f *LeadMonitorFlowImpl) isAlreadySeen(ctx context.Context, postID string) bool {
	if f.rc == nil {
		return false
	}
	seen, err := f.rc.SIsMember(ctx, utils.SeenLeadCacheKey, postID).Result()
	if err != nil {
		return false
	}
	return seen
}

func (f *LeadMonitorFlowImpl) markSeen(ctx context.Context, postID string) {
	if f.rc == nil {
		return
	}
	_ = f.rc.SAdd(ctx, utils.SeenLeadCacheKey, postID).Err()
}

// normalizeTopics trims whitespace, drops empty entries, and collapses
// duplicates keeping first-seen order.
func normalizeTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	seen := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
