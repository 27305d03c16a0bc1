package dto

import (
	"time"
)

// Filter criterion kinds accepted by the lead monitor. Unknown kinds are
// tolerated and pass vacuously.
const (
	CriterionFollowerCount = "follower_count"
	CriterionEngagement    = "engagement"
)

// FilterCriterion is one threshold predicate a candidate lead must satisfy
type FilterCriterion struct {
	Type          string `json:"type" validate:"required"`
	MinFollowers  int    `json:"min_followers,omitempty" validate:"gte=0"`
	MinEngagement int    `json:"min_engagement,omitempty" validate:"gte=0"`
}

// MonitorLeadsRequest represents one lead ingestion cycle
type MonitorLeadsRequest struct {
	Topics  []string          `json:"topics" validate:"required,min=1,dive,required"`
	Filters []FilterCriterion `json:"filters" validate:"omitempty,dive"`
}

// LeadItem is one captured lead as returned to the dashboard
type LeadItem struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Name          string    `json:"name"`
	Bio           string    `json:"bio"`
	PostText      string    `json:"post_text"`
	FollowerCount int       `json:"follower_count"`
	Topics        []string  `json:"topics"`
	CapturedAt    time.Time `json:"captured_at"`
}

// MonitorLeadsResponse represents the result of one ingestion cycle
type MonitorLeadsResponse struct {
	Leads   []LeadItem `json:"leads"`
	Count   int        `json:"count"`
	Message string     `json:"message"`
}

// ListLeadsRequest represents a paginated lead listing request
type ListLeadsRequest struct {
	Page     int `json:"page" validate:"omitempty,gte=1"`
	PageSize int `json:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// ListLeadsResponse represents a page of captured leads, newest first
type ListLeadsResponse struct {
	Message string     `json:"message"`
	Leads   []LeadItem `json:"leads"`
	Total   int64      `json:"total"`
}

// StartMonitorRequest starts the periodic lead monitor
type StartMonitorRequest struct {
	Topics  []string          `json:"topics" validate:"required,min=1,dive,required"`
	Filters []FilterCriterion `json:"filters" validate:"omitempty,dive"`
}

// MonitorStatusResponse is the monitor state plus the merged lead snapshot
type MonitorStatusResponse struct {
	State   string     `json:"state"`
	Topics  []string   `json:"topics,omitempty"`
	Leads   []LeadItem `json:"leads"`
	Count   int        `json:"count"`
	Message string     `json:"message"`
}
