// Package models contains domain entities and business models for the CRM service
package models

import (
	"time"

	"github.com/lib/pq"
)

// Lead is a candidate customer captured from a matching social post.
// The primary key is the provider-assigned post ID, so a post is captured
// at most once; follower count and bio are snapshots taken at capture time
// and are never refreshed.
type Lead struct {
	ID            string         `gorm:"primaryKey;size:64" json:"id"`
	AuthorID      string         `gorm:"size:64;not null;index:idx_leads_author_id" json:"author_id"`
	Username      string         `gorm:"size:255;not null" json:"username"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Bio           string         `gorm:"type:text" json:"bio"`
	PostText      string         `gorm:"type:text;not null" json:"post_text"`
	FollowerCount int            `gorm:"not null;default:0" json:"follower_count"`
	Topics        pq.StringArray `gorm:"type:text[]" json:"topics"`
	CapturedAt    time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_leads_captured_at" json:"captured_at"`
}

func (Lead) TableName() string {
	return "leads"
}

// LeadFilter represents filter criteria for lead queries
type LeadFilter struct {
	ID             *string
	AuthorID       *string
	Username       *string
	CapturedAfter  *time.Time
	CapturedBefore *time.Time
}
