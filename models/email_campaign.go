// Package models contains domain entities and business models for the CRM service
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EmailCampaign records one crafted-and-sent marketing email: the product and
// target region it was generated for, the LLM-drafted body, and the recipient
// list at send time.
type EmailCampaign struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_email_campaigns_uuid" json:"uuid"`

	Product string `gorm:"size:255;not null" json:"product"`
	Region  string `gorm:"size:120;not null;index:idx_email_campaigns_region" json:"region"`

	Subject    string         `gorm:"size:255;not null" json:"subject"`
	Body       string         `gorm:"type:text;not null" json:"body"`
	Recipients pq.StringArray `gorm:"type:text[];not null" json:"recipients"`

	SentAt    time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_email_campaigns_sent_at" json:"sent_at"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (EmailCampaign) TableName() string {
	return "email_campaigns"
}

// EmailCampaignFilter represents filter criteria for email campaign queries
type EmailCampaignFilter struct {
	ID         *uint
	UUID       *uuid.UUID
	Region     *string
	SentAfter  *time.Time
	SentBefore *time.Time
}
