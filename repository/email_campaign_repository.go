// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/leadkit/leadkit/models"
	"gorm.io/gorm"
)

// EmailCampaignRepositoryImpl implements EmailCampaignRepository interface
type EmailCampaignRepositoryImpl struct {
	*BaseRepository[models.EmailCampaign, models.EmailCampaignFilter]
}

// NewEmailCampaignRepository creates a new email campaign repository
func NewEmailCampaignRepository(db *gorm.DB) EmailCampaignRepository {
	return &EmailCampaignRepositoryImpl{
		BaseRepository: NewBaseRepository[models.EmailCampaign, models.EmailCampaignFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *EmailCampaignRepositoryImpl) applyFilter(query *gorm.DB, filter models.EmailCampaignFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Region != nil {
		query = query.Where("region = ?", *filter.Region)
	}
	if filter.SentAfter != nil {
		query = query.Where("sent_at >= ?", *filter.SentAfter)
	}
	if filter.SentBefore != nil {
		query = query.Where("sent_at <= ?", *filter.SentBefore)
	}
	return query
}

// ByFilter retrieves email campaigns matching the filter criteria
func (r *EmailCampaignRepositoryImpl) ByFilter(ctx context.Context, filter models.EmailCampaignFilter, orderBy string, limit, offset int) ([]*models.EmailCampaign, error) {
	db := r.getDB(ctx)

	query := r.applyFilter(db.Model(&models.EmailCampaign{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var campaigns []*models.EmailCampaign
	if err := query.Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("failed to find email campaigns by filter: %w", err)
	}

	return campaigns, nil
}

// Count returns the number of email campaigns matching the filter
func (r *EmailCampaignRepositoryImpl) Count(ctx context.Context, filter models.EmailCampaignFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.EmailCampaign{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count email campaigns: %w", err)
	}

	return count, nil
}

// ListRecent retrieves email campaigns ordered by send time, newest first
func (r *EmailCampaignRepositoryImpl) ListRecent(ctx context.Context, limit, offset int) ([]*models.EmailCampaign, error) {
	return r.ByFilter(ctx, models.EmailCampaignFilter{}, "sent_at DESC", limit, offset)
}
