// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/leadkit/leadkit/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LeadRepositoryImpl implements LeadRepository interface
type LeadRepositoryImpl struct {
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &LeadRepositoryImpl{db: db}
}

func (r *LeadRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// ByPostID retrieves a lead by the provider-assigned post ID
func (r *LeadRepositoryImpl) ByPostID(ctx context.Context, postID string) (*models.Lead, error) {
	db := r.getDB(ctx)

	var lead models.Lead
	err := db.Where("id = ?", postID).First(&lead).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find lead by post ID %s: %w", postID, err)
	}

	return &lead, nil
}

// SaveIgnoreDuplicate inserts the lead, treating a post-ID conflict as a skip.
// The boolean reports whether a row was written: false means the post was
// already captured by an earlier cycle.
func (r *LeadRepositoryImpl) SaveIgnoreDuplicate(ctx context.Context, lead *models.Lead) (bool, error) {
	db := r.getDB(ctx)

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(lead)
	if res.Error != nil {
		return false, fmt.Errorf("failed to save lead %s: %w", lead.ID, res.Error)
	}

	return res.RowsAffected > 0, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *LeadRepositoryImpl) applyFilter(query *gorm.DB, filter models.LeadFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.Username != nil {
		query = query.Where("username = ?", *filter.Username)
	}
	if filter.CapturedAfter != nil {
		query = query.Where("captured_at >= ?", *filter.CapturedAfter)
	}
	if filter.CapturedBefore != nil {
		query = query.Where("captured_at <= ?", *filter.CapturedBefore)
	}
	return query
}

// ByFilter retrieves leads matching the filter criteria
func (r *LeadRepositoryImpl) ByFilter(ctx context.Context, filter models.LeadFilter, orderBy string, limit, offset int) ([]*models.Lead, error) {
	db := r.getDB(ctx)

	query := r.applyFilter(db.Model(&models.Lead{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var leads []*models.Lead
	if err := query.Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to find leads by filter: %w", err)
	}

	return leads, nil
}

// Count returns the number of leads matching the filter
func (r *LeadRepositoryImpl) Count(ctx context.Context, filter models.LeadFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Lead{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}

	return count, nil
}

// ListRecent retrieves leads ordered by capture time, newest first
func (r *LeadRepositoryImpl) ListRecent(ctx context.Context, limit, offset int) ([]*models.Lead, error) {
	return r.ByFilter(ctx, models.LeadFilter{}, "captured_at DESC", limit, offset)
}
