// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/leadkit/leadkit/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// LeadRepository defines operations for captured leads
type LeadRepository interface {
	ByFilter(ctx context.Context, filter models.LeadFilter, orderBy string, limit, offset int) ([]*models.Lead, error)
	Count(ctx context.Context, filter models.LeadFilter) (int64, error)
	ByPostID(ctx context.Context, postID string) (*models.Lead, error)
	// SaveIgnoreDuplicate inserts the lead and reports whether a row was
	// actually written; a post ID that already exists is skipped, not an error.
	SaveIgnoreDuplicate(ctx context.Context, lead *models.Lead) (bool, error)
	ListRecent(ctx context.Context, limit, offset int) ([]*models.Lead, error)
}

// CustomerRepository defines operations for CRM customers
type CustomerRepository interface {
	Repository[models.Customer, models.CustomerFilter]
	ByEmail(ctx context.Context, email string) (*models.Customer, error)
	// UpsertByEmail inserts the customer or, when the email already exists,
	// overwrites the mutable fields while preserving id, uuid and created_at.
	UpsertByEmail(ctx context.Context, customer *models.Customer) error
	ListByState(ctx context.Context, state string) ([]*models.Customer, error)
}

// UserRepository defines operations for dashboard users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID uint) error
}

// EmailCampaignRepository defines operations for sent email campaigns
type EmailCampaignRepository interface {
	Repository[models.EmailCampaign, models.EmailCampaignFilter]
	ListRecent(ctx context.Context, limit, offset int) ([]*models.EmailCampaign, error)
}
