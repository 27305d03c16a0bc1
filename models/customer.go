// Package models contains domain entities and business models for the CRM service
package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a CRM record ingested from bulk tabular imports. Email is the
// natural key: re-importing a known email overwrites the mutable fields while
// keeping the original UUID and creation timestamp.
type Customer struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_customers_uuid" json:"uuid"`

	Name   string `gorm:"size:255" json:"name"`
	Email  string `gorm:"size:255;not null;uniqueIndex:uk_customers_email" json:"email"`
	Gender string `gorm:"size:30" json:"gender"`
	Phone  string `gorm:"size:30" json:"phone"`
	City   string `gorm:"size:120" json:"city"`
	State  string `gorm:"size:120;index:idx_customers_state" json:"state"`

	PurchaseHistory     string `gorm:"type:text" json:"purchase_history"`
	LastInteractionDate string `gorm:"size:60" json:"last_interaction_date"`

	// Numeric columns are coerced on import; unparseable values become zero.
	Age          int     `gorm:"default:0" json:"age"`
	TotalSpend   float64 `gorm:"default:0" json:"total_spend"`
	LoyaltyScore float64 `gorm:"default:0" json:"loyalty_score"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_customers_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerFilter represents filter criteria for customer queries
type CustomerFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Email         *string
	State         *string
	City          *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
