package dto

import (
	"time"
)

// ImportCustomersResponse represents the result of a bulk tabular import
type ImportCustomersResponse struct {
	Message     string `json:"message"`
	RecordCount int    `json:"record_count"`
}

// CustomerItem is one CRM record as returned to the dashboard
type CustomerItem struct {
	UUID                string    `json:"uuid"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Gender              string    `json:"gender,omitempty"`
	Phone               string    `json:"phone,omitempty"`
	City                string    `json:"city,omitempty"`
	State               string    `json:"state,omitempty"`
	PurchaseHistory     string    `json:"purchase_history,omitempty"`
	LastInteractionDate string    `json:"last_interaction_date,omitempty"`
	Age                 int       `json:"age"`
	TotalSpend          float64   `json:"total_spend"`
	LoyaltyScore        float64   `json:"loyalty_score"`
	CreatedAt           time.Time `json:"created_at"`
}

// ListCustomersRequest represents a paginated customer listing request
type ListCustomersRequest struct {
	Page     int     `json:"page" validate:"omitempty,gte=1"`
	PageSize int     `json:"page_size" validate:"omitempty,gte=1,lte=100"`
	State    *string `json:"state,omitempty"`
}

// ListCustomersResponse represents a page of CRM records
type ListCustomersResponse struct {
	Message   string         `json:"message"`
	Customers []CustomerItem `json:"customers"`
	Total     int64          `json:"total"`
}
