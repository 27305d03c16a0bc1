// Package businessflow contains the business logic for the application.
package businessflow

import (
	"github.com/leadkit/leadkit/app/dto"
	"github.com/leadkit/leadkit/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and request tracking
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToLeadItem converts a lead model to its API representation
func ToLeadItem(lead models.Lead) dto.LeadItem {
	return dto.LeadItem{
		ID:            lead.ID,
		Username:      lead.Username,
		Name:          lead.Name,
		Bio:           lead.Bio,
		PostText:      lead.PostText,
		FollowerCount: lead.FollowerCount,
		Topics:        []string(lead.Topics),
		CapturedAt:    lead.CapturedAt,
	}
}

// ToLeadItems converts lead models preserving order
func ToLeadItems(leads []models.Lead) []dto.LeadItem {
	items := make([]dto.LeadItem, 0, len(leads))
	for _, lead := range leads {
		items = append(items, ToLeadItem(lead))
	}
	return items
}

// ToCustomerItem converts a customer model to its API representation
func ToCustomerItem(customer models.Customer) dto.CustomerItem {
	return dto.CustomerItem{
		UUID:                customer.UUID.String(),
		Name:                customer.Name,
		Email:               customer.Email,
		Gender:              customer.Gender,
		Phone:               customer.Phone,
		City:                customer.City,
		State:               customer.State,
		PurchaseHistory:     customer.PurchaseHistory,
		LastInteractionDate: customer.LastInteractionDate,
		Age:                 customer.Age,
		TotalSpend:          customer.TotalSpend,
		LoyaltyScore:        customer.LoyaltyScore,
		CreatedAt:           customer.CreatedAt,
	}
}

// ToUserInfo converts a user model to its public profile representation
func ToUserInfo(user models.User) dto.UserInfo {
	return dto.UserInfo{
		UUID:  user.UUID.String(),
		Email: user.Email,
		Name:  user.Name,
	}
}
