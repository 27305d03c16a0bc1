// Package testing provides test utilities and database setup for testing the CRM service
package testing

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/leadkit/leadkit/models"
	"github.com/leadkit/leadkit/utils"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates an active dashboard user with the password "TestPass123!"
func (tf *TestFixtures) CreateTestUser() (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	user := &models.User{
		UUID:         uuid.New(),
		Email:        fmt.Sprintf("jane.doe.%s@example.com", randomDigits),
		Name:         "Jane Doe",
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestCustomer creates a customer in the given state
func (tf *TestFixtures) CreateTestCustomer(state string) (*models.Customer, error) {
	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	customer := &models.Customer{
		UUID:                uuid.New(),
		Name:                "John Smith",
		Email:               fmt.Sprintf("john.smith.%s@example.com", randomDigits),
		Gender:              "male",
		Phone:               fmt.Sprintf("+1555%s", randomDigits[:7]),
		City:                "Springfield",
		State:               state,
		PurchaseHistory:     "starter plan",
		LastInteractionDate: "2025-06-01",
		Age:                 34,
		TotalSpend:          129.99,
		LoyaltyScore:        0.7,
		CreatedAt:           utils.UTCNow(),
		UpdatedAt:           utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create test customer: %w", err)
	}

	return customer, nil
}

// CreateTestLead creates a captured lead with the given post ID
func (tf *TestFixtures) CreateTestLead(postID string, topics []string) (*models.Lead, error) {
	lead := &models.Lead{
		ID:            postID,
		AuthorID:      fmt.Sprintf("author-%s", postID),
		Username:      fmt.Sprintf("user_%s", postID),
		Name:          "Test Author",
		Bio:           "Building things",
		PostText:      "Looking for a better CRM",
		FollowerCount: 1500,
		Topics:        pq.StringArray(topics),
		CapturedAt:    utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to create test lead: %w", err)
	}

	return lead, nil
}
