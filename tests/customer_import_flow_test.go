// Package tests contains integration tests for customer import
package tests

import (
	"strings"
	"testing"

	"github.com/leadkit/leadkit/app/dto"
	"github.com/leadkit/leadkit/app/services"
	businessflow "github.com/leadkit/leadkit/business_flow"
	"github.com/leadkit/leadkit/models"
	"github.com/leadkit/leadkit/repository"
	testingutil "github.com/leadkit/leadkit/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerImportFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		customerRepo := repository.NewCustomerRepository(testDB.DB)
		customerFlow := businessflow.NewCustomerFlow(customerRepo, services.NewMockLLMService("Import summarized."), testDB.DB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("SuccessfulImport", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			csvData := strings.Join([]string{
				"name,email,gender,phone,city,state,purchase_history,last_interaction_date,age,total_spend,loyalty_score",
				"Jane Doe,jane@example.com,female,555-0001,Austin,Texas,laptop;mouse,2026-01-15,34,1299.50,0.8",
				"John Roe,JOHN@Example.com,male,555-0002,Denver,Colorado,keyboard,2026-02-20,41,89.99,0.3",
			}, "\n")

			result, err := customerFlow.ImportCustomers(ctx, strings.NewReader(csvData), metadata)
			require.NoError(t, err)
			assert.Equal(t, 2, result.RecordCount)

			john, err := customerRepo.ByEmail(ctx, "john@example.com")
			require.NoError(t, err)
			require.NotNil(t, john)
			assert.Equal(t, "John Roe", john.Name)
			assert.Equal(t, "Colorado", john.State)
			assert.Equal(t, 41, john.Age)
		})

		t.Run("ReimportPreservesIdentity", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			first := "name,email,city\nJane Doe,jane@example.com,Austin\n"
			_, err := customerFlow.ImportCustomers(ctx, strings.NewReader(first), metadata)
			require.NoError(t, err)

			original, err := customerRepo.ByEmail(ctx, "jane@example.com")
			require.NoError(t, err)
			require.NotNil(t, original)

			second := "name,email,city\nJane D. Doe,jane@example.com,Houston\n"
			_, err = customerFlow.ImportCustomers(ctx, strings.NewReader(second), metadata)
			require.NoError(t, err)

			updated, err := customerRepo.ByEmail(ctx, "jane@example.com")
			require.NoError(t, err)
			require.NotNil(t, updated)
			assert.Equal(t, "Jane D. Doe", updated.Name)
			assert.Equal(t, "Houston", updated.City)
			assert.Equal(t, original.ID, updated.ID)
			assert.Equal(t, original.UUID, updated.UUID)
			assert.WithinDuration(t, original.CreatedAt, updated.CreatedAt, 0)

			count, err := customerRepo.Count(ctx, models.CustomerFilter{})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("InvalidRowAbortsAfterEarlierRowsPersist", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			csvData := strings.Join([]string{
				"name,email",
				"Jane Doe,jane@example.com",
				"Nameless,",
				"Ada King,ada@example.com",
			}, "\n")

			result, err := customerFlow.ImportCustomers(ctx, strings.NewReader(csvData), metadata)
			require.Error(t, err)
			assert.Nil(t, result)

			jane, err := customerRepo.ByEmail(ctx, "jane@example.com")
			require.NoError(t, err)
			assert.NotNil(t, jane)

			ada, err := customerRepo.ByEmail(ctx, "ada@example.com")
			require.NoError(t, err)
			assert.Nil(t, ada)
		})

		t.Run("ListByState", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			csvData := strings.Join([]string{
				"name,email,state",
				"Jane Doe,jane@example.com,Texas",
				"John Roe,john@example.com,Texas",
				"Ada King,ada@example.com,Colorado",
			}, "\n")
			_, err := customerFlow.ImportCustomers(ctx, strings.NewReader(csvData), metadata)
			require.NoError(t, err)

			state := "Texas"
			result, err := customerFlow.ListCustomers(ctx, &dto.ListCustomersRequest{Page: 1, PageSize: 10, State: &state})
			require.NoError(t, err)
			assert.Equal(t, int64(2), result.Total)
			assert.Len(t, result.Customers, 2)
		})

		return nil
	})
	require.NoError(t, err)
}
