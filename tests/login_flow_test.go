// Package tests contains integration tests for login flow
package tests

import (
	"testing"
	"time"

	"github.com/leadkit/leadkit/app/dto"
	"github.com/leadkit/leadkit/app/services"
	businessflow "github.com/leadkit/leadkit/business_flow"
	"github.com/leadkit/leadkit/repository"
	testingutil "github.com/leadkit/leadkit/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		userRepo := repository.NewUserRepository(testDB.DB)
		tokenService, err := services.NewTokenService(time.Hour, "leadkit-api", "leadkit-dashboard", "test-secret-key-at-least-32-chars")
		require.NoError(t, err)

		loginFlow := businessflow.NewLoginFlow(userRepo, tokenService, testDB.DB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("SuccessfulLogin", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			result, err := loginFlow.Login(ctx, &dto.LoginRequest{
				Email:    user.Email,
				Password: "TestPass123!",
			}, metadata)
			require.NoError(t, err)

			assert.Equal(t, "Bearer", result.TokenType)
			assert.NotEmpty(t, result.AccessToken)
			assert.Equal(t, user.Email, result.User.Email)

			claims, err := tokenService.ValidateToken(result.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)

			refreshed, err := userRepo.ByID(ctx, user.ID)
			require.NoError(t, err)
			assert.NotNil(t, refreshed.LastLoginAt)
		})

		t.Run("EmailIsNormalized", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			result, err := loginFlow.Login(ctx, &dto.LoginRequest{
				Email:    "  " + user.Email + "  ",
				Password: "TestPass123!",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, user.Email, result.User.Email)
		})

		t.Run("WrongPassword", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			result, err := loginFlow.Login(ctx, &dto.LoginRequest{
				Email:    user.Email,
				Password: "WrongPass456!",
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsIncorrectPassword(err))
		})

		t.Run("UnknownEmail", func(t *testing.T) {
			result, err := loginFlow.Login(ctx, &dto.LoginRequest{
				Email:    "stranger@example.com",
				Password: "TestPass123!",
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
